// Package stores holds the application-facing data stores.
//
// [SongStore], [SetlistStore] and [RehearsalStore] keep their state in a
// per-user document store and mutate it synchronously in memory. [BandStore],
// [ChatStore] and [SharedSetlistStore] cache data owned by the collaboration
// backend and write through its services.
//
// Every store satisfies the lifecycle Dataset contract: LoadUserData swaps
// in one user's data and ClearData evicts it from memory.
package stores
