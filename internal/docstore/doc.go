// Package docstore implements the per-user keyed document store.
//
// Each dataset persists its entire in-memory state as one JSON blob per
// user, under a key derived from the dataset's base key and the user id
// (shared.UserStorageKey). Blobs live in a single bbolt bucket.
//
// [Store] wraps a state struct S with the load/mutate/clear lifecycle:
//
//   - LoadUserData reads the current user's blob; an absent or corrupt blob
//     initializes empty state and is never surfaced as an error.
//   - Mutate applies a change synchronously in memory, then persists the
//     serialized snapshot asynchronously, best-effort. Failures are logged,
//     not retried, and not reported to the caller.
//   - Flush drains pending writes, making persistence observable in tests.
//   - ClearData resets memory and drops the user association without
//     deleting the persisted blob, so the data reloads on next sign-in.
package docstore
