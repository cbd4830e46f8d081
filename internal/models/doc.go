// Package models defines domain entities for the SetMaster core.
//
// The package contains two categories of types:
//
// 1. Local entities, persisted in the on-device SQLite store and in the
// per-user keyed document store:
//   - [Song] : A song with duration, optional media references, lyrics and key
//   - [Setlist] : A named, ordered collection of song ids with aggregate duration
//   - [Cue] : A timestamp-anchored annotation on a song
//   - [PracticeSchedule] : A recurring practice reminder with goals
//   - [RehearsalSession] : A rehearsal with playback cursor state
//   - [RehearsalPlan] : A generated rehearsal outline
//
// 2. Remote entities, owned by the hosted collaboration backend and only
// cached in memory on-device:
//   - [Band], [BandMember], [BandInvitation] : Group membership and invites
//   - [BandMessage] : Chat messages, including setlist-share messages
//   - [SharedSetlist], [SharedSong] : Setlists published to a band
//
// Local entities carry epoch-millisecond CreatedAt/UpdatedAt timestamps and
// are mutated through per-entity update-command types ([SongUpdate],
// [SetlistUpdate], ...) that enumerate the legal mutable fields.
package models
