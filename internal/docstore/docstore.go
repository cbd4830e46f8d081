package docstore

import (
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setmaster/internal/shared"
)

// envelope is the persisted shape: the whole state struct nested under a
// "state" field.
type envelope[S any] struct {
	State S `json:"state"`
}

// Store holds one dataset's in-memory state for the current user and
// persists snapshots of it through a [Blobs] store.
//
// Mutations are synchronous against memory so readers observe them
// immediately; persistence is write-behind and best-effort.
type Store[S any] struct {
	mu      sync.Mutex
	pending sync.WaitGroup

	blobs   *Blobs
	baseKey string
	logger  *log.Logger
	empty   func() S

	userID string
	state  S
}

// NewStore creates a Store for the dataset identified by baseKey. The empty
// function produces a fresh zero state (maps allocated).
func NewStore[S any](blobs *Blobs, baseKey string, logger *log.Logger, empty func() S) *Store[S] {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store[S]{
		blobs:   blobs,
		baseKey: baseKey,
		logger:  shared.WithLogger(logger, "dataset", baseKey),
		empty:   empty,
		state:   empty(),
	}
}

// BaseKey returns the dataset's logical base key.
func (s *Store[S]) BaseKey() string {
	return s.baseKey
}

// CurrentUser returns the id of the user whose data is loaded, or "".
func (s *Store[S]) CurrentUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// LoadUserData reads the user's persisted snapshot into memory. An absent
// blob initializes empty state for that user; a corrupt blob is logged and
// likewise treated as empty. The only error path is a failing read from the
// underlying store, and even then the store is left usable with empty state.
func (s *Store[S]) LoadUserData(userID string) error {
	key := shared.UserStorageKey(userID, s.baseKey)

	data, found, err := s.blobs.Get(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.userID = userID
	s.state = s.empty()

	if err != nil {
		s.logger.Error("failed to read persisted data", "user", userID, "err", err)
		return err
	}
	if !found {
		return nil
	}

	var env envelope[S]
	if err := json.Unmarshal(data, &env); err != nil {
		s.logger.Warn("discarding corrupt persisted data", "user", userID, "err", err)
		return nil
	}

	s.state = env.State
	return nil
}

// Mutate applies fn to the in-memory state under lock, then schedules a
// best-effort persistence of the new snapshot. When no user is active the
// mutation is skipped with a warning.
func (s *Store[S]) Mutate(fn func(*S)) {
	s.mu.Lock()

	if s.userID == "" {
		s.mu.Unlock()
		s.logger.Warn("mutation ignored: no active user")
		return
	}

	fn(&s.state)

	// Serialize while still holding the lock so the snapshot can't observe
	// a later mutation, then write it out asynchronously.
	key := shared.UserStorageKey(s.userID, s.baseKey)
	data, err := json.Marshal(envelope[S]{State: s.state})
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to serialize state", "err", err)
		return
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.blobs.Put(key, data); err != nil {
			s.logger.Error("failed to persist state", "err", err)
		}
	}()
}

// Read runs fn against the current state under lock. fn must not retain
// references to mutable state internals after returning.
func (s *Store[S]) Read(fn func(S)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// Flush blocks until every scheduled persistence write has completed.
func (s *Store[S]) Flush() {
	s.pending.Wait()
}

// ClearData resets in-memory state and drops the user association. The
// persisted blob is intentionally kept; the user's data reloads on the next
// LoadUserData with the same id.
func (s *Store[S]) ClearData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	s.state = s.empty()
}
