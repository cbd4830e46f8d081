package stores

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setmaster/internal/docstore"
	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
)

type setlistState struct {
	Setlists        []models.Setlist `json:"setlists"`
	ActiveSetlistID string           `json:"activeSetlistId,omitempty"`
}

// SetlistStore keeps the current user's setlists and the active-setlist
// selection.
type SetlistStore struct {
	store *docstore.Store[setlistState]
}

// NewSetlistStore creates a setlist store persisting through blobs.
func NewSetlistStore(blobs *docstore.Blobs, logger *log.Logger) *SetlistStore {
	return &SetlistStore{
		store: docstore.NewStore(blobs, "setmaster-setlists", logger, func() setlistState {
			return setlistState{}
		}),
	}
}

// Name identifies the dataset.
func (s *SetlistStore) Name() string {
	return "setlists"
}

// LoadUserData loads the given user's setlists into memory.
func (s *SetlistStore) LoadUserData(_ context.Context, userID string) error {
	return s.store.LoadUserData(userID)
}

// ClearData evicts the current user's setlists from memory.
func (s *SetlistStore) ClearData() {
	s.store.ClearData()
}

// Flush blocks until pending persistence writes complete.
func (s *SetlistStore) Flush() {
	s.store.Flush()
}

// Setlists returns a copy of the user's setlists.
func (s *SetlistStore) Setlists() []models.Setlist {
	var setlists []models.Setlist
	s.store.Read(func(st setlistState) {
		for _, setlist := range st.Setlists {
			setlists = append(setlists, copySetlist(setlist))
		}
	})
	return setlists
}

// Setlist returns the setlist with the given id, or nil.
func (s *SetlistStore) Setlist(id string) *models.Setlist {
	var setlist *models.Setlist
	s.store.Read(func(st setlistState) {
		for i := range st.Setlists {
			if st.Setlists[i].ID == id {
				copied := copySetlist(st.Setlists[i])
				setlist = &copied
				return
			}
		}
	})
	return setlist
}

// ActiveSetlistID returns the id of the active setlist, or "".
func (s *SetlistStore) ActiveSetlistID() string {
	var id string
	s.store.Read(func(st setlistState) {
		id = st.ActiveSetlistID
	})
	return id
}

// SetActiveSetlist marks a setlist as the one currently in use. An empty id
// clears the selection.
func (s *SetlistStore) SetActiveSetlist(id string) {
	s.store.Mutate(func(st *setlistState) {
		st.ActiveSetlistID = id
	})
}

// ReplaceAll swaps the whole collection for the given setlists. The active
// selection is kept when it still names one of them.
func (s *SetlistStore) ReplaceAll(setlists []models.Setlist) {
	s.store.Mutate(func(st *setlistState) {
		st.Setlists = append([]models.Setlist(nil), setlists...)
		if st.ActiveSetlistID == "" {
			return
		}
		for i := range st.Setlists {
			if st.Setlists[i].ID == st.ActiveSetlistID {
				return
			}
		}
		st.ActiveSetlistID = ""
	})
}

// AddSetlist validates and appends a setlist, assigning id and timestamps.
func (s *SetlistStore) AddSetlist(setlist models.Setlist) (models.Setlist, error) {
	if err := setlist.Validate(); err != nil {
		return models.Setlist{}, fmt.Errorf("invalid setlist: %w", err)
	}

	if setlist.ID == "" {
		setlist.ID = shared.GenerateID()
	}
	now := shared.NowMillis()
	setlist.CreatedAt = now
	setlist.UpdatedAt = now

	s.store.Mutate(func(st *setlistState) {
		st.Setlists = append(st.Setlists, setlist)
	})

	return setlist, nil
}

// UpdateSetlist applies the non-nil fields of u to the setlist with the
// given id. A non-nil Songs replaces the song order wholesale.
func (s *SetlistStore) UpdateSetlist(id string, u models.SetlistUpdate) {
	s.store.Mutate(func(st *setlistState) {
		for i := range st.Setlists {
			if st.Setlists[i].ID != id {
				continue
			}

			setlist := &st.Setlists[i]
			if u.Name != nil {
				setlist.Name = *u.Name
			}
			if u.Songs != nil {
				setlist.Songs = append([]string(nil), (*u.Songs)...)
			}
			if u.Duration != nil {
				setlist.Duration = *u.Duration
			}
			if u.Description != nil {
				setlist.Description = *u.Description
			}
			if u.Venue != nil {
				setlist.Venue = *u.Venue
			}
			if u.EventDate != nil {
				setlist.EventDate = *u.EventDate
			}
			setlist.UpdatedAt = shared.NowMillis()
			return
		}
	})
}

// ReorderSongs replaces a setlist's song order.
func (s *SetlistStore) ReorderSongs(id string, songs []string) {
	s.UpdateSetlist(id, models.SetlistUpdate{Songs: &songs})
}

// DeleteSetlist removes the setlist with the given id and clears the
// active selection if it pointed there.
func (s *SetlistStore) DeleteSetlist(id string) {
	s.store.Mutate(func(st *setlistState) {
		for i := range st.Setlists {
			if st.Setlists[i].ID == id {
				st.Setlists = append(st.Setlists[:i], st.Setlists[i+1:]...)
				break
			}
		}
		if st.ActiveSetlistID == id {
			st.ActiveSetlistID = ""
		}
	})
}

// RemoveSongEverywhere strips a deleted song's id from every setlist,
// preserving the relative order of the remaining songs.
func (s *SetlistStore) RemoveSongEverywhere(songID string) {
	s.store.Mutate(func(st *setlistState) {
		now := shared.NowMillis()
		for i := range st.Setlists {
			setlist := &st.Setlists[i]
			kept := setlist.Songs[:0]
			removed := false
			for _, id := range setlist.Songs {
				if id == songID {
					removed = true
					continue
				}
				kept = append(kept, id)
			}
			if removed {
				setlist.Songs = kept
				setlist.UpdatedAt = now
			}
		}
	})
}

func copySetlist(setlist models.Setlist) models.Setlist {
	setlist.Songs = append([]string(nil), setlist.Songs...)
	return setlist
}
