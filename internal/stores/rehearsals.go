package stores

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setmaster/internal/docstore"
	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
)

type rehearsalState struct {
	Schedules []models.PracticeSchedule `json:"schedules"`
	Sessions  []models.RehearsalSession `json:"sessions"`
	Plans     []models.RehearsalPlan    `json:"plans,omitempty"`
}

// RehearsalStore keeps the current user's practice schedules, rehearsal
// sessions and generated plans. At most one session is active at a time.
type RehearsalStore struct {
	store *docstore.Store[rehearsalState]
}

// NewRehearsalStore creates a rehearsal store persisting through blobs.
func NewRehearsalStore(blobs *docstore.Blobs, logger *log.Logger) *RehearsalStore {
	return &RehearsalStore{
		store: docstore.NewStore(blobs, "setmaster-rehearsals", logger, func() rehearsalState {
			return rehearsalState{}
		}),
	}
}

// Name identifies the dataset.
func (s *RehearsalStore) Name() string {
	return "rehearsals"
}

// LoadUserData loads the given user's rehearsal data into memory.
func (s *RehearsalStore) LoadUserData(_ context.Context, userID string) error {
	return s.store.LoadUserData(userID)
}

// ClearData evicts the current user's rehearsal data from memory.
func (s *RehearsalStore) ClearData() {
	s.store.ClearData()
}

// Flush blocks until pending persistence writes complete.
func (s *RehearsalStore) Flush() {
	s.store.Flush()
}

// ReplaceAll swaps schedules, sessions and plans in one write. Used when
// mirroring the relational rows into the snapshot.
func (s *RehearsalStore) ReplaceAll(schedules []models.PracticeSchedule, sessions []models.RehearsalSession, plans []models.RehearsalPlan) {
	s.store.Mutate(func(st *rehearsalState) {
		st.Schedules = append([]models.PracticeSchedule(nil), schedules...)
		st.Sessions = append([]models.RehearsalSession(nil), sessions...)
		st.Plans = append([]models.RehearsalPlan(nil), plans...)
	})
}

// Schedules returns a copy of the user's practice schedules.
func (s *RehearsalStore) Schedules() []models.PracticeSchedule {
	var schedules []models.PracticeSchedule
	s.store.Read(func(st rehearsalState) {
		schedules = append(schedules, st.Schedules...)
	})
	return schedules
}

// AddSchedule validates and appends a practice schedule.
func (s *RehearsalStore) AddSchedule(schedule models.PracticeSchedule) (models.PracticeSchedule, error) {
	if err := schedule.Validate(); err != nil {
		return models.PracticeSchedule{}, fmt.Errorf("invalid schedule: %w", err)
	}

	if schedule.ID == "" {
		schedule.ID = shared.GenerateID()
	}
	now := shared.NowMillis()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	s.store.Mutate(func(st *rehearsalState) {
		st.Schedules = append(st.Schedules, schedule)
	})

	return schedule, nil
}

// UpdateSchedule applies the non-nil fields of u to the schedule with the
// given id.
func (s *RehearsalStore) UpdateSchedule(id string, u models.ScheduleUpdate) {
	s.store.Mutate(func(st *rehearsalState) {
		for i := range st.Schedules {
			if st.Schedules[i].ID != id {
				continue
			}

			schedule := &st.Schedules[i]
			if u.Title != nil {
				schedule.Title = *u.Title
			}
			if u.Description != nil {
				schedule.Description = *u.Description
			}
			if u.StartDate != nil {
				schedule.StartDate = *u.StartDate
			}
			if u.EndDate != nil {
				schedule.EndDate = *u.EndDate
			}
			if u.Frequency != nil {
				schedule.Frequency = *u.Frequency
			}
			if u.DaysOfWeek != nil {
				schedule.DaysOfWeek = append([]int(nil), (*u.DaysOfWeek)...)
			}
			if u.ReminderEnabled != nil {
				schedule.ReminderEnabled = *u.ReminderEnabled
			}
			if u.ReminderMinutes != nil {
				schedule.ReminderMinutes = *u.ReminderMinutes
			}
			if u.Goals != nil {
				schedule.Goals = append([]string(nil), (*u.Goals)...)
			}
			if u.Completed != nil {
				schedule.Completed = *u.Completed
			}
			schedule.UpdatedAt = shared.NowMillis()
			return
		}
	})
}

// DeleteSchedule removes the schedule with the given id.
func (s *RehearsalStore) DeleteSchedule(id string) {
	s.store.Mutate(func(st *rehearsalState) {
		for i := range st.Schedules {
			if st.Schedules[i].ID == id {
				st.Schedules = append(st.Schedules[:i], st.Schedules[i+1:]...)
				return
			}
		}
	})
}

// Sessions returns a copy of the user's rehearsal sessions.
func (s *RehearsalStore) Sessions() []models.RehearsalSession {
	var sessions []models.RehearsalSession
	s.store.Read(func(st rehearsalState) {
		sessions = append(sessions, st.Sessions...)
	})
	return sessions
}

// ActiveSession returns the in-progress session, or nil.
func (s *RehearsalStore) ActiveSession() *models.RehearsalSession {
	var session *models.RehearsalSession
	s.store.Read(func(st rehearsalState) {
		for i := range st.Sessions {
			if st.Sessions[i].IsActive {
				copied := st.Sessions[i]
				session = &copied
				return
			}
		}
	})
	return session
}

// AddSession validates and appends a rehearsal session.
func (s *RehearsalStore) AddSession(session models.RehearsalSession) (models.RehearsalSession, error) {
	if err := session.Validate(); err != nil {
		return models.RehearsalSession{}, fmt.Errorf("invalid session: %w", err)
	}

	if session.ID == "" {
		session.ID = shared.GenerateID()
	}
	now := shared.NowMillis()
	session.CreatedAt = now
	session.UpdatedAt = now

	s.store.Mutate(func(st *rehearsalState) {
		st.Sessions = append(st.Sessions, session)
	})

	return session, nil
}

// UpdateSession applies the non-nil fields of u to the session with the
// given id.
func (s *RehearsalStore) UpdateSession(id string, u models.SessionUpdate) {
	s.store.Mutate(func(st *rehearsalState) {
		for i := range st.Sessions {
			if st.Sessions[i].ID != id {
				continue
			}

			applySessionUpdate(&st.Sessions[i], u)
			return
		}
	})
}

// StartSession marks a session active with a fresh playback cursor and
// deactivates any other session.
func (s *RehearsalStore) StartSession(id string) {
	s.store.Mutate(func(st *rehearsalState) {
		now := shared.NowMillis()
		for i := range st.Sessions {
			session := &st.Sessions[i]
			if session.ID == id {
				session.IsActive = true
				session.StartedAt = now
				session.CurrentSongIndex = 0
				session.TimeRemaining = session.Duration * 60
				session.UpdatedAt = now
			} else if session.IsActive {
				session.IsActive = false
				session.UpdatedAt = now
			}
		}
	})
}

// CompleteActiveSession ends the in-progress session, marking it completed.
func (s *RehearsalStore) CompleteActiveSession() {
	s.store.Mutate(func(st *rehearsalState) {
		for i := range st.Sessions {
			session := &st.Sessions[i]
			if session.IsActive {
				session.IsActive = false
				session.Completed = true
				session.TimeRemaining = 0
				session.UpdatedAt = shared.NowMillis()
				return
			}
		}
	})
}

// DeleteSession removes the session with the given id.
func (s *RehearsalStore) DeleteSession(id string) {
	s.store.Mutate(func(st *rehearsalState) {
		for i := range st.Sessions {
			if st.Sessions[i].ID == id {
				st.Sessions = append(st.Sessions[:i], st.Sessions[i+1:]...)
				return
			}
		}
	})
}

// Plans returns a copy of the user's rehearsal plans.
func (s *RehearsalStore) Plans() []models.RehearsalPlan {
	var plans []models.RehearsalPlan
	s.store.Read(func(st rehearsalState) {
		plans = append(plans, st.Plans...)
	})
	return plans
}

// AddPlan validates and appends a rehearsal plan.
func (s *RehearsalStore) AddPlan(plan models.RehearsalPlan) (models.RehearsalPlan, error) {
	if err := plan.Validate(); err != nil {
		return models.RehearsalPlan{}, fmt.Errorf("invalid plan: %w", err)
	}

	if plan.ID == "" {
		plan.ID = shared.GenerateID()
	}
	now := shared.NowMillis()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	s.store.Mutate(func(st *rehearsalState) {
		st.Plans = append(st.Plans, plan)
	})

	return plan, nil
}

// DeletePlan removes the plan with the given id.
func (s *RehearsalStore) DeletePlan(id string) {
	s.store.Mutate(func(st *rehearsalState) {
		for i := range st.Plans {
			if st.Plans[i].ID == id {
				st.Plans = append(st.Plans[:i], st.Plans[i+1:]...)
				return
			}
		}
	})
}

func applySessionUpdate(session *models.RehearsalSession, u models.SessionUpdate) {
	if u.Title != nil {
		session.Title = *u.Title
	}
	if u.Date != nil {
		session.Date = *u.Date
	}
	if u.Duration != nil {
		session.Duration = *u.Duration
	}
	if u.SetlistID != nil {
		session.SetlistID = *u.SetlistID
	}
	if u.Songs != nil {
		session.Songs = append([]string(nil), (*u.Songs)...)
	}
	if u.Notes != nil {
		session.Notes = *u.Notes
	}
	if u.Completed != nil {
		session.Completed = *u.Completed
	}
	if u.PracticeGoals != nil {
		session.PracticeGoals = append([]string(nil), (*u.PracticeGoals)...)
	}
	if u.FocusAreas != nil {
		session.FocusAreas = append([]string(nil), (*u.FocusAreas)...)
	}
	if u.IsActive != nil {
		session.IsActive = *u.IsActive
	}
	if u.StartedAt != nil {
		session.StartedAt = *u.StartedAt
	}
	if u.CurrentSongIndex != nil {
		session.CurrentSongIndex = *u.CurrentSongIndex
	}
	if u.TimeRemaining != nil {
		session.TimeRemaining = *u.TimeRemaining
	}
	session.UpdatedAt = shared.NowMillis()
}
