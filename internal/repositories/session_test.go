package repositories

import (
	"errors"
	"testing"

	"github.com/desertthunder/setmaster/internal/models"
	"github.com/desertthunder/setmaster/internal/shared"
)

func TestScheduleRepository(t *testing.T) {
	t.Run("Create and Get round trip", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewScheduleRepository(db)
		schedule := &models.PracticeSchedule{
			Title:           "Scales",
			StartDate:       1700000000000,
			Frequency:       models.FrequencyCustom,
			DaysOfWeek:      []int{1, 3, 5},
			ReminderEnabled: true,
			ReminderMinutes: 15,
			Goals:           []string{"tempo", "accuracy"},
		}

		if err := repo.Create(schedule, "u1"); err != nil {
			t.Fatalf("failed to create schedule: %v", err)
		}

		got, err := repo.Get(schedule.ID, "u1")
		if err != nil {
			t.Fatalf("failed to get schedule: %v", err)
		}
		if got == nil {
			t.Fatal("expected schedule")
		}
		if len(got.DaysOfWeek) != 3 || got.DaysOfWeek[1] != 3 {
			t.Errorf("days of week did not round trip: %v", got.DaysOfWeek)
		}
		if len(got.Goals) != 2 || got.Goals[0] != "tempo" {
			t.Errorf("goals did not round trip: %v", got.Goals)
		}
		if !got.ReminderEnabled || got.ReminderMinutes != 15 {
			t.Errorf("reminder fields did not round trip: %+v", got)
		}
	})

	t.Run("Update completion", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewScheduleRepository(db)
		schedule := &models.PracticeSchedule{Title: "Scales", StartDate: 1, Frequency: models.FrequencyDaily}
		if err := repo.Create(schedule, "u1"); err != nil {
			t.Fatalf("failed to create schedule: %v", err)
		}

		done := true
		if err := repo.Update(schedule.ID, "u1", models.ScheduleUpdate{Completed: &done}); err != nil {
			t.Fatalf("failed to update schedule: %v", err)
		}

		got, err := repo.Get(schedule.ID, "u1")
		if err != nil {
			t.Fatalf("failed to get schedule: %v", err)
		}
		if !got.Completed {
			t.Error("expected schedule to be completed")
		}
	})

	t.Run("Delete scoped to user", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewScheduleRepository(db)
		schedule := &models.PracticeSchedule{Title: "Scales", StartDate: 1, Frequency: models.FrequencyDaily}
		if err := repo.Create(schedule, "u1"); err != nil {
			t.Fatalf("failed to create schedule: %v", err)
		}

		if err := repo.Delete(schedule.ID, "u2"); !errors.Is(err, shared.ErrScheduleNotFound) {
			t.Errorf("expected ErrScheduleNotFound for foreign user, got %v", err)
		}
		if err := repo.Delete(schedule.ID, "u1"); err != nil {
			t.Errorf("failed to delete schedule: %v", err)
		}
	})
}

func TestSessionRepository(t *testing.T) {
	t.Run("Create with ad-hoc songs", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		songs := NewSongRepository(db)
		sessions := NewSessionRepository(db)

		var ids []string
		for _, title := range []string{"One", "Two"} {
			song := &models.Song{Title: title, Artist: "X", Duration: 60}
			if err := songs.Create(song, "u1"); err != nil {
				t.Fatalf("failed to create song: %v", err)
			}
			ids = append(ids, song.ID)
		}

		session := &models.RehearsalSession{
			Title:         "Tuesday run-through",
			Date:          1700000000000,
			Duration:      90,
			Songs:         ids,
			PracticeGoals: []string{"transitions"},
		}
		if err := sessions.Create(session, "u1"); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		got, err := sessions.Get(session.ID, "u1")
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if len(got.Songs) != 2 || got.Songs[0] != ids[0] {
			t.Errorf("session songs did not round trip: %v", got.Songs)
		}
		if len(got.PracticeGoals) != 1 {
			t.Errorf("practice goals did not round trip: %v", got.PracticeGoals)
		}
	})

	t.Run("Active cursor", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		sessions := NewSessionRepository(db)
		session := &models.RehearsalSession{Title: "Gig prep", Date: 1, Duration: 60}
		if err := sessions.Create(session, "u1"); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		none, err := sessions.Active("u1")
		if err != nil {
			t.Fatalf("failed to query active session: %v", err)
		}
		if none != nil {
			t.Error("expected no active session")
		}

		active := true
		started := shared.NowMillis()
		index := 2
		if err := sessions.Update(session.ID, "u1", models.SessionUpdate{
			IsActive:         &active,
			StartedAt:        &started,
			CurrentSongIndex: &index,
		}); err != nil {
			t.Fatalf("failed to activate session: %v", err)
		}

		got, err := sessions.Active("u1")
		if err != nil {
			t.Fatalf("failed to query active session: %v", err)
		}
		if got == nil || got.ID != session.ID {
			t.Fatal("expected the activated session")
		}
		if got.CurrentSongIndex != 2 || got.StartedAt != started {
			t.Errorf("cursor did not round trip: %+v", got)
		}
	})

	t.Run("Update replaces songs", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		songs := NewSongRepository(db)
		sessions := NewSessionRepository(db)

		var ids []string
		for _, title := range []string{"One", "Two", "Three"} {
			song := &models.Song{Title: title, Artist: "X", Duration: 60}
			if err := songs.Create(song, "u1"); err != nil {
				t.Fatalf("failed to create song: %v", err)
			}
			ids = append(ids, song.ID)
		}

		session := &models.RehearsalSession{Title: "S", Date: 1, Duration: 30, Songs: ids[:2]}
		if err := sessions.Create(session, "u1"); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		newOrder := []string{ids[2], ids[0]}
		if err := sessions.Update(session.ID, "u1", models.SessionUpdate{Songs: &newOrder}); err != nil {
			t.Fatalf("failed to update session: %v", err)
		}

		got, err := sessions.Get(session.ID, "u1")
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if len(got.Songs) != 2 || got.Songs[0] != ids[2] || got.Songs[1] != ids[0] {
			t.Errorf("expected replaced song order, got %v", got.Songs)
		}
	})

	t.Run("Update missing session", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		sessions := NewSessionRepository(db)
		done := true
		err := sessions.Update("missing", "u1", models.SessionUpdate{Completed: &done})
		if !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestPlanRepository(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewPlanRepository(db)
	plan := &models.RehearsalPlan{Name: "Festival prep", TotalDuration: 120, AiGenerated: true}

	if err := repo.Create(plan, "u1"); err != nil {
		t.Fatalf("failed to create plan: %v", err)
	}

	got, err := repo.Get(plan.ID, "u1")
	if err != nil {
		t.Fatalf("failed to get plan: %v", err)
	}
	if got == nil || got.Name != "Festival prep" || !got.AiGenerated {
		t.Errorf("unexpected plan: %+v", got)
	}

	name := "Tour prep"
	if err := repo.Update(plan.ID, "u1", models.PlanUpdate{Name: &name}); err != nil {
		t.Fatalf("failed to update plan: %v", err)
	}

	plans, err := repo.All("u1")
	if err != nil {
		t.Fatalf("failed to list plans: %v", err)
	}
	if len(plans) != 1 || plans[0].Name != "Tour prep" {
		t.Errorf("unexpected plans: %+v", plans)
	}

	if err := repo.Delete(plan.ID, "u2"); !errors.Is(err, shared.ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound for foreign user, got %v", err)
	}
	if err := repo.Delete(plan.ID, "u1"); err != nil {
		t.Errorf("failed to delete plan: %v", err)
	}
}
