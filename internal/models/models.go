package models

import (
	"fmt"
	"strings"
)

// CueType classifies a cue annotation on a song.
type CueType string

const (
	CueLyric   CueType = "lyric"
	CueSection CueType = "section"
	CueNote    CueType = "note"
	CueWarning CueType = "warning"
)

// Frequency describes how often a practice schedule recurs.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyCustom  Frequency = "custom"
)

// Song represents a song owned by a single user.
//
// Duration is in whole seconds. Uri and AudioUri reference external media;
// neither is required.
type Song struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Duration  int    `json:"duration"`
	Uri       string `json:"uri,omitempty"`
	AudioUri  string `json:"audioUri,omitempty"`
	AlbumArt  string `json:"albumArt,omitempty"`
	Lyrics    string `json:"lyrics,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Bpm       int    `json:"bpm,omitempty"`
	Key       string `json:"key,omitempty"`
	CreatedAt int64  `json:"createdAt,omitempty"`
	UpdatedAt int64  `json:"updatedAt,omitempty"`
}

// Validate checks required song fields.
func (s *Song) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("song title is required")
	}
	if strings.TrimSpace(s.Artist) == "" {
		return fmt.Errorf("song artist is required")
	}
	if s.Duration < 0 {
		return fmt.Errorf("song duration cannot be negative")
	}
	return nil
}

// SongUpdate enumerates the mutable fields of a song. A nil field is left
// unchanged; UpdatedAt is always refreshed by the store.
type SongUpdate struct {
	Title    *string
	Artist   *string
	Duration *int
	Uri      *string
	AudioUri *string
	AlbumArt *string
	Lyrics   *string
	Notes    *string
	Bpm      *int
	Key      *string
}

// Setlist represents an ordered collection of songs, referenced by id.
//
// Songs holds song ids in performance order; Duration is the aggregate in
// seconds and is only changed by explicit update.
type Setlist struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Songs       []string `json:"songs"`
	Duration    int      `json:"duration"`
	Description string   `json:"description,omitempty"`
	Venue       string   `json:"venue,omitempty"`
	EventDate   int64    `json:"eventDate,omitempty"`
	CreatedAt   int64    `json:"createdAt"`
	UpdatedAt   int64    `json:"updatedAt"`
}

// Validate checks required setlist fields.
func (s *Setlist) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("setlist name is required")
	}
	if s.Duration < 0 {
		return fmt.Errorf("setlist duration cannot be negative")
	}
	return nil
}

// SetlistUpdate enumerates the mutable fields of a setlist.
//
// A non-nil Songs triggers a full replacement of the setlist's song order;
// positions are renumbered densely from zero.
type SetlistUpdate struct {
	Name        *string
	Songs       *[]string
	Duration    *int
	Description *string
	Venue       *string
	EventDate   *int64
}

// Cue is a timestamp-anchored annotation on a song.
type Cue struct {
	ID            string  `json:"id"`
	SongID        string  `json:"songId"`
	TimeInSeconds float64 `json:"timeInSeconds"`
	Type          CueType `json:"type"`
	Content       string  `json:"content"`
	Color         string  `json:"color,omitempty"`
	CreatedAt     int64   `json:"createdAt"`
	UpdatedAt     int64   `json:"updatedAt"`
}

// Validate checks required cue fields.
func (c *Cue) Validate() error {
	if c.SongID == "" {
		return fmt.Errorf("cue song id is required")
	}
	if c.TimeInSeconds < 0 {
		return fmt.Errorf("cue time cannot be negative")
	}
	switch c.Type {
	case CueLyric, CueSection, CueNote, CueWarning:
	default:
		return fmt.Errorf("invalid cue type %q", c.Type)
	}
	if c.Content == "" {
		return fmt.Errorf("cue content is required")
	}
	return nil
}

// CueUpdate enumerates the mutable fields of a cue.
type CueUpdate struct {
	TimeInSeconds *float64
	Type          *CueType
	Content       *string
	Color         *string
}

// PracticeSchedule is a recurring practice reminder.
//
// DaysOfWeek uses 0-6 for Sunday-Saturday and only applies to custom
// frequencies.
type PracticeSchedule struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	StartDate       int64     `json:"startDate"`
	EndDate         int64     `json:"endDate,omitempty"`
	Frequency       Frequency `json:"frequency"`
	DaysOfWeek      []int     `json:"daysOfWeek,omitempty"`
	ReminderEnabled bool      `json:"reminderEnabled"`
	ReminderMinutes int       `json:"reminderMinutes,omitempty"`
	Goals           []string  `json:"goals,omitempty"`
	Completed       bool      `json:"completed"`
	CreatedAt       int64     `json:"createdAt"`
	UpdatedAt       int64     `json:"updatedAt"`
}

// Validate checks required schedule fields.
func (p *PracticeSchedule) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("schedule title is required")
	}
	if p.StartDate == 0 {
		return fmt.Errorf("schedule start date is required")
	}
	switch p.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyCustom:
	default:
		return fmt.Errorf("invalid schedule frequency %q", p.Frequency)
	}
	return nil
}

// ScheduleUpdate enumerates the mutable fields of a practice schedule.
type ScheduleUpdate struct {
	Title           *string
	Description     *string
	StartDate       *int64
	EndDate         *int64
	Frequency       *Frequency
	DaysOfWeek      *[]int
	ReminderEnabled *bool
	ReminderMinutes *int
	Goals           *[]string
	Completed       *bool
}

// RehearsalSession captures one rehearsal, either against a saved setlist
// (SetlistID) or an ad-hoc song list (Songs).
//
// Duration is in minutes. The IsActive/StartedAt/CurrentSongIndex/
// TimeRemaining fields form the in-progress playback cursor.
type RehearsalSession struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Date               int64    `json:"date"`
	Duration           int      `json:"duration"`
	SetlistID          string   `json:"setlistId,omitempty"`
	Songs              []string `json:"songs,omitempty"`
	Notes              string   `json:"notes,omitempty"`
	Completed          bool     `json:"completed"`
	PracticeGoals      []string `json:"practiceGoals,omitempty"`
	FocusAreas         []string `json:"focusAreas,omitempty"`
	IsActive           bool     `json:"isActive,omitempty"`
	StartedAt          int64    `json:"startedAt,omitempty"`
	CurrentSongIndex   int      `json:"currentSongIndex,omitempty"`
	TemporarySetlistID string   `json:"temporarySetlistId,omitempty"`
	TimeRemaining      int      `json:"timeRemaining,omitempty"`
	CreatedAt          int64    `json:"createdAt"`
	UpdatedAt          int64    `json:"updatedAt"`
}

// Validate checks required session fields.
func (r *RehearsalSession) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("session title is required")
	}
	if r.Date == 0 {
		return fmt.Errorf("session date is required")
	}
	if r.Duration < 0 {
		return fmt.Errorf("session duration cannot be negative")
	}
	return nil
}

// SessionUpdate enumerates the mutable fields of a rehearsal session.
//
// A non-nil Songs replaces the session's ad-hoc song order wholesale.
type SessionUpdate struct {
	Title            *string
	Date             *int64
	Duration         *int
	SetlistID        *string
	Songs            *[]string
	Notes            *string
	Completed        *bool
	PracticeGoals    *[]string
	FocusAreas       *[]string
	IsActive         *bool
	StartedAt        *int64
	CurrentSongIndex *int
	TimeRemaining    *int
}

// RehearsalPlan is a generated rehearsal outline.
type RehearsalPlan struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TotalDuration int    `json:"totalDuration"`
	AiGenerated   bool   `json:"aiGenerated"`
	CreatedAt     int64  `json:"createdAt"`
	UpdatedAt     int64  `json:"updatedAt"`
}

// Validate checks required plan fields.
func (r *RehearsalPlan) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("plan name is required")
	}
	if r.TotalDuration < 0 {
		return fmt.Errorf("plan duration cannot be negative")
	}
	return nil
}

// PlanUpdate enumerates the mutable fields of a rehearsal plan.
type PlanUpdate struct {
	Name          *string
	TotalDuration *int
	AiGenerated   *bool
}
