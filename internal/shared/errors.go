package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrUnauthorized     = fmt.Errorf("unauthorized")

	// Local store errors
	ErrSongNotFound     = fmt.Errorf("song not found")
	ErrSetlistNotFound  = fmt.Errorf("setlist not found or unauthorized")
	ErrCueNotFound      = fmt.Errorf("cue not found")
	ErrScheduleNotFound = fmt.Errorf("practice schedule not found")
	ErrSessionNotFound  = fmt.Errorf("rehearsal session not found")
	ErrPlanNotFound     = fmt.Errorf("rehearsal plan not found")

	// Remote boundary errors
	ErrRemoteRequest      = fmt.Errorf("remote request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrBandNotFound       = fmt.Errorf("band not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
