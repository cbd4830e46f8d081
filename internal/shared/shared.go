// package shared defines helpers used across the setmaster packages
package shared

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// NowMillis returns the current time as epoch milliseconds.
//
// All persisted timestamps (created_at/updated_at columns and document
// snapshots) use this resolution.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// UserStorageKey derives the storage key for a (user, dataset) pair.
//
// The key is deterministic and collision-free as long as the user id does
// not contain the "_user_" join marker; ids are not normalized or escaped,
// so callers must supply identifiers that are safe to embed.
func UserStorageKey(userID, baseKey string) string {
	return fmt.Sprintf("%s_user_%s", baseKey, userID)
}

// DefaultStorageKey returns the un-namespaced key for a dataset, used
// before any user has authenticated.
func DefaultStorageKey(baseKey string) string {
	return baseKey
}

// FormatDuration renders a duration in seconds as M:SS or H:MM:SS.
func FormatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
