package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setmaster/internal/repositories"
	"github.com/desertthunder/setmaster/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	db       *sql.DB
	sharedDB bool
	logger   *log.Logger
	output   io.Writer

	songs     *repositories.SongRepository
	setlists  *repositories.SetlistRepository
	cues      *repositories.CueRepository
	schedules *repositories.ScheduleRepository
	sessions  *repositories.SessionRepository
	plans     *repositories.PlanRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	DB     *sql.DB
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
	}
	if opts.DB != nil {
		r.attach(opts.DB)
	}

	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, songCommand, setlistCommand, cueCommand, scheduleCommand, sessionCommand, syncCommand, purgeCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Close releases the database handle when the runner opened one itself.
func (r *Runner) Close() {
	if r.db == nil {
		return
	}
	if r.sharedDB {
		shared.CloseSharedDatabase()
	} else {
		r.db.Close()
	}
	r.db = nil
	r.sharedDB = false
}

// ensureDatabase opens the process-wide database handle, runs any pending
// migrations and wires the repositories. Reuses the existing handle on
// repeat calls, so a fresh database works from any command, not just setup.
func (r *Runner) ensureDatabase(cmd *cli.Command) error {
	if r.db != nil {
		return nil
	}

	if r.config == nil {
		configPath := cmd.String("config")
		if _, err := os.Stat(configPath); err == nil {
			config, err := shared.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			r.config = config
		} else {
			r.config = shared.DefaultConfig()
		}
	}

	db, err := shared.OpenSharedDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.attach(db)
	r.sharedDB = true
	return nil
}

func (r *Runner) attach(db *sql.DB) {
	r.db = db
	r.songs = repositories.NewSongRepository(db)
	r.setlists = repositories.NewSetlistRepository(db)
	r.cues = repositories.NewCueRepository(db)
	r.schedules = repositories.NewScheduleRepository(db)
	r.sessions = repositories.NewSessionRepository(db)
	r.plans = repositories.NewPlanRepository(db)
}

// requireUser returns the acting user id from the --user flag.
func (r *Runner) requireUser(cmd *cli.Command) (string, error) {
	userID := cmd.String("user")
	if userID == "" {
		return "", fmt.Errorf("%w: --user is required", shared.ErrNotAuthenticated)
	}
	return userID, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeHeader(title string) {
	r.writePlain("%s\n", styles.Title(title))
}
