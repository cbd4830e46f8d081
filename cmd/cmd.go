// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func userFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "Acting user id",
	}
}

// setupCommand initializes the database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize the database and run migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.SetupDatabase,
	}
}

// songCommand handles song library operations
func songCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "song",
		Usage: "Song library operations",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a song to the library",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Song title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "artist",
						Usage:    "Song artist",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "duration",
						Usage: "Duration in seconds",
					},
					&cli.IntFlag{
						Name:  "bpm",
						Usage: "Tempo in beats per minute",
					},
					&cli.StringFlag{
						Name:  "key",
						Usage: "Musical key",
					},
					&cli.StringFlag{
						Name:  "notes",
						Usage: "Performance notes",
					},
				},
				Action: r.SongAdd,
			},
			{
				Name:  "list",
				Usage: "List the user's songs",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SongList,
			},
			{
				Name:  "show",
				Usage: "Show one song with its cues",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Song ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SongShow,
			},
			{
				Name:  "rm",
				Usage: "Delete a song and its cues",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Song ID",
						Required: true,
					},
				},
				Action: r.SongRemove,
			},
		},
	}
}

// setlistCommand handles setlist operations
func setlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setlist",
		Usage: "Setlist operations",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a setlist",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Setlist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "venue",
						Usage: "Venue name",
					},
					&cli.StringSliceFlag{
						Name:  "song",
						Usage: "Song ID in performance order, repeatable",
					},
				},
				Action: r.SetlistCreate,
			},
			{
				Name:  "list",
				Usage: "List the user's setlists",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SetlistList,
			},
			{
				Name:  "show",
				Usage: "Show one setlist with resolved songs",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Setlist ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SetlistShow,
			},
			{
				Name:  "reorder",
				Usage: "Replace a setlist's song order",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Setlist ID",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "song",
						Usage:    "Song ID in new order, repeatable",
						Required: true,
					},
				},
				Action: r.SetlistReorder,
			},
			{
				Name:  "export",
				Usage: "Export a setlist to CSV, Markdown or plain text",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Setlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, markdown or text",
						Value: "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path",
					},
				},
				Action: r.SetlistExport,
			},
			{
				Name:  "export-all",
				Usage: "Export many setlists concurrently",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringSliceFlag{
						Name:  "id",
						Usage: "Setlist ID, repeatable; omit to export everything",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: json, csv, markdown or txt",
						Value: "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
				},
				Action: r.SetlistExportAll,
			},
			{
				Name:  "publish",
				Usage: "Share a setlist with a band",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Setlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "band",
						Usage:    "Band ID",
						Required: true,
					},
				},
				Action: r.SetlistPublish,
			},
			{
				Name:  "rm",
				Usage: "Delete a setlist",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Setlist ID",
						Required: true,
					},
				},
				Action: r.SetlistRemove,
			},
		},
	}
}

// cueCommand handles cue annotations
func cueCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cue",
		Usage: "Song cue annotations",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a cue to a song",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:     "song",
						Usage:    "Song ID",
						Required: true,
					},
					&cli.FloatFlag{
						Name:     "time",
						Usage:    "Position in seconds",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Cue type: lyric, section, note or warning",
						Value: "note",
					},
					&cli.StringFlag{
						Name:     "content",
						Usage:    "Cue text",
						Required: true,
					},
				},
				Action: r.CueAdd,
			},
			{
				Name:  "list",
				Usage: "List a song's cues in time order",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:     "song",
						Usage:    "Song ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CueList,
			},
			{
				Name:  "rm",
				Usage: "Delete a cue",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Cue ID",
						Required: true,
					},
				},
				Action: r.CueRemove,
			},
		},
	}
}

// scheduleCommand handles practice schedules
func scheduleCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "schedule",
		Usage: "Practice schedule operations",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a practice schedule",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Schedule title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "frequency",
						Usage: "Recurrence: daily, weekly, monthly or custom",
						Value: "weekly",
					},
					&cli.StringSliceFlag{
						Name:  "goal",
						Usage: "Practice goal, repeatable",
					},
				},
				Action: r.ScheduleAdd,
			},
			{
				Name:  "list",
				Usage: "List the user's practice schedules",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.ScheduleList,
			},
			{
				Name:  "done",
				Usage: "Mark a schedule completed",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Schedule ID",
						Required: true,
					},
				},
				Action: r.ScheduleDone,
			},
			{
				Name:  "rm",
				Usage: "Delete a schedule",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Schedule ID",
						Required: true,
					},
				},
				Action: r.ScheduleRemove,
			},
		},
	}
}

// sessionCommand handles rehearsal sessions
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Rehearsal session operations",
		Commands: []*cli.Command{
			{
				Name:  "start",
				Usage: "Create and activate a rehearsal session",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Session title",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "duration",
						Usage: "Planned duration in minutes",
						Value: 60,
					},
					&cli.StringFlag{
						Name:  "setlist",
						Usage: "Setlist ID to rehearse",
					},
					&cli.StringSliceFlag{
						Name:  "song",
						Usage: "Ad-hoc song ID, repeatable",
					},
				},
				Action: r.SessionStart,
			},
			{
				Name:  "list",
				Usage: "List the user's rehearsal sessions",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SessionList,
			},
			{
				Name:  "complete",
				Usage: "Complete the active rehearsal session",
				Flags: []cli.Flag{
					configFlag(),
					userFlag(),
				},
				Action: r.SessionComplete,
			},
		},
	}
}

// purgeCommand deletes all relational rows for one user
func purgeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Delete every relational row owned by a user",
		Flags: []cli.Flag{
			configFlag(),
			userFlag(),
			&cli.BoolFlag{
				Name:  "yes",
				Usage: "Skip confirmation",
			},
		},
		Action: r.Purge,
	}
}
