package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/setmaster/internal/repositories"
	"github.com/urfave/cli/v3"
)

// Purge deletes every relational row owned by the acting user. Document
// blobs are left in place and reload if the user returns.
func (r *Runner) Purge(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureDatabase(cmd); err != nil {
		return err
	}
	userID, err := r.requireUser(cmd)
	if err != nil {
		return err
	}

	if !cmd.Bool("yes") {
		r.writePlain("%s delete all data for user %s? [y/N] ", styles.Err("Permanently"), userID)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			r.writePlain("Aborted.\n")
			return nil
		}
	}

	if err := repositories.PurgeUserData(r.db, userID); err != nil {
		return fmt.Errorf("failed to purge user data: %w", err)
	}

	r.logger.Info("user data purged", "user", userID)
	r.writePlain("%s all data for %s\n", styles.OK("Purged"), userID)
	return nil
}
