package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/drivetrain/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached layouts and renders",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var sessions bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached scenes and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
			} else {
				fc, err := cache.NewFileCache(dir)
				if err != nil {
					return err
				}
				count, err := fc.Clear()
				if err != nil {
					return err
				}
				printSuccess("Cleared %d cached entries", count)
				printDetail("Directory: %s", dir)
			}

			if sessions {
				return clearSessions(cmd.Context())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&sessions, "sessions", false, "also drop expired warning sessions")
	return cmd
}

func clearSessions(ctx context.Context) error {
	store, err := newSessionStore()
	if err != nil {
		return fmt.Errorf("open sessions: %w", err)
	}
	n, err := store.Cleanup(ctx)
	if err != nil {
		return err
	}
	printSuccess("Removed %d expired sessions", n)
	printDetail("Directory: %s", store.Path())
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(stdout, dir)
			return nil
		},
	}
}
