// Package cli implements the command-line interface for givc.
package cli

import (
	"fmt"
	"os"

	"github.com/kilupskalvis/givc/internal/config"
	"github.com/kilupskalvis/givc/internal/github"
	"github.com/kilupskalvis/givc/internal/store"
	"github.com/spf13/cobra"
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config *config.Config
	Store  *store.Store
	Client github.Client
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.Store != nil {
		c.Store.Close()
	}
}

// initContext initializes config and the sync journal (no client)
func initContext() *cmdContext {
	cfg, err := config.Load()
	if err != nil {
		exitError("%v", err)
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		exitError("failed to open sync journal: %v", err)
	}

	return &cmdContext{Config: cfg, Store: st}
}

// initContextWithMigrations initializes config, journal, and runs migrations
func initContextWithMigrations() *cmdContext {
	ctx := initContext()

	if err := ctx.Store.RunMigrations(); err != nil {
		ctx.Close()
		exitError("failed to run migrations: %v", err)
	}

	return ctx
}

// initFullContext initializes config, journal, migrations, and the GitHub client
func initFullContext() *cmdContext {
	ctx := initContextWithMigrations()

	client, err := github.Shared(ctx.Config.APIURL, ctx.Config.GraphQLURL)
	if err != nil {
		ctx.Close()
		exitError("%v", err)
	}
	ctx.Client = client

	return ctx
}

var rootCmd = &cobra.Command{
	Use:   "givc",
	Short: "GitHub Issue Version Control",
	Long: `givc is a git-like CLI tool for editing GitHub issues locally.
Pull an issue into a local cache, edit the body and comments as plain
markdown files, review the pending changes, and push them back to GitHub.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
