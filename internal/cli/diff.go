package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/kilupskalvis/givc/internal/core"
	"github.com/kilupskalvis/givc/internal/storage"
	"github.com/spf13/cobra"
)

var diffRepo string

var diffCmd = &cobra.Command{
	Use:   "diff <issue>",
	Short: "Show pending local changes",
	Long: `Show what a push would send to GitHub, without mutating anything.

The output covers body and title edits, label changes, edited and new
comments, and comments whose local files were removed. Unlike push,
diff never fails on comments written by other users.

Examples:
  givc diff 38
  givc diff 38 -R octocat/hello-world`,
	Args: cobra.ExactArgs(1),
	Run:  runDiff,
}

func init() {
	diffCmd.Flags().StringVarP(&diffRepo, "repo", "R", "", "Target repository (owner/repo)")
}

func runDiff(cmd *cobra.Command, args []string) {
	c := initFullContext()
	defer c.Close()

	owner, repo, number := resolveIssue(c.Config, diffRepo, args[0])
	st := storage.NewIssueStorage(c.Config.CacheRoot(), owner, repo, number)

	changes, err := core.Diff(context.Background(), c.Client, st, core.DiffOptions{
		Owner:  owner,
		Repo:   repo,
		Number: number,
	}, os.Stdout)
	if err != nil {
		exitError("%v", err)
	}

	if !changes.HasChanges() {
		fmt.Println("No changes.")
	}
}
