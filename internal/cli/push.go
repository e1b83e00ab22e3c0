package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/kilupskalvis/givc/internal/core"
	"github.com/kilupskalvis/givc/internal/storage"
	"github.com/spf13/cobra"
)

var (
	pushRepo        string
	pushDryRun      bool
	pushForce       bool
	pushEditOthers  bool
	pushAllowDelete bool
)

var pushCmd = &cobra.Command{
	Use:   "push <issue>",
	Short: "Push local edits back to GitHub",
	Long: `Compare the local copy of an issue against GitHub, show the pending
changes, and apply them.

Push refuses when the remote issue changed since the last pull (override
with --force) or when an edited comment belongs to another user
(--edit-others). Remote comments whose local files were removed are
only deleted with --allow-delete.

Examples:
  givc push 38                 Push local edits of issue #38
  givc push 38 --dry-run       Show what would change without applying
  givc push 38 --force         Push even if the remote issue moved
  givc push 38 --allow-delete  Also delete comments whose files were removed`,
	Args: cobra.ExactArgs(1),
	Run:  runPush,
}

func init() {
	pushCmd.Flags().StringVarP(&pushRepo, "repo", "R", "", "Target repository (owner/repo)")
	pushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "Show changes without applying them")
	pushCmd.Flags().BoolVarP(&pushForce, "force", "f", false, "Push even if the remote issue changed since the last pull")
	pushCmd.Flags().BoolVar(&pushEditOthers, "edit-others", false, "Allow editing comments written by other users")
	pushCmd.Flags().BoolVar(&pushAllowDelete, "allow-delete", false, "Delete remote comments whose local files were removed")
}

func runPush(cmd *cobra.Command, args []string) {
	c := initFullContext()
	defer c.Close()

	owner, repo, number := resolveIssue(c.Config, pushRepo, args[0])
	st := storage.NewIssueStorage(c.Config.CacheRoot(), owner, repo, number)

	result, err := core.Push(context.Background(), c.Client, st, c.Store, core.PushOptions{
		Owner:       owner,
		Repo:        repo,
		Number:      number,
		DryRun:      pushDryRun,
		Force:       pushForce,
		EditOthers:  pushEditOthers,
		AllowDelete: pushAllowDelete,
	}, os.Stdout)
	if err != nil {
		exitError("%v", err)
	}

	fmt.Println()
	switch {
	case pushDryRun && result.Changes.HasChanges():
		color.New(color.FgYellow).Println("[dry-run] Changes detected. Run without --dry-run to apply.")
	case pushDryRun:
		fmt.Println("[dry-run] No changes detected.")
	case result.Applied:
		color.New(color.FgGreen).Println("Done! Changes have been pushed to GitHub.")
	default:
		fmt.Println("No changes to push.")
	}
}
