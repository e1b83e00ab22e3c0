package cli

import (
	"context"
	"fmt"

	"github.com/kilupskalvis/givc/internal/core"
	"github.com/kilupskalvis/givc/internal/storage"
	"github.com/spf13/cobra"
)

var refreshRepo string

var refreshCmd = &cobra.Command{
	Use:   "refresh <issue>",
	Short: "Re-download an issue, discarding local edits",
	Long: `Discard the cached copy of an issue and download it again.

Unlike pull, refresh does not care about unpushed local edits: the
issue directory is recreated from the current remote state, drafts
included.

Examples:
  givc refresh 38
  givc refresh 38 -R octocat/hello-world`,
	Args: cobra.ExactArgs(1),
	Run:  runRefresh,
}

func init() {
	refreshCmd.Flags().StringVarP(&refreshRepo, "repo", "R", "", "Target repository (owner/repo)")
}

func runRefresh(cmd *cobra.Command, args []string) {
	c := initFullContext()
	defer c.Close()

	owner, repo, number := resolveIssue(c.Config, refreshRepo, args[0])
	st := storage.NewIssueStorage(c.Config.CacheRoot(), owner, repo, number)

	fmt.Printf("Refreshing issue #%d from %s/%s...\n", number, owner, repo)

	result, err := core.Refresh(context.Background(), c.Client, st, c.Store, core.PullOptions{
		Owner:  owner,
		Repo:   repo,
		Number: number,
	})
	if err != nil {
		exitError("%v", err)
	}

	printPullSuccess(st, number, result)
}
