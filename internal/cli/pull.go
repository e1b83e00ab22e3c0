package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/givc/internal/core"
	"github.com/kilupskalvis/givc/internal/storage"
	"github.com/spf13/cobra"
)

var pullRepo string

var pullCmd = &cobra.Command{
	Use:   "pull <issue>",
	Short: "Download an issue into the local cache",
	Long: `Download a GitHub issue and its comments into local markdown files.

The issue body lands in issue.md, each comment in its own file under
comments/, plus a metadata.json snapshot used to detect conflicts.
Pull refuses to overwrite unpushed local edits; use 'givc refresh' to
discard them.

Examples:
  givc pull 38                         Pull issue #38 of the current repository
  givc pull 38 -R octocat/hello-world  Pull from an explicit repository`,
	Args: cobra.ExactArgs(1),
	Run:  runPull,
}

func init() {
	pullCmd.Flags().StringVarP(&pullRepo, "repo", "R", "", "Target repository (owner/repo)")
}

func runPull(cmd *cobra.Command, args []string) {
	c := initFullContext()
	defer c.Close()

	owner, repo, number := resolveIssue(c.Config, pullRepo, args[0])
	st := storage.NewIssueStorage(c.Config.CacheRoot(), owner, repo, number)

	fmt.Printf("Fetching issue #%d from %s/%s...\n", number, owner, repo)

	result, err := core.Pull(context.Background(), c.Client, st, c.Store, core.PullOptions{
		Owner:  owner,
		Repo:   repo,
		Number: number,
	})
	if err != nil {
		exitError("%v", err)
	}

	printPullSuccess(st, number, result)
}

// printPullSuccess lists the files an editing session works with
func printPullSuccess(st *storage.IssueStorage, number int64, result *core.PullResult) {
	dir := st.Dir()

	fmt.Println()
	color.New(color.FgGreen).Printf("Done! Issue #%d has been saved to %s/\n", number, dir)
	fmt.Println()
	fmt.Printf("Title: %s\n", result.Issue.Title)
	fmt.Println()
	fmt.Println("Files:")
	fmt.Printf("  %s/issue.md          - Issue body (editable)\n", dir)
	fmt.Printf("  %s/metadata.json     - Metadata (editable: title, labels)\n", dir)
	fmt.Printf("  %s/comments/         - Comments (only your own are editable)\n", dir)
}
