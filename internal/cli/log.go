package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	logRepo  string
	logLimit int
)

var logCmd = &cobra.Command{
	Use:   "log [<issue>]",
	Short: "Show sync history",
	Long: `Display the pulls, refreshes, and pushes recorded in the sync journal,
newest first. With an issue argument the list is limited to that issue.

Examples:
  givc log            All recorded syncs
  givc log 38         Syncs of issue #38
  givc log -n 5       Only the last five entries`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLog,
}

func init() {
	logCmd.Flags().StringVarP(&logRepo, "repo", "R", "", "Target repository (owner/repo)")
	logCmd.Flags().IntVarP(&logLimit, "n", "n", 0, "Limit the number of entries to show")
}

func runLog(cmd *cobra.Command, args []string) {
	c := initContextWithMigrations()
	defer c.Close()

	var repo string
	var number int64
	if len(args) > 0 {
		var owner, name string
		owner, name, number = resolveIssue(c.Config, logRepo, args[0])
		repo = owner + "/" + name
	} else if logRepo != "" {
		owner, name, err := parseRepo(logRepo)
		if err != nil {
			exitError("%v", err)
		}
		repo = owner + "/" + name
	}

	records, err := c.Store.History(repo, number, logLimit)
	if err != nil {
		exitError("failed to read sync history: %v", err)
	}

	if len(records) == 0 {
		fmt.Println("No syncs recorded yet")
		return
	}

	yellow := color.New(color.FgYellow)
	for _, rec := range records {
		yellow.Printf("%-7s", rec.Op)
		fmt.Printf(" %s#%d  %s", rec.Repo, rec.IssueNumber, humanize.Time(rec.Timestamp))
		if rec.Detail != "" {
			fmt.Printf("  (%s)", rec.Detail)
		}
		fmt.Println()
	}
}
