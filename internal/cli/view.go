package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/kilupskalvis/givc/internal/storage"
	"github.com/spf13/cobra"
)

var viewRepo string

var viewCmd = &cobra.Command{
	Use:   "view <issue>",
	Short: "Display a cached issue",
	Long: `Display the cached copy of an issue: title, state, labels, body, and
comments. The command reads only local files; run 'givc pull' or
'givc refresh' first to update them.

Examples:
  givc view 38
  givc view 38 -R octocat/hello-world`,
	Args: cobra.ExactArgs(1),
	Run:  runView,
}

func init() {
	viewCmd.Flags().StringVarP(&viewRepo, "repo", "R", "", "Target repository (owner/repo)")
}

func runView(cmd *cobra.Command, args []string) {
	c := initContextWithMigrations()
	defer c.Close()

	owner, repo, number := resolveIssue(c.Config, viewRepo, args[0])
	st := storage.NewIssueStorage(c.Config.CacheRoot(), owner, repo, number)

	if !st.Exists() {
		exitError("issue #%d is not cached: run 'givc pull %d' first", number, number)
	}

	meta, err := st.ReadMetadata()
	if err != nil {
		exitError("%v", err)
	}
	body, err := st.ReadBody()
	if err != nil {
		exitError("%v", err)
	}
	comments, err := st.ReadComments()
	if err != nil {
		exitError("%v", err)
	}

	bold := color.New(color.Bold)
	bold.Printf("%s #%d\n", meta.Title, meta.Number)

	stateColor := color.New(color.FgGreen)
	if meta.State != "open" {
		stateColor = color.New(color.FgMagenta)
	}
	stateColor.Print(strings.ToUpper(meta.State))
	fmt.Printf(" · %s opened %s · %d comment(s)\n", meta.Author, relativeTime(meta.CreatedAt), len(comments))

	if len(meta.Labels) > 0 {
		fmt.Printf("Labels: %s\n", strings.Join(meta.Labels, ", "))
	}
	if len(meta.Assignees) > 0 {
		fmt.Printf("Assignees: %s\n", strings.Join(meta.Assignees, ", "))
	}
	if meta.Milestone != nil {
		fmt.Printf("Milestone: %s\n", *meta.Milestone)
	}

	if last, err := c.Store.LastSync(owner+"/"+repo, number); err == nil && last != nil {
		fmt.Printf("Last synced: %s (%s)\n", humanize.Time(last.Timestamp), last.Op)
	}

	fmt.Println()
	fmt.Println(indent(body, "  "))

	for i := range comments {
		cm := &comments[i]
		fmt.Println()
		if cm.IsNew() {
			color.New(color.FgYellow).Printf("%s (draft, not pushed yet)\n", cm.Filename)
		} else {
			bold.Print(cm.Meta.Author)
			fmt.Printf(" commented %s\n", relativeTime(cm.Meta.CreatedAt))
		}
		fmt.Println(indent(cm.Body, "  "))
	}
}

// relativeTime renders an RFC 3339 timestamp as "3 days ago". The raw
// string comes back when it does not parse.
func relativeTime(rfc3339 string) string {
	t, err := time.Parse(time.RFC3339, rfc3339)
	if err != nil {
		return rfc3339
	}
	return humanize.Time(t)
}

// indent prefixes every line of text
func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
