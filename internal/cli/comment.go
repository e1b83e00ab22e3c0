package cli

import (
	"fmt"
	"time"

	"github.com/kilupskalvis/givc/internal/storage"
	"github.com/spf13/cobra"
)

var (
	commentRepo    string
	commentMessage string
	commentName    string
)

var commentCmd = &cobra.Command{
	Use:   "comment <issue>",
	Short: "Draft a new comment on a cached issue",
	Long: `Create a draft comment file under the issue's comments directory.

Drafts are plain markdown files named new_<name>.md. They stay local
until the next 'givc push', which posts them and replaces the draft
with the synced comment file. Without -m the draft is created empty
for editing.

Examples:
  givc comment 38 -m "Fixed in v1.2"
  givc comment 38 --name reply-to-review -m "..."`,
	Args: cobra.ExactArgs(1),
	Run:  runComment,
}

func init() {
	commentCmd.Flags().StringVarP(&commentRepo, "repo", "R", "", "Target repository (owner/repo)")
	commentCmd.Flags().StringVarP(&commentMessage, "message", "m", "", "Comment body")
	commentCmd.Flags().StringVar(&commentName, "name", "", "Draft file name (default: a timestamp)")
}

func runComment(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	owner, repo, number := resolveIssue(c.Config, commentRepo, args[0])
	st := storage.NewIssueStorage(c.Config.CacheRoot(), owner, repo, number)

	if !st.Exists() {
		exitError("issue #%d is not cached: run 'givc pull %d' first", number, number)
	}

	name := commentName
	if name == "" {
		name = time.Now().Format("20060102-150405")
	}

	path, err := st.CreateDraftComment(name, commentMessage)
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("Created draft %s\n", path)
	fmt.Printf("Edit it and run 'givc push %d' to post.\n", number)
}
