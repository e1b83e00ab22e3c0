package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/kilupskalvis/givc/internal/storage"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List cached issues",
	Long:  `List every issue in the local cache with its title and last recorded sync.`,
	Run:   runStatus,
}

func runStatus(cmd *cobra.Command, args []string) {
	c := initContextWithMigrations()
	defer c.Close()

	cached, err := storage.ListCached(c.Config.CacheRoot())
	if err != nil {
		exitError("%v", err)
	}

	if len(cached) == 0 {
		fmt.Println("No cached issues. Run 'givc pull <issue>' to start.")
		return
	}

	bold := color.New(color.Bold)
	for i := range cached {
		ci := &cached[i]

		meta, err := storage.FromDir(ci.Dir).ReadMetadata()
		if err != nil {
			color.New(color.FgRed).Printf("%s#%d  unreadable metadata: %v\n", ci.Slug(), ci.Number, err)
			continue
		}

		bold.Printf("%s#%d", ci.Slug(), ci.Number)
		fmt.Printf("  %s\n", meta.Title)

		last, err := c.Store.LastSync(ci.Slug(), ci.Number)
		if err == nil && last != nil {
			fmt.Printf("  last %s %s\n", last.Op, humanize.Time(last.Timestamp))
		} else {
			fmt.Println("  never synced")
		}
	}
}
