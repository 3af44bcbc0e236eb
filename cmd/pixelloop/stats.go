package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pixelloop/internal/platform/tui"
	"github.com/vovakirdan/pixelloop/internal/registry"
	"github.com/vovakirdan/pixelloop/internal/storage"
)

var (
	flagStatsLimit int
	flagStatsClear bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [scene]",
	Short: "Show recorded runs",
	Long: `Display the most recent engine runs and per-scene totals.

Examples:
  pixelloop stats
  pixelloop stats bounce --limit 20
  pixelloop stats paint --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagStatsLimit, "limit", 10, "Number of recent runs to show")
	statsCmd.Flags().BoolVar(&flagStatsClear, "clear", false, "Delete the recorded runs of the scene")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sceneID := ""
	if len(args) > 0 {
		sceneID = args[0]
		if !registry.Exists(sceneID) {
			return fmt.Errorf("unknown scene %q, run 'pixelloop list' to see available scenes", sceneID)
		}
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening run statistics database: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if flagStatsClear {
		if sceneID == "" {
			return errors.New("--clear needs a scene")
		}
		if err := store.ClearRuns(sceneID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared runs of %s.\n", sceneID)
		return nil
	}

	runs, err := store.RecentRuns(sceneID, flagStatsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'pixelloop run' or 'pixelloop headless' to record one.")
		return nil
	}

	fmt.Fprintln(out, "Recent runs")
	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.RunsTable(runs))
	fmt.Fprintln(out)

	if sceneID != "" {
		st, err := store.GetSceneStats(sceneID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s\n", sceneID, tui.SceneSummary(st))
		return nil
	}

	all, err := store.GetAllSceneStats()
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(out, "%s: %s\n", id, tui.SceneSummary(all[id]))
	}
	return nil
}
