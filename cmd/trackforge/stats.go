package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/trackforge/internal/mapdoc"
	"github.com/vovakirdan/trackforge/internal/stats"
)

var (
	flagStatsSlot    string
	flagStatsCreator bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Show map difficulty and creator statistics",
	Long: `Show the length, turn count, decoration count and difficulty rating
of a map. With --creator, total every saved slot instead.

Examples:
  trackforge stats my_track.json
  trackforge stats --slot autosave
  trackforge stats --creator`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&flagStatsSlot, "slot", "", "Rate a saved slot")
	statsCmd.Flags().BoolVar(&flagStatsCreator, "creator", false, "Show totals over all saved slots")
}

func runStats(_ *cobra.Command, args []string) {
	logger := newLogger("trackforge")
	cfg := loadConfig()
	gw := openGateway(logger)
	defer gw.Close()
	ctx := context.Background()

	if flagStatsCreator {
		slots, err := gw.ListSlots(ctx)
		if err != nil {
			fail("listing slots: %v", err)
		}
		docs := make([]*mapdoc.Document, 0, len(slots))
		for _, s := range slots {
			docs = append(docs, s.Document)
		}
		c := stats.CreatorStats(docs)
		fmt.Println("Creator Stats")
		fmt.Println()
		fmt.Printf("  Maps created:        %d\n", c.MapsCreated)
		fmt.Printf("  Tiles placed:        %d\n", c.TilesPlaced)
		fmt.Printf("  Decorations placed:  %d\n", c.DecorationsPlaced)
		if c.FavoriteDecoration != "" {
			fmt.Printf("  Favorite decoration: %s (%d)\n", c.FavoriteDecoration, c.DecorationCounts[c.FavoriteDecoration])
		}
		return
	}

	doc, err := loadDocument(ctx, gw, args, flagStatsSlot)
	if err != nil {
		fail("%v", err)
	}
	r := stats.Summarize(doc, cfg.Rating)
	fmt.Printf("%s\n", r.Name)
	fmt.Println()
	fmt.Printf("  Path length:  %d\n", r.PathLength)
	fmt.Printf("  Turns:        %d\n", r.Turns)
	fmt.Printf("  Decorations:  %d\n", r.Decorations)
	fmt.Printf("  Difficulty:   %s (score %d)\n", r.Rating, r.Score)
}
