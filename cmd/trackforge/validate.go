package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/trackforge/internal/validate"
)

var flagValidateSlot string

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a map against the editor rules",
	Long: `Validate a map file or saved slot.

A map is valid when the path has at least the configured minimum number of
tiles, every tile touches the one before it and every tile lies inside the
world. The command exits with status 1 when the map is invalid.

Examples:
  trackforge validate my_track.json
  trackforge validate --slot autosave`,
	Args: cobra.MaximumNArgs(1),
	Run:  runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&flagValidateSlot, "slot", "", "Validate a saved slot")
}

func runValidate(_ *cobra.Command, args []string) {
	logger := newLogger("trackforge")
	cfg := loadConfig()
	gw := openGateway(logger)
	defer gw.Close()

	doc, err := loadDocument(context.Background(), gw, args, flagValidateSlot)
	if err != nil {
		fail("%v", err)
	}

	rules := validate.Rules{
		GridSize:      cfg.GridSize,
		WorldSize:     cfg.WorldSize,
		MinPathLength: cfg.MinPathLength,
	}
	res := rules.Validate(doc)
	if res.Valid {
		fmt.Printf("%s: valid (%d tiles)\n", doc.Name(), doc.PathLen())
		return
	}

	fmt.Printf("%s: invalid\n", doc.Name())
	for _, issue := range res.Issues {
		fmt.Printf("  [%s] %s\n", issue.Code, issue.Message)
	}
	gw.Close()
	os.Exit(1)
}
