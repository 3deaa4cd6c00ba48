package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/trackforge/internal/codec"
)

var (
	flagExportSlot   string
	flagExportFormat string
	flagExportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export a map",
	Long: `Export a map file or saved slot.

Formats:
  game - The JSON shape the game loads (track "custom", flat settings)
  json - The editor's map file format
  yaml - The editor's map file format as YAML

Without --out the result is printed to stdout.

Examples:
  trackforge export my_track.yaml --format game
  trackforge export --slot autosave --format yaml --out autosave.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportSlot, "slot", "", "Export a saved slot")
	exportCmd.Flags().StringVar(&flagExportFormat, "format", "game", "Output format: game, json, yaml")
	exportCmd.Flags().StringVar(&flagExportOut, "out", "", "Output file (default: stdout)")
}

func runExport(_ *cobra.Command, args []string) {
	logger := newLogger("trackforge")
	gw := openGateway(logger)
	defer gw.Close()

	doc, err := loadDocument(context.Background(), gw, args, flagExportSlot)
	if err != nil {
		fail("%v", err)
	}

	var data []byte
	switch flagExportFormat {
	case "game":
		data, err = json.MarshalIndent(codec.ExportGame(doc), "", "  ")
	case "json":
		data, err = codec.MarshalJSON(doc)
	case "yaml", "yml":
		data, err = codec.MarshalYAML(doc)
	default:
		fail("unknown format %q (use game, json or yaml)", flagExportFormat)
	}
	if err != nil {
		fail("encoding map: %v", err)
	}

	if flagExportOut == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(flagExportOut, data, 0o644); err != nil {
		fail("writing %s: %v", flagExportOut, err)
	}
	fmt.Printf("Exported %q to %s\n", doc.Name(), flagExportOut)
}
