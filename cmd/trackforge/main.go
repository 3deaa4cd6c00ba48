// trackforge is a terminal editor for snake-path race maps.
//
// Usage:
//
//	trackforge edit [file]          - Open the interactive map editor
//	trackforge validate [file]      - Check a map against the editor rules
//	trackforge export [file]        - Write a map as game JSON, map JSON or YAML
//	trackforge share ...            - Share codes and the community map server
//	trackforge slots ...            - List, show, save and delete saved maps
//	trackforge stats [file]         - Show map difficulty and creator totals
//	trackforge generate             - Create a random valid map
//	trackforge schema               - Print the map file JSON Schema
//	trackforge serve                - Start the SSH editor server
//
// Global flags:
//
//	--db <dsn>          - Map database: sqlite path or postgres:// URL (default: ~/.trackforge/maps.db)
//	--config <path>     - Editor config YAML
//	--log-level <level> - debug, info, warn or error
//	--seed <value>      - RNG seed for rotations and the generator
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/trackforge/internal/config"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
	"github.com/vovakirdan/trackforge/internal/storage"
)

var (
	// Global flags
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagSeed     int64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "trackforge",
	Short: "Trackforge - Build snake-path race maps in your terminal",
	Long: `Trackforge is a terminal map editor for grid race tracks.

A track is a snake: every tile must touch the previous one, tiles never
repeat and only the last tile can be removed. Decorations are placed
freely around the track, optionally mirrored across the X axis.

Available commands:
  edit      - Interactive editor
  validate  - Check a map file or slot
  export    - Export a map for the game or as a file
  share     - Share codes and community maps
  slots     - Manage saved maps
  stats     - Difficulty and creator statistics
  generate  - Create a random map
  schema    - Print the map file JSON Schema
  serve     - Start the SSH editor server

Examples:
  trackforge edit
  trackforge edit my_track.json
  trackforge validate --slot autosave
  trackforge export my_track.yaml --format game
  trackforge share encode --slot "Custom Map"
  trackforge serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.trackforge/maps.db", "Map database (sqlite path or postgres:// URL)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to editor config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(slotsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(serveCmd)
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// newLogger builds the stderr logger at the requested level.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// seed returns the --seed value or a time-based seed.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// loadConfig loads the editor config or exits.
func loadConfig() config.EditorConfig {
	cfg, err := config.LoadEditor(flagConfig)
	if err != nil {
		fail("%v", err)
	}
	return cfg
}

// openGateway opens the map database. When it cannot be opened the
// commands keep working on an in-memory store.
func openGateway(logger *log.Logger) *storage.Gateway {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open map database, using memory", "db", flagDBPath, "error", err)
		return storage.NewGateway(storage.NewMemory(), storage.WithLogger(logger))
	}
	logger.Debug("map database open", "dialect", store.Dialect())
	return storage.NewGateway(store, storage.WithLogger(logger))
}

// loadDocument reads a map from a file argument or a named slot.
func loadDocument(ctx context.Context, gw *storage.Gateway, args []string, slot string) (*mapdoc.Document, error) {
	switch {
	case len(args) > 0 && slot != "":
		return nil, fmt.Errorf("give either a file or --slot, not both")
	case len(args) > 0:
		return gw.ImportFromFile(ctx, args[0])
	case slot != "":
		s, err := gw.Slot(ctx, slot)
		if err != nil {
			return nil, err
		}
		return s.Document, nil
	default:
		return nil, fmt.Errorf("no map given: pass a file or --slot")
	}
}
