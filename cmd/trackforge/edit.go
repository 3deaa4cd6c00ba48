package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/trackforge/internal/editor"
	"github.com/vovakirdan/trackforge/internal/platform/tui"
	"github.com/vovakirdan/trackforge/internal/preview"
)

var (
	flagEditSlot    string
	flagEditLogFile string
	flagExportDir   string
	flagPreviewAddr string
)

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Open the map editor",
	Long: `Open the interactive map editor.

Controls:
  Arrows/WASD  - Move the cursor one tile
  Space/Enter  - Apply the active tool (or click a tile)
  Tab          - Cycle tools: path, decoration, delete
  1-4          - Pick tree, rock, crystal or generic decoration
  U / Ctrl+Z   - Undo
  Shift+U / Ctrl+Y - Redo
  M            - Toggle X-axis symmetry for decorations
  X            - Delete the last path tile
  Ctrl+S       - Save to a slot named after the map
  O            - Open a saved slot
  T            - Validate, save as test_map and export for the game
  G            - Generate a random map
  E            - Export the map as JSON
  C            - Show the share code
  ?            - More keys
  Q/Ctrl+C     - Quit

The editor autosaves to the "autosave" slot on the configured interval.

With --preview-addr the editor serves a WebSocket at /preview that
streams the path and decorations after every change.

Examples:
  trackforge edit
  trackforge edit my_track.json
  trackforge edit --slot autosave
  trackforge edit --preview-addr :8080`,
	Args: cobra.MaximumNArgs(1),
	Run:  runEdit,
}

func init() {
	editCmd.Flags().StringVar(&flagEditSlot, "slot", "", "Open a saved slot")
	editCmd.Flags().StringVar(&flagEditLogFile, "log-file", "", "Write logs to this file (the terminal is busy with the editor)")
	editCmd.Flags().StringVar(&flagExportDir, "export-dir", ".", "Directory exported map files are written to")
	editCmd.Flags().StringVar(&flagPreviewAddr, "preview-addr", "", "Serve the live preview WebSocket on this address")
}

func runEdit(_ *cobra.Command, args []string) {
	logger, closeLog := editLogger()
	defer closeLog()

	cfg := loadConfig()
	gw := openGateway(logger)
	defer gw.Close()

	ctx := context.Background()
	s := seed()
	sessOpts := []editor.Option{
		editor.WithLogger(logger),
		editor.WithSeed(s),
	}
	if len(args) > 0 || flagEditSlot != "" {
		doc, err := loadDocument(ctx, gw, args, flagEditSlot)
		if err != nil {
			fail("%v", err)
		}
		sessOpts = append(sessOpts, editor.WithDocument(doc))
	}
	sess := editor.NewSession(cfg, sessOpts...)

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	modelOpts := []tui.Option{
		tui.WithGateway(gw),
		tui.WithModelLogger(logger),
		tui.WithExportDir(flagExportDir),
		tui.WithSize(width, height),
		tui.WithGeneratorSeed(s),
	}

	if flagPreviewAddr != "" {
		hub := preview.NewHub(logger)
		sess.OnRebuild(hub.Rebuild)
		modelOpts = append(modelOpts, tui.WithTestHook(hub.PublishMap))

		mux := http.NewServeMux()
		mux.Handle("/preview", hub)
		srv := &http.Server{Addr: flagPreviewAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("preview server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("preview server started", "address", flagPreviewAddr)
	}

	if err := tui.Run(sess, modelOpts...); err != nil {
		fail("running editor: %v", err)
	}
}

// editLogger writes to --log-file, or nowhere: stderr belongs to the editor.
func editLogger() (*log.Logger, func()) {
	if flagEditLogFile == "" {
		return log.New(io.Discard), func() {}
	}
	if dir := filepath.Dir(flagEditLogFile); dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(flagEditLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return log.New(io.Discard), func() {}
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "trackforge",
	})
	if level, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(level)
	}
	return logger, func() { f.Close() }
}
