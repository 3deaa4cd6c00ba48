package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/trackforge/internal/codec"
	"github.com/vovakirdan/trackforge/internal/storage"
)

var flagSlotSaveFile string

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Manage saved maps",
	Long: `List, inspect, save and delete named map slots.

The editor saves to a slot named after the map (Ctrl+S), autosaves to
"autosave" and writes "test_map" on every test run.

Examples:
  trackforge slots list
  trackforge slots show autosave
  trackforge slots save canyon --file canyon.yaml
  trackforge slots delete test_map`,
}

var slotsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved slots",
	Args:  cobra.NoArgs,
	Run:   runSlotsList,
}

var slotsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a saved slot as YAML",
	Args:  cobra.ExactArgs(1),
	Run:   runSlotsShow,
}

var slotsSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save a map file into a slot",
	Args:  cobra.ExactArgs(1),
	Run:   runSlotsSave,
}

var slotsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved slot",
	Args:  cobra.ExactArgs(1),
	Run:   runSlotsDelete,
}

func init() {
	slotsSaveCmd.Flags().StringVar(&flagSlotSaveFile, "file", "", "Map file to save (.json or .yaml)")
	_ = slotsSaveCmd.MarkFlagRequired("file")

	slotsCmd.AddCommand(slotsListCmd)
	slotsCmd.AddCommand(slotsShowCmd)
	slotsCmd.AddCommand(slotsSaveCmd)
	slotsCmd.AddCommand(slotsDeleteCmd)
}

func runSlotsList(_ *cobra.Command, _ []string) {
	logger := newLogger("trackforge")
	gw := openGateway(logger)
	defer gw.Close()

	slots, err := gw.ListSlots(context.Background())
	if err != nil {
		fail("listing slots: %v", err)
	}
	if len(slots) == 0 {
		fmt.Println("No saved maps yet.")
		fmt.Println()
		fmt.Println("Run 'trackforge edit' and press Ctrl+S to save one!")
		return
	}

	maxNameLen := 4 // "Slot" header
	for _, s := range slots {
		if len(s.Name) > maxNameLen {
			maxNameLen = len(s.Name)
		}
	}

	fmt.Printf("  %-*s  %-24s  %5s  %5s  %s\n", maxNameLen, "Slot", "Map", "Tiles", "Decor", "Saved")
	fmt.Printf("  %-*s  %-24s  %5s  %5s  %s\n", maxNameLen, "----", "---", "-----", "-----", "-----")
	for _, s := range slots {
		fmt.Printf("  %-*s  %-24s  %5d  %5d  %s\n",
			maxNameLen, s.Name, s.Document.Name(), s.Document.PathLen(),
			len(s.Document.Decorations()), s.SavedAt.Local().Format("2006-01-02 15:04"))
	}
}

func runSlotsShow(_ *cobra.Command, args []string) {
	logger := newLogger("trackforge")
	gw := openGateway(logger)
	defer gw.Close()

	s, err := gw.Slot(context.Background(), args[0])
	if errors.Is(err, storage.ErrSlotNotFound) {
		fail("no slot named %q", args[0])
	}
	if err != nil {
		fail("%v", err)
	}
	fmt.Printf("# slot %q saved %s\n", s.Name, s.SavedAt.Format(storage.TimeLayout))
	data, err := codec.MarshalYAML(s.Document)
	if err != nil {
		fail("%v", err)
	}
	fmt.Print(string(data))
}

func runSlotsSave(_ *cobra.Command, args []string) {
	logger := newLogger("trackforge")
	gw := openGateway(logger)
	defer gw.Close()
	ctx := context.Background()

	doc, err := gw.ImportFromFile(ctx, flagSlotSaveFile)
	if err != nil {
		fail("%v", err)
	}
	if !gw.SaveSlot(ctx, doc, args[0]) {
		fail("could not save slot %q", args[0])
	}
	fmt.Printf("Saved %q to slot %q\n", doc.Name(), args[0])
}

func runSlotsDelete(_ *cobra.Command, args []string) {
	logger := newLogger("trackforge")
	gw := openGateway(logger)
	defer gw.Close()

	if !gw.DeleteSlot(context.Background(), args[0]) {
		fail("no slot named %q", args[0])
	}
	fmt.Printf("Deleted slot %q\n", args[0])
}
