package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/trackforge/internal/codec"
	"github.com/vovakirdan/trackforge/internal/community"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
)

var (
	flagShareSlot string
	flagShareOut  string
	flagShareSave string
	flagShareURL  string
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Share codes and community maps",
	Long: `Share codes are compact text forms of a map that can be pasted
into chat and decoded back into the same path, decorations and settings.
The upload, top and download commands exchange share codes with the
community server named by community.url in the config or --url.

Examples:
  trackforge share encode my_track.json
  trackforge share encode --slot autosave
  trackforge share decode <code> --out shared.json
  trackforge share decode <code> --save shared
  trackforge share upload --slot autosave --url https://maps.example.com/api/maps
  trackforge share top
  trackforge share download <id> --save downloaded`,
}

var shareEncodeCmd = &cobra.Command{
	Use:   "encode [file]",
	Short: "Print the share code for a map",
	Args:  cobra.MaximumNArgs(1),
	Run:   runShareEncode,
}

var shareDecodeCmd = &cobra.Command{
	Use:   "decode <code>",
	Short: "Decode a share code",
	Args:  cobra.ExactArgs(1),
	Run:   runShareDecode,
}

var shareUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Publish a map to the community server",
	Args:  cobra.MaximumNArgs(1),
	Run:   runShareUpload,
}

var shareTopCmd = &cobra.Command{
	Use:   "top",
	Short: "List the community server's top maps",
	Args:  cobra.NoArgs,
	Run:   runShareTop,
}

var shareDownloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Fetch a map from the community server",
	Args:  cobra.ExactArgs(1),
	Run:   runShareDownload,
}

func init() {
	shareCmd.PersistentFlags().StringVar(&flagShareURL, "url", "", "Community server URL (overrides community.url in the config)")
	shareEncodeCmd.Flags().StringVar(&flagShareSlot, "slot", "", "Encode a saved slot")
	shareDecodeCmd.Flags().StringVar(&flagShareOut, "out", "", "Write the decoded map to this file (.json or .yaml)")
	shareDecodeCmd.Flags().StringVar(&flagShareSave, "save", "", "Save the decoded map to this slot")

	shareUploadCmd.Flags().StringVar(&flagShareSlot, "slot", "", "Upload a saved slot")
	shareDownloadCmd.Flags().StringVar(&flagShareOut, "out", "", "Write the downloaded map to this file (.json or .yaml)")
	shareDownloadCmd.Flags().StringVar(&flagShareSave, "save", "", "Save the downloaded map to this slot")

	shareCmd.AddCommand(shareEncodeCmd)
	shareCmd.AddCommand(shareDecodeCmd)
	shareCmd.AddCommand(shareUploadCmd)
	shareCmd.AddCommand(shareTopCmd)
	shareCmd.AddCommand(shareDownloadCmd)
}

func runShareEncode(_ *cobra.Command, args []string) {
	logger := newLogger("trackforge")
	gw := openGateway(logger)
	defer gw.Close()

	doc, err := loadDocument(context.Background(), gw, args, flagShareSlot)
	if err != nil {
		fail("%v", err)
	}
	code, err := codec.EncodeShareCode(doc)
	if err != nil {
		fail("encoding share code: %v", err)
	}
	fmt.Println(code)
}

func runShareDecode(_ *cobra.Command, args []string) {
	doc, err := codec.DecodeShareCode(args[0])
	if err != nil {
		fail("%v", err)
	}
	keepDocument(doc)
}

// keepDocument prints a summary of doc and writes it to --out and --save.
func keepDocument(doc *mapdoc.Document) {
	fmt.Printf("%s: %d tiles, %d decorations\n", doc.Name(), doc.PathLen(), len(doc.Decorations()))
	if flagShareOut == "" && flagShareSave == "" {
		return
	}

	logger := newLogger("trackforge")
	gw := openGateway(logger)
	defer gw.Close()
	ctx := context.Background()

	if flagShareOut != "" {
		path, err := gw.ExportToPath(ctx, doc, flagShareOut)
		if err != nil {
			fail("%v", err)
		}
		fmt.Printf("Wrote %s\n", path)
	}
	if flagShareSave != "" {
		if !gw.SaveSlot(ctx, doc, flagShareSave) {
			fail("could not save slot %q", flagShareSave)
		}
		fmt.Printf("Saved slot %q\n", flagShareSave)
	}
}

// communityClient builds a client from the config and --url.
func communityClient() *community.Client {
	cfg := loadConfig()
	if flagShareURL != "" {
		cfg.Community.URL = flagShareURL
	}
	c, err := community.New(cfg, community.WithLogger(newLogger("trackforge-community")))
	if errors.Is(err, community.ErrDisabled) {
		fail("no community server: set community.url in the config or pass --url")
	}
	if err != nil {
		fail("%v", err)
	}
	return c
}

func runShareUpload(_ *cobra.Command, args []string) {
	client := communityClient()
	logger := newLogger("trackforge")
	gw := openGateway(logger)
	defer gw.Close()
	ctx := context.Background()

	doc, err := loadDocument(ctx, gw, args, flagShareSlot)
	if err != nil {
		fail("%v", err)
	}
	id, err := client.Upload(ctx, doc)
	if err != nil {
		fail("%v", err)
	}
	fmt.Printf("Uploaded %q as %s\n", doc.Name(), id)
}

func runShareTop(_ *cobra.Command, _ []string) {
	maps, err := communityClient().Top(context.Background())
	if err != nil {
		fail("%v", err)
	}
	if len(maps) == 0 {
		fmt.Println("No community maps yet.")
		return
	}
	fmt.Printf("%-12s  %-24s  %-16s  %s\n", "ID", "NAME", "CREATOR", "DIFFICULTY")
	for _, m := range maps {
		fmt.Printf("%-12s  %-24s  %-16s  %s\n", m.ID, m.Name, m.Creator, m.Difficulty)
	}
}

func runShareDownload(_ *cobra.Command, args []string) {
	doc, err := communityClient().Download(context.Background(), args[0])
	if err != nil {
		fail("%v", err)
	}
	keepDocument(doc)
}
