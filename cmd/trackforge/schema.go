package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/trackforge/internal/codec"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the map file JSON Schema",
	Long: `Print the JSON Schema describing exported map files, for editors
and external tooling that want to validate them.`,
	Args: cobra.NoArgs,
	Run:  runSchema,
}

func runSchema(_ *cobra.Command, _ []string) {
	data, err := codec.SchemaJSON()
	if err != nil {
		fail("%v", err)
	}
	fmt.Println(string(data))
}
