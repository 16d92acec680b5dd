// Command rcodedump is a debugging tool for the r-code binary format: it
// decodes one file or a directory tree and prints what the decoder
// extracted as JSON. It is not part of the decoder's public contract —
// just a hand-run dump tool for maintainers inspecting compiled artifacts.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rcodedump",
	Short: "Inspect OpenEdge r-code artifacts",
	Long:  `rcodedump decodes r-code header, segment-table, and type-block information and prints it as JSON.`,
}

func main() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(batchCmd)

	rootCmd.PersistentFlags().String("config", "", "path to a TOML defaults file")
	rootCmd.PersistentFlags().String("charset", "", "charset for string-pool decoding (utf-8|windows-1252)")
	rootCmd.PersistentFlags().Int64("max-segment-size", 0, "override the maximum segment size in bytes (0 = default)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
