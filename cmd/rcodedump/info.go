package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/riverside-software/rcode/pkg/rcode"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.r>",
	Short: "Decode a single r-code file and print its header and type information as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

// summary is the JSON shape printed by `info`; it mirrors RCodeInfo's
// accessor surface rather than exposing its unexported fields directly.
type summary struct {
	Path         string      `json:"path"`
	Version      uint16      `json:"version"`
	VersionMajor uint16      `json:"versionMajor"`
	Is64Bit      bool        `json:"is64Bit"`
	TimeStamp    int64       `json:"timeStamp"`
	IsClass      bool        `json:"isClass"`
	TypeInfo     interface{} `json:"typeInfo,omitempty"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]
	maxSize, cs, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := rcode.Decode(f, rcode.Options{MaxSegmentSize: maxSize, Charset: cs})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	s := summary{
		Path:         path,
		Version:      info.Version(),
		VersionMajor: info.VersionMajor(),
		Is64Bit:      info.Is64Bit(),
		TimeStamp:    info.TimeStamp(),
		IsClass:      info.IsClass(),
	}
	if info.IsClass() {
		s.TypeInfo = info.TypeInfo()
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}
