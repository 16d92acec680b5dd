package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/riverside-software/rcode/pkg/rcode"
	"github.com/riverside-software/rcode/pkg/rcode/batch"
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Decode every .r file under a directory tree and print a JSON array of results",
	Args:  cobra.ExactArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().Int("workers", 4, "maximum number of files decoded concurrently")
}

type batchResult struct {
	Path     string      `json:"path"`
	IsClass  bool        `json:"isClass,omitempty"`
	TypeInfo interface{} `json:"typeInfo,omitempty"`
	Error    string      `json:"error,omitempty"`
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	workers, err := cmd.Flags().GetInt("workers")
	if err != nil {
		return err
	}
	maxSize, cs, err := resolveOptions(cmd)
	if err != nil {
		return err
	}

	results, err := batch.DecodeTree(cmd.Context(), dir, rcode.Options{MaxSegmentSize: maxSize, Charset: cs}, workers)
	if err != nil {
		return fmt.Errorf("walk %s: %w", dir, err)
	}

	out := make([]batchResult, 0, len(results))
	anyFailed := false
	for _, r := range results {
		br := batchResult{Path: r.Path}
		if r.Err != nil {
			br.Error = r.Err.Error()
			anyFailed = true
		} else {
			br.IsClass = r.Info.IsClass()
			if r.Info.IsClass() {
				br.TypeInfo = r.Info.TypeInfo()
			}
		}
		out = append(out, br)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	if anyFailed {
		return errSomeFilesFailed
	}
	return nil
}

var errSomeFilesFailed = fmt.Errorf("one or more files failed to decode")
