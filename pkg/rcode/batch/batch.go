// Package batch runs the decoder over many r-code files concurrently. It
// is a convenience composition over rcode.Decode, not a new decode
// algorithm: each file gets its own Reader and its own RCodeInfo, and no
// mutable state is shared across decodes besides the result slice, which
// each worker writes to at its own index.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/riverside-software/rcode/pkg/rcode"
)

// Result is one file's outcome: either Info is set and Err is nil, or
// Err is set and Info is nil. Never both.
type Result struct {
	Path string
	Info *rcode.RCodeInfo
	Err  error
}

// DecodeTree walks root for *.r files and decodes each with its own file
// handle, at most workers decodes in flight at once. Results are returned
// in a stable order (by path), one per discovered file, regardless of how
// many failed.
func DecodeTree(ctx context.Context, root string, opts rcode.Options, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = 1
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) == ".r" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
				return nil
			}
			info, err := decodeFileHook(path, opts)
			results[i] = Result{Path: path, Info: info, Err: err}
			return nil
		})
	}

	// Worker errors, including a cancelled ctx, are captured per-file in
	// Result.Err; every worker returns nil, so g.Wait reports no error.
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// decodeFileHook is a package-level indirection so tests can observe
// concurrency without a real decode workload.
var decodeFileHook = decodeFile

func decodeFile(path string, opts rcode.Options) (*rcode.RCodeInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return rcode.Decode(f, opts)
}
