package tdms

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ScanFiles opens several files concurrently, at most GOMAXPROCS at a time.
// Files are returned in the order of paths. A file indexed only in part is
// returned with its error available from File.Err.
//
// If any file cannot be opened at all, or ctx is cancelled, every file
// opened so far is closed and the first error is returned.
func ScanFiles(ctx context.Context, paths []string, opts ...Option) ([]*File, error) {
	files := make([]*File, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := Open(path, opts...)
			if f == nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			files[i] = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, f := range files {
			if f != nil {
				f.Close()
			}
		}
		return nil, err
	}
	return files, nil
}
