// Package cleanup removes artifacts left behind by a previous run.
package cleanup

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Cleaner removes the regular files matching Patterns, relative to Root.
// Finding nothing to remove is not an error.
type Cleaner struct {
	Patterns []string
	Root     string
	Logger   *slog.Logger
}

func (c *Cleaner) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}

	return c.Logger
}

func (c *Cleaner) matches() ([]string, error) {
	files := []string{}
	seen := make(map[string]struct{})

	for _, pattern := range c.Patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(c.Root, pattern)
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid pattern %s", pattern)
		}

		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			files = append(files, match)
		}
	}

	return files, nil
}

// Run removes the matching files. It keeps going after a failed removal and returns the
// first error once every file was tried.
func (c *Cleaner) Run(ctx context.Context) error {
	files, err := c.matches()
	if err != nil {
		return err
	}

	var firstErr error
	removed := 0

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		info, err := os.Lstat(file)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "unable to stat %s", file)
			}

			continue
		}

		if info.IsDir() {
			continue
		}

		err = os.Remove(file)
		if err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "unable to remove %s", file)
			}

			continue
		}

		removed++
		c.logger().Debug("Removed stale artifact", "file", file)
	}

	if removed == 0 && firstErr == nil {
		c.logger().Info("No stale artifacts to remove", "patterns", c.Patterns)

		return nil
	}

	c.logger().Info("Removed stale artifacts", "count", removed)

	return firstErr
}
