// Package publish copies a generated documentation tree to its destination.
package publish

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Copier recursively copies Source into Destination.
type Copier struct {
	Source      string
	Destination string
}

func (c *Copier) Run(ctx context.Context) error {
	info, err := os.Stat(c.Source)
	if err != nil {
		return errors.Wrap(err, "unable to read documentation output")
	}
	if !info.IsDir() {
		return errors.Errorf("%s is not a directory", c.Source)
	}

	return copyDir(ctx, c.Source, c.Destination)
}

// copyDir copies a directory tree, creating dst when needed and keeping file modes.
func copyDir(ctx context.Context, src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return errors.Wrapf(err, "unable to stat %s", src)
	}

	err = os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", dst)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Wrapf(err, "unable to read %s", src)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.IsDir():
			err = copyDir(ctx, srcPath, dstPath)
		case entry.Type()&os.ModeSymlink != 0:
			err = copySymlink(srcPath, dstPath)
		default:
			err = copyFile(srcPath, dstPath)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return errors.Wrapf(err, "unable to read link %s", src)
	}

	_ = os.Remove(dst)

	return errors.Wrapf(os.Symlink(target, dst), "unable to link %s", dst)
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s", src)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return errors.Wrapf(err, "unable to stat %s", src)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", dst)
	}

	_, err = io.Copy(dstFile, srcFile)
	if err != nil {
		_ = dstFile.Close()

		return errors.Wrapf(err, "unable to copy %s", src)
	}

	err = dstFile.Close()
	if err != nil {
		return errors.Wrapf(err, "unable to close %s", dst)
	}

	return errors.Wrapf(os.Chmod(dst, srcInfo.Mode().Perm()), "unable to chmod %s", dst)
}
