// Package fs provides file-system helpers for newsfetch: atomic output files
// and the on-disk session cookie store.
package fs

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
)

// WriteFile writes the output of write to path. Data goes to a temporary
// file in the same directory, which replaces path only after write
// succeeds, so a failed write never leaves a truncated file behind.
func WriteFile(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
