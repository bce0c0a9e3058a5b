// Package utils collects small filesystem/env helpers shared across
// the command handlers and wav packages.
package utils

import (
	"io"
	"os"
)

// CreateFolder creates dir (and parents) if it doesn't already exist.
func CreateFolder(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// GetEnv reads an environment variable, returning fallback when unset.
func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// MoveFile renames src to dst, falling back to a copy+remove when the
// rename fails across filesystem boundaries (e.g. tmp/ on a different
// mount than the destination directory).
func MoveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return os.Remove(src)
}
