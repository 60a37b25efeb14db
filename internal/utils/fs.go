package utils

import (
	"os"
	"path/filepath"
)

// FileExists reports whether path can be stat'ed.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dirPath and its parents.
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0o755)
}

// ExecutableDir returns the directory of the running binary, symlinks resolved.
func ExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = resolved
	}
	return filepath.Dir(execPath), nil
}
