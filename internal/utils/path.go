package utils

import (
	"path/filepath"

	"github.com/charmbracelet/log"
)

// PathResolver locates data files (chain store, embedding model) that may be
// given relative to the working directory, the binary or the config dir.
type PathResolver struct {
	executableDir string
	configDir     string
}

// NewPathResolver creates a resolver rooted at the running executable and
// the given config directory. Either may be empty.
func NewPathResolver(configDir string) *PathResolver {
	pr := &PathResolver{configDir: configDir}
	if dir, err := ExecutableDir(); err == nil {
		pr.executableDir = dir
	}
	return pr
}

// Resolve returns the first existing candidate for path. Absolute paths and
// paths that exist nowhere are returned unchanged.
func (pr *PathResolver) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	for _, candidate := range pr.candidates(path) {
		if FileExists(candidate) {
			if candidate != path {
				log.Debugf("Resolved %s to %s", path, candidate)
			}
			return candidate
		}
	}
	return path
}

func (pr *PathResolver) candidates(path string) []string {
	candidates := []string{path}
	if pr.executableDir != "" {
		candidates = append(candidates,
			filepath.Join(pr.executableDir, path),
			filepath.Join(pr.executableDir, "data", path),
		)
	}
	if pr.configDir != "" {
		candidates = append(candidates, filepath.Join(pr.configDir, path))
	}
	return candidates
}
