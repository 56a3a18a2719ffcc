package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// PathResolver finds the directory holding dictionary word lists.
type PathResolver struct {
	executableDir string
	configDir     string
}

// NewPathResolver resolves the executable location. configDir may be empty.
func NewPathResolver(configDir string) (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	// Resolve symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		configDir:     configDir,
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", pr.executableDir, configDir)
	return pr, nil
}

// candidates lists the places a data dir is looked up, in order:
// 1. the given path if absolute
// 2. relative to the working directory
// 3. relative to the executable
// 4. data/ next to the executable, its parent or the config dir
func (pr *PathResolver) candidates(userPath string) []string {
	var paths []string
	if filepath.IsAbs(userPath) {
		return append(paths, userPath)
	}
	if userPath != "" {
		if cwd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(cwd, userPath))
		}
		paths = append(paths, filepath.Join(pr.executableDir, userPath))
	}
	paths = append(paths,
		filepath.Join(pr.executableDir, "data"),
		filepath.Join(filepath.Dir(pr.executableDir), "data"),
	)
	if pr.configDir != "" {
		paths = append(paths, filepath.Join(pr.configDir, "data"))
	}
	return paths
}

// GetDataDir returns the first candidate holding at least one .txt word
// list. When none does, the first candidate is returned so errors name a
// sensible path.
func (pr *PathResolver) GetDataDir(userPath string) string {
	paths := pr.candidates(userPath)
	for _, path := range paths {
		if isValidDataDir(path) {
			log.Debugf("Found valid data directory: %s", path)
			return path
		}
		log.Debugf("Data directory candidate not valid: %s", path)
	}
	return paths[0]
}

func isValidDataDir(path string) bool {
	if stat, err := os.Stat(path); err != nil || !stat.IsDir() {
		return false
	}
	matches, err := filepath.Glob(filepath.Join(path, "*.txt"))
	return err == nil && len(matches) > 0
}
