package dictionary

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Loader resolves a main dictionary file plus optional addon files into a
// single Source. Addon words are appended after the main list, so they rank
// as less frequent.
type Loader struct {
	dirPath string
	main    string
	addons  []string
}

// FileInfo describes one resolved dictionary file.
type FileInfo struct {
	Name  string
	Path  string
	Addon bool
}

// NewLoader creates a loader. Relative names are looked up in dirPath first,
// then the working directory.
func NewLoader(dirPath, main string, addons []string) *Loader {
	return &Loader{
		dirPath: dirPath,
		main:    main,
		addons:  addons,
	}
}

// resolve finds name on disk. A name without extension also matches
// "<name>.txt".
func (l *Loader) resolve(name string) (string, error) {
	var candidates []string
	if filepath.IsAbs(name) {
		candidates = append(candidates, name)
	} else {
		if l.dirPath != "" {
			candidates = append(candidates, filepath.Join(l.dirPath, name))
		}
		candidates = append(candidates, name)
	}
	if filepath.Ext(name) == "" {
		n := len(candidates)
		for i := 0; i < n; i++ {
			candidates = append(candidates, candidates[i]+".txt")
		}
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.Mode().IsRegular() {
			return c, nil
		}
	}
	return "", fmt.Errorf("dictionary file %q not found (tried %v): %w", name, candidates, os.ErrNotExist)
}

// Files resolves and validates every configured file in load order.
func (l *Loader) Files() ([]FileInfo, error) {
	if l.main == "" {
		return nil, fmt.Errorf("no dictionary source configured")
	}

	names := append([]string{l.main}, l.addons...)
	files := make([]FileInfo, 0, len(names))
	for i, name := range names {
		path, err := l.resolve(name)
		if err != nil {
			return nil, err
		}
		if err := ValidateWordFile(path); err != nil {
			return nil, err
		}
		files = append(files, FileInfo{Name: name, Path: path, Addon: i > 0})
	}
	return files, nil
}

// Source returns the files as one concatenated source.
func (l *Loader) Source() (Source, error) {
	files, err := l.Files()
	if err != nil {
		return Source{}, err
	}

	parts := make([]Source, len(files))
	for i, f := range files {
		parts[i] = FilePath(f.Path)
		if f.Addon {
			log.Debugf("Using addon dictionary %s", f.Path)
		}
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return Sources(parts...), nil
}
