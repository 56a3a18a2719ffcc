package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// maxLineSize bounds a single line of a word file.
const maxLineSize = 1 << 20

// ValidateWordFile checks that filename exists, is a regular file and can be
// opened for reading.
func ValidateWordFile(filename string) error {
	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", filename)
	}

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	return file.Close()
}

// ReadWordFile reads a newline-delimited word list. Lines are trimmed and
// blank lines skipped.
func ReadWordFile(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	log.Debugf("Read %d entries from %s", len(words), filename)
	return words, nil
}

// WriteWordFile writes words one per line, joined by "\n" with no trailing
// newline.
func WriteWordFile(filename string, words []string) error {
	if err := os.WriteFile(filename, []byte(strings.Join(words, "\n")), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
