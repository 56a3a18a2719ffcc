package dictionary

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SourceKind tells which variant a Source holds.
type SourceKind int

const (
	KindWord SourceKind = iota
	KindWords
	KindFile
	KindMulti
)

// Source is where words come from: one word, a list of words, a
// newline-delimited file or a sequence of other sources.
type Source struct {
	kind  SourceKind
	word  string
	words []string
	path  string
	parts []Source
}

// Word is a single-word source.
func Word(w string) Source {
	return Source{kind: KindWord, word: w}
}

// Words is an in-memory list source.
func Words(ws ...string) Source {
	return Source{kind: KindWords, words: ws}
}

// FilePath reads one word per line from path.
func FilePath(path string) Source {
	return Source{kind: KindFile, path: path}
}

// Sources concatenates several sources in order.
func Sources(parts ...Source) Source {
	return Source{kind: KindMulti, parts: parts}
}

func (s Source) Kind() SourceKind {
	return s.kind
}

func (s Source) String() string {
	switch s.kind {
	case KindWord:
		return fmt.Sprintf("word(%q)", s.word)
	case KindWords:
		return fmt.Sprintf("words(%d)", len(s.words))
	case KindFile:
		return fmt.Sprintf("file(%s)", s.path)
	case KindMulti:
		names := make([]string, len(s.parts))
		for i, p := range s.parts {
			names[i] = p.String()
		}
		return "[" + strings.Join(names, ", ") + "]"
	}
	return "unknown"
}

// raw returns the entries of the source before normalization.
func (s Source) raw() ([]string, error) {
	switch s.kind {
	case KindWord:
		return []string{s.word}, nil
	case KindWords:
		return s.words, nil
	case KindFile:
		return ReadWordFile(s.path)
	case KindMulti:
		var all []string
		for _, p := range s.parts {
			entries, err := p.raw()
			if err != nil {
				return nil, err
			}
			all = append(all, entries...)
		}
		return all, nil
	}
	return nil, fmt.Errorf("unknown source kind %d", s.kind)
}

// WordList is a loaded source. Words and Originals are parallel and keep
// source order and duplicates; Display maps each canonical word to the last
// original spelling seen for it.
type WordList struct {
	Words     []string
	Originals []string
	Display   map[string]string
}

func (wl WordList) Len() int {
	return len(wl.Words)
}

// Load resolves src into canonical words. Entries are NFC-normalized and
// lowercased; blank entries are skipped and, when letters is not empty,
// entries with characters outside it are dropped.
func Load(src Source, letters *Letters) (WordList, error) {
	entries, err := src.raw()
	if err != nil {
		return WordList{}, fmt.Errorf("failed to load %s: %w", src, err)
	}

	wl := WordList{
		Words:     make([]string, 0, len(entries)),
		Originals: make([]string, 0, len(entries)),
		Display:   make(map[string]string, len(entries)),
	}
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		original := norm.NFC.String(entry)
		canonical := strings.ToLower(original)
		if !letters.Valid(canonical) {
			continue
		}
		wl.Words = append(wl.Words, canonical)
		wl.Originals = append(wl.Originals, original)
		wl.Display[canonical] = original
	}
	return wl, nil
}
