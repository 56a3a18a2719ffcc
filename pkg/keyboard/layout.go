// Package keyboard weighs edit distances by the physical distance between keys.
package keyboard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownLayout is returned for a layout name with no built-in rows.
var ErrUnknownLayout = errors.New("unknown keyboard layout")

// Layout is a keyboard described as rows of keys from top to bottom.
// Punctuation is left out of the named layouts; unused slots are spaces so
// the remaining keys keep their column.
type Layout struct {
	Name string
	Rows []string
}

var layouts = map[string][]string{
	"qwerty":  {"1234567890", "qwertyuiop", "asdfghjkl", "zxcvbnm"},
	"azerty":  {"1234567890", "azertyuiop", "qsdfghjklm", "wxcvbn"},
	"qwertz":  {"1234567890", "qwertzuiopü", "asdfghjklöä", "yxcvbnm"},
	"dvorak":  {"1234567890", "'  pyfgcrl", "aoeuidhtns", " qjkxbmwvz"},
	"colemak": {"1234567890", "qwfpgjluy", "arstdhneio", "zxcvbkm"},
}

// DefaultLayout is used when no layout is configured.
const DefaultLayout = "qwerty"

// LayoutByName returns one of the built-in layouts. Names are case-insensitive.
func LayoutByName(name string) (Layout, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultLayout
	}
	rows, ok := layouts[key]
	if !ok {
		return Layout{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownLayout, name, strings.Join(Names(), ", "))
	}
	cp := make([]string, len(rows))
	copy(cp, rows)
	return Layout{Name: key, Rows: cp}, nil
}

// Custom builds a layout from caller supplied rows.
func Custom(rows []string) Layout {
	cp := make([]string, len(rows))
	copy(cp, rows)
	return Layout{Name: "custom", Rows: cp}
}

// Names lists the built-in layouts in sorted order.
func Names() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
