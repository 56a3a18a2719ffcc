package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/wordcorrect/pkg/suggest"
)

var (
	wordStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	queryStyle   = lipgloss.NewStyle().Italic(true)
	invalidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// terminal formats REPL output.
type terminal struct {
	out io.Writer
	log *log.Logger
}

func newTerminal(out io.Writer) *terminal {
	l := log.NewWithOptions(out, log.Options{ReportTimestamp: false})
	styles := log.DefaultStyles()
	styles.Values["mode"] = lipgloss.NewStyle().Bold(true)
	l.SetStyles(styles)
	return &terminal{out: out, log: l}
}

func (t *terminal) banner(mode Mode) {
	t.log.Print("WordCorrect CLI [BETA]")
	t.log.Print("type words and press Enter (:help for commands, Ctrl+D to exit)", "mode", string(mode))
}

func (t *terminal) prompt(mode Mode) {
	fmt.Fprintf(t.out, "%s> ", mode)
}

func (t *terminal) help() {
	t.log.Print("commands:")
	for _, l := range []string{
		":c  :correct        best suggestion per word",
		":t  :top3           three suggestions per word",
		":p  :complete [n]   prefix completions, at most n",
		":k  :keyboard       toggle keyboard distance",
		":d  :details        toggle gram estimates and pick details",
		":add w...           add words",
		":rm w...            remove words",
		":s  :stats          dictionary statistics",
		":q                  quit",
	} {
		t.log.Print("  " + l)
	}
}

func (t *terminal) info(msg string, keyvals ...any) {
	t.log.Print(msg, keyvals...)
}

func (t *terminal) warn(msg string) {
	t.log.Print(invalidStyle.Render(msg))
}

func (t *terminal) correction(c suggest.Correction) {
	switch {
	case c.Invalid:
		t.log.Printf("%s contains characters outside the dictionary alphabet", invalidStyle.Render(c.Query))
	case c.Candidates == 0:
		t.log.Printf("no candidates for %s", queryStyle.Render(c.Query))
	default:
		t.log.Printf("%s -> %s %s", queryStyle.Render(c.Query), wordStyle.Render(c.Suggestion),
			dimStyle.Render(fmt.Sprintf("(score %.3f, tau %.1f, jaccard %.3f, %d candidates)", c.Score, c.Tau, c.Jaccard, c.Candidates)))
	}
}

func (t *terminal) top3(r suggest.TopSuggestions) {
	if r.Invalid {
		t.log.Printf("%s contains characters outside the dictionary alphabet", invalidStyle.Render(r.Query))
		return
	}
	if r.Candidates == 0 {
		t.log.Printf("no candidates for %s", queryStyle.Render(r.Query))
		return
	}
	t.log.Printf("Top suggestions for %s (%d candidates):", queryStyle.Render(r.Query), r.Candidates)
	for i, s := range r.Suggestions {
		if s == "" {
			break
		}
		t.log.Printf("%2d. %-30s (score: %.3f)", i+1, wordStyle.Render(s), r.Scores[i])
	}
}

func (t *terminal) completions(prefix string, suggestions []suggest.Suggestion) {
	if len(suggestions) == 0 {
		t.log.Printf("No completions found for prefix: '%s'", prefix)
		return
	}
	t.log.Printf("Found %d completions for prefix '%s':", len(suggestions), prefix)
	for i, s := range suggestions {
		t.log.Printf("%2d. %-30s (rank: %8s)", i+1, wordStyle.Render(s.Word), formatWithCommas(s.Rank))
	}
}

func (t *terminal) edited(add bool, words []string) {
	verb := "removed"
	if add {
		verb = "added"
	}
	if len(words) == 0 {
		t.log.Printf("nothing %s", verb)
		return
	}
	t.log.Printf("%s %d: %s", verb, len(words), strings.Join(words, ", "))
}

func (t *terminal) stats(stats map[string]int) {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.log.Printf("%-14s %10s", k, formatWithCommas(stats[k]))
	}
}

// formatWithCommas formats an integer with comma separators
func formatWithCommas(n int) string {
	str := fmt.Sprintf("%d", n)
	if n < 1000 && n > -1000 {
		return str
	}
	sign := ""
	if str[0] == '-' {
		sign, str = "-", str[1:]
	}
	var b strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return sign + b.String()
}
