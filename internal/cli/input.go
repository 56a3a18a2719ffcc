// Package cli runs an interactive prompt over a Corrector for testing and
// debugging corrections in real time.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/wordcorrect/internal/utils"
	"github.com/bastiangx/wordcorrect/pkg/dictionary"
	"github.com/bastiangx/wordcorrect/pkg/suggest"
)

// Mode selects what a plain input line is run through.
type Mode string

const (
	ModeCorrect  Mode = "correct"
	ModeTop3     Mode = "top3"
	ModeComplete Mode = "complete"
)

// InputHandler reads words from the user and prints suggestions. Lines
// starting with ':' are commands, see help.
type InputHandler struct {
	corrector suggest.ICorrector
	opts      suggest.QueryOptions
	mode      Mode
	limit     int
	noFilter  bool
	in        io.Reader
	term      *terminal
}

// NewInputHandler handles initialization of the InputHandler on stdin/stdout.
func NewInputHandler(corrector suggest.ICorrector, opts suggest.QueryOptions, mode Mode, limit int, noFilter bool) *InputHandler {
	return NewInputHandlerWithIO(corrector, opts, mode, limit, noFilter, os.Stdin, os.Stdout)
}

// NewInputHandlerWithIO is NewInputHandler on arbitrary streams.
func NewInputHandlerWithIO(corrector suggest.ICorrector, opts suggest.QueryOptions, mode Mode, limit int, noFilter bool, in io.Reader, out io.Writer) *InputHandler {
	if mode == "" {
		mode = ModeCorrect
	}
	// results are printed by the handler, not streamed by the corrector
	opts.Output = nil
	return &InputHandler{
		corrector: corrector,
		opts:      opts,
		mode:      mode,
		limit:     limit,
		noFilter:  noFilter,
		in:        in,
		term:      newTerminal(out),
	}
}

// Start begins the interface loop. It returns nil when the input ends or on
// ":q".
func (h *InputHandler) Start() error {
	h.term.banner(h.mode)
	reader := bufio.NewReader(h.in)

	for {
		h.term.prompt(h.mode)
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			if quit := h.handleLine(line); quit {
				return nil
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// handleLine runs one command or query and reports whether to quit.
func (h *InputHandler) handleLine(line string) bool {
	if strings.HasPrefix(line, ":") {
		return h.handleCommand(strings.Fields(line[1:]))
	}
	for _, word := range strings.Fields(line) {
		h.handleInput(word)
	}
	return false
}

func (h *InputHandler) handleCommand(fields []string) bool {
	if len(fields) == 0 {
		h.term.help()
		return false
	}
	args := fields[1:]

	switch fields[0] {
	case "q", "quit", "exit":
		return true
	case "c", "correct":
		h.setMode(ModeCorrect)
	case "t", "top3":
		h.setMode(ModeTop3)
	case "p", "complete":
		h.setMode(ModeComplete)
		if len(args) > 0 {
			if n, err := strconv.Atoi(args[0]); err == nil {
				h.limit = n
			}
		}
	case "k", "keyboard":
		h.opts.UseKeyboard = !h.opts.UseKeyboard
		h.term.info("keyboard distance", "on", h.opts.UseKeyboard)
	case "d", "details":
		h.opts.Details = !h.opts.Details
		h.term.info("details", "on", h.opts.Details)
	case "add":
		h.edit(true, args)
	case "rm", "remove":
		h.edit(false, args)
	case "s", "stats":
		h.term.stats(h.corrector.Stats())
	default:
		h.term.help()
	}
	return false
}

func (h *InputHandler) setMode(m Mode) {
	h.mode = m
	h.term.info("mode", "mode", string(m))
}

func (h *InputHandler) edit(add bool, words []string) {
	if len(words) == 0 {
		h.term.warn("no words given")
		return
	}
	src := dictionary.Words(words...)
	var (
		changed []string
		err     error
	)
	if add {
		changed, err = h.corrector.AddWords(src)
	} else {
		changed, err = h.corrector.RemoveWords(src)
	}
	if err != nil {
		h.term.warn(err.Error())
		return
	}
	h.term.edited(add, changed)
}

// handleInput runs a single word through the current mode.
func (h *InputHandler) handleInput(word string) {
	if !h.noFilter && !utils.IsValidInput(word) {
		h.term.warn(fmt.Sprintf("skipping '%s' (filtered out)", word))
		return
	}

	start := time.Now()
	switch h.mode {
	case ModeTop3:
		res, err := h.corrector.Top3(dictionary.Word(word), h.opts)
		if err != nil {
			h.term.warn(err.Error())
			return
		}
		h.term.top3(res[0])
	case ModeComplete:
		h.term.completions(word, h.corrector.Complete(word, h.limit))
	default:
		res, err := h.corrector.Autocorrect(dictionary.Word(word), h.opts)
		if err != nil {
			h.term.warn(err.Error())
			return
		}
		h.term.correction(res[0])
	}
	log.Debugf("Took [ %v ] for '%s'", time.Since(start), word)
}
