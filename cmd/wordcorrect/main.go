// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordcorrect CLI and servers.

Note: This is a BETA release. APIs and functionality may rapidly change.

wordcorrect suggests corrections for misspelled words. Candidates are found
through shared character bigrams and ranked by Jaccard similarity, word
frequency, length and keyboard distance.

# Usage

Correct words or files of words, one per line:

	wordcorrect correct banan applle
	wordcorrect top3 typos.txt -o suggestions.txt

Edit the dictionary for one run and write the result out:

	wordcorrect add kiwi quince -o words.txt

Serve msgpack IPC on stdin/stdout, or JSON over HTTP:

	wordcorrect serve
	wordcorrect http --addr 127.0.0.1:8080

Score outputs against expected answers:

	wordcorrect compare out1.txt out2.txt gold.txt
	wordcorrect compare3 top3.txt out.txt gold.txt

# Configuration

Runtime configuration is read from a TOML file, created with defaults when
missing:

	[engine]
	alpha = 0.2
	beta = 0.35
	precision = 10
	hasher = "xxh3"

	[dict]
	source = "words"
	dir = "data"
	valid_letters = ["a-z"]

	[keyboard]
	layout = "qwerty"

Flags override the file. The dictionary file must be sorted most frequent
word first.
*/
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/bastiangx/wordcorrect/internal/cli"
	"github.com/bastiangx/wordcorrect/internal/logger"
	"github.com/bastiangx/wordcorrect/internal/utils"
	"github.com/bastiangx/wordcorrect/pkg/config"
	"github.com/bastiangx/wordcorrect/pkg/dictionary"
	"github.com/bastiangx/wordcorrect/pkg/report"
	"github.com/bastiangx/wordcorrect/pkg/server"
	"github.com/bastiangx/wordcorrect/pkg/suggest"
)

const (
	Version = "0.1.0-beta"
	AppName = "wordcorrect"
	gh      = "https://github.com/bastiangx/wordcorrect"
)

// global flags
var (
	configPath   string
	debugMode    bool
	dataDir      string
	dictSource   string
	addons       []string
	layoutName   string
	showDetails  bool
	showTimes    bool
	noKeyboard   bool
	noInvalid    bool
	outputPath   string
	addWords     []string
	removeWords  []string
	activeConfig string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           AppName,
		Short:         "Fuzzy autocorrect over a frequency sorted dictionary",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugMode {
				logger.SetGlobal(log.DebugLevel)
				log.SetReportTimestamp(true)
			} else {
				logger.SetGlobal(log.WarnLevel)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config.toml")
	flags.BoolVarP(&debugMode, "debug", "d", false, "Toggle debug mode")
	flags.StringVar(&dataDir, "data", "", "Directory holding dictionary files")
	flags.StringVar(&dictSource, "dict", "", "Main dictionary file, by name or path")
	flags.StringSliceVar(&addons, "addon", nil, "Extra dictionary files appended after the main one")
	flags.StringVar(&layoutName, "layout", "", "Keyboard layout (qwerty, azerty, qwertz, dvorak, colemak)")
	flags.BoolVar(&showDetails, "details", false, "Log per-gram estimates and picks for every query")
	flags.BoolVar(&showTimes, "times", false, "Print timings of dictionary build and queries")
	flags.BoolVar(&noKeyboard, "no-keyboard", false, "Score without keyboard distance")
	flags.BoolVar(&noInvalid, "no-invalid", false, "Print empty lines instead of echoing invalid queries")

	rootCmd.AddCommand(createQueryCmd(false))
	rootCmd.AddCommand(createQueryCmd(true))
	rootCmd.AddCommand(createEditCmd(true))
	rootCmd.AddCommand(createEditCmd(false))
	rootCmd.AddCommand(createReplCmd())
	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createHTTPCmd())
	rootCmd.AddCommand(createCompareCmd(false))
	rootCmd.AddCommand(createCompareCmd(true))
	rootCmd.AddCommand(createConfigCmd())
	rootCmd.AddCommand(createVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, path, err := config.LoadConfigWithPriority(configPath)
	if err != nil {
		return nil, err
	}
	activeConfig = path
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(path))

	if dictSource != "" {
		cfg.Dict.Source = dictSource
	}
	if len(addons) > 0 {
		cfg.Dict.Addons = addons
	}
	if layoutName != "" {
		cfg.Keyboard.Layout = layoutName
		cfg.Keyboard.Rows = nil
	}
	if showDetails {
		cfg.CLI.Details = true
	}
	if showTimes {
		cfg.CLI.Times = true
	}
	if noKeyboard {
		cfg.Engine.UseKeyboard = false
	}
	if noInvalid {
		cfg.Engine.ReturnInvalid = false
	}

	configDir := ""
	if path != "" {
		configDir = filepath.Dir(path)
	}
	resolver, err := utils.NewPathResolver(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize path resolver: %w", err)
	}
	dir := dataDir
	if dir == "" {
		dir = cfg.Dict.Dir
	}
	cfg.Dict.Dir = resolver.GetDataDir(dir)
	log.Debugf("Using data dir at: %s", cfg.Dict.Dir)
	return cfg, nil
}

// buildCorrector loads config and dictionary. Details go to stderr so stdout
// only carries results.
func buildCorrector() (*suggest.Corrector, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	start := time.Now()
	c, err := suggest.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	c.SetLogger(logger.Details(os.Stderr))
	if cfg.CLI.Times {
		logTime("dictionary build", start, "words", c.Store().Len())
	}
	return c, cfg, nil
}

func logTime(phase string, start time.Time, keyvals ...any) {
	logger.Timing(os.Stderr).Info(phase, append([]any{"took", time.Since(start)}, keyvals...)...)
}

// argsSource treats arguments naming existing files as word files and the
// rest as words.
func argsSource(args []string) dictionary.Source {
	parts := make([]dictionary.Source, len(args))
	for i, a := range args {
		if info, err := os.Stat(a); err == nil && info.Mode().IsRegular() {
			parts[i] = dictionary.FilePath(a)
		} else {
			parts[i] = dictionary.Word(a)
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return dictionary.Sources(parts...)
}

// openOutput returns the -o file, or stdout. The closer finishes stdout
// output with a newline.
func openOutput() (io.Writer, func() error, error) {
	if outputPath == "" {
		return os.Stdout, func() error {
			_, err := fmt.Fprintln(os.Stdout)
			return err
		}, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

func applyEdits(c *suggest.Corrector) error {
	edits := dictionary.Edits{}
	if len(addWords) > 0 {
		edits.Add = []dictionary.Source{argsSource(addWords)}
	}
	if len(removeWords) > 0 {
		edits.Remove = []dictionary.Source{argsSource(removeWords)}
	}
	if edits.Empty() {
		return nil
	}
	summary, err := c.Apply(edits)
	if err != nil {
		return err
	}
	log.Debug("Applied edits", "added", len(summary.Added), "removed", len(summary.Removed), "live", summary.Live)
	return nil
}

// createQueryCmd builds "correct", or "top3" when top3 is set.
func createQueryCmd(top3 bool) *cobra.Command {
	use, short := "correct [word|file]...", "Print the best suggestion for every query"
	if top3 {
		use, short = "top3 [word|file]...", "Print three suggestions for every query"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := buildCorrector()
			if err != nil {
				return err
			}
			if err := applyEdits(c); err != nil {
				return err
			}

			out, closeOut, err := openOutput()
			if err != nil {
				return err
			}
			opts := suggest.QueryOptions{
				UseKeyboard:   cfg.Engine.UseKeyboard,
				ReturnInvalid: cfg.Engine.ReturnInvalid,
				Details:       cfg.CLI.Details,
				Output:        out,
			}

			start := time.Now()
			n := 0
			if top3 {
				res, qerr := c.Top3(argsSource(args), opts)
				n, err = len(res), qerr
			} else {
				res, qerr := c.Autocorrect(argsSource(args), opts)
				n, err = len(res), qerr
			}
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			if cfg.CLI.Times {
				logTime("queries", start, "count", n)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write suggestions to this file instead of stdout")
	cmd.Flags().StringSliceVar(&addWords, "add", nil, "Words or files to add before querying")
	cmd.Flags().StringSliceVar(&removeWords, "remove", nil, "Words or files to remove before querying")
	return cmd
}

// createEditCmd builds "add", or "remove" when add is false.
func createEditCmd(add bool) *cobra.Command {
	use, short := "add [word|file]...", "Add words to the dictionary and print a summary"
	if !add {
		use, short = "remove [word|file]...", "Remove words from the dictionary and print a summary"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := buildCorrector()
			if err != nil {
				return err
			}
			var edits dictionary.Edits
			if add {
				edits.Add = []dictionary.Source{argsSource(args)}
			} else {
				edits.Remove = []dictionary.Source{argsSource(args)}
			}
			summary, err := c.Apply(edits)
			if err != nil {
				return err
			}

			changed, verb := summary.Added, "added"
			if !add {
				changed, verb = summary.Removed, "removed"
			}
			fmt.Printf("%s %d: %s\n", verb, len(changed), strings.Join(changed, ", "))
			fmt.Printf("words %d, live %d, tombstones %d, buckets %d\n", summary.Words, summary.Live, summary.Tombstone, summary.Buckets)

			if outputPath == "" {
				return nil
			}
			if err := dictionary.WriteWordFile(outputPath, liveWords(c.Store())); err != nil {
				return err
			}
			fmt.Printf("wrote %d words to %s\n", summary.Live, outputPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the edited dictionary to this file")
	return cmd
}

// liveWords lists display spellings in frequency order, tombstones skipped.
func liveWords(s *dictionary.Store) []string {
	out := make([]string, 0, s.Live())
	for i, w := range s.Words() {
		if s.IsRemoved(i) {
			continue
		}
		if d, ok := s.Display(w); ok {
			w = d
		}
		out = append(out, w)
	}
	return out
}

func createReplCmd() *cobra.Command {
	var (
		mode     string
		limit    int
		noFilter bool
	)
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive prompt for testing corrections",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := buildCorrector()
			if err != nil {
				return err
			}
			log.SetReportTimestamp(false)
			opts := suggest.QueryOptions{
				UseKeyboard:   cfg.Engine.UseKeyboard,
				ReturnInvalid: cfg.Engine.ReturnInvalid,
				Details:       cfg.CLI.Details,
			}
			return cli.NewInputHandler(c, opts, cli.Mode(mode), limit, noFilter).Start()
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(cli.ModeCorrect), "Start mode: correct, top3 or complete")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of completions to show")
	cmd.Flags().BoolVar(&noFilter, "no-filter", false, "Disable input filtering (DBG only)")
	return cmd
}

func createServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve msgpack IPC on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := buildCorrector()
			if err != nil {
				return err
			}
			showStartupInfo(cfg, c)
			return server.NewServer(c, cfg, activeConfig).Start()
		},
	}
}

func createHTTPCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the JSON API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := buildCorrector()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.HTTPAddr = addr
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			showStartupInfo(cfg, c)
			return server.NewHTTPServer(c, cfg, activeConfig).ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

// createCompareCmd builds "compare", or "compare3" when top3 is set.
func createCompareCmd(top3 bool) *cobra.Command {
	use, short := "compare [out1] [out2] [gold]", "Score two suggestion files against expected answers"
	if top3 {
		use, short = "compare3 [top3] [out2] [gold]", "Score a top-3 file and a suggestion file against expected answers"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if top3 {
				_, err = report.Compare3(os.Stdout, args[0], args[1], args[2])
			} else {
				_, err = report.Compare(os.Stdout, args[0], args[1], args[2])
			}
			return err
		},
	}
}

func createConfigCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the active config file, or rebuild it with defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if reset {
				if err := config.RebuildConfigFile(); err != nil {
					return fmt.Errorf("failed to rebuild config: %w", err)
				}
				path, _ := config.GetDefaultConfigPath()
				fmt.Printf("rebuilt config at %s\n", path)
				return nil
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			fmt.Println(config.GetActiveConfigPath(activeConfig))
			fmt.Printf("alpha %.2f, beta %.2f, precision %d, hasher %s, layout %s\n",
				cfg.Engine.Alpha, cfg.Engine.Beta, cfg.Engine.Precision, cfg.Engine.Hasher, cfg.Keyboard.Layout)
			fmt.Printf("dictionary %q in %s\n", cfg.Dict.Source, cfg.Dict.Dir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Overwrite the default config.toml with built-in defaults")
	return cmd
}

func createVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show current version",
		Run: func(cmd *cobra.Command, args []string) {
			l := log.NewWithOptions(os.Stderr, log.Options{
				ReportCaller:    false,
				ReportTimestamp: false,
				Prefix:          "",
			})

			styles := log.DefaultStyles()
			styles.Values["version"] = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
			styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
				Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
			l.SetStyles(styles)

			l.Print("")
			l.Print("[ WordCorrect ] Fuzzy autocorrect with keyboard aware ranking")
			l.Print("", "version", Version)
			l.Print("")
			l.Print("use -h or --help to see available options")
			l.Print("Github Repo", "gh", gh)
		},
	}
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(cfg *config.Config, c *suggest.Corrector) {
	l := logger.Stderr("")
	l.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "=============")
	fmt.Fprintln(os.Stderr, " WordCorrect ")
	fmt.Fprintln(os.Stderr, "=============")
	l.Infof("Version: %s", Version)
	l.Infof("Process ID: [ %d ]", os.Getpid())
	l.Infof("dictionary: %d words from ( %s )", c.Store().Len(), cfg.Dict.Dir)
	l.Infof("keyboard: %s", c.Metric().Layout().Name)
	l.Info("status: ready")
	fmt.Fprintln(os.Stderr, "=============")
}
