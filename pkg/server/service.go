package server

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/wordcorrect/internal/utils"
	"github.com/bastiangx/wordcorrect/pkg/config"
	"github.com/bastiangx/wordcorrect/pkg/dictionary"
	"github.com/bastiangx/wordcorrect/pkg/suggest"
)

// reloadInterval is how many requests pass between config file reloads.
const reloadInterval = 200

var (
	ErrNoWords       = errors.New("no words in request")
	ErrBatchTooLarge = errors.New("batch too large")
	ErrEmptyPrefix   = errors.New("missing prefix")
	ErrBadRequest    = errors.New("bad request")
)

// service holds what the IPC and HTTP front ends share. Every method takes
// the lock: the Corrector is single-writer, single-reader.
type service struct {
	mu           sync.Mutex
	corrector    *suggest.Corrector
	config       *config.Config
	configPath   string
	requestCount int
}

func newService(c *suggest.Corrector, cfg *config.Config, configPath string) *service {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &service{corrector: c, config: cfg, configPath: configPath}
}

// statusCode maps service errors to HTTP-like codes for both front ends.
func statusCode(err error) int {
	switch {
	case errors.Is(err, ErrNoWords), errors.Is(err, ErrEmptyPrefix), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

func (s *service) checkBatch(words []string) error {
	if len(words) == 0 {
		return ErrNoWords
	}
	if limit := s.config.Server.MaxBatch; limit > 0 && len(words) > limit {
		return fmt.Errorf("%w: %d words, limit is %d", ErrBatchTooLarge, len(words), limit)
	}
	return nil
}

func (s *service) queryOptions(keyboard, returnInvalid *bool) suggest.QueryOptions {
	opts := suggest.QueryOptions{
		UseKeyboard:   s.config.Engine.UseKeyboard,
		ReturnInvalid: s.config.Engine.ReturnInvalid,
		Details:       s.config.CLI.Details,
	}
	if keyboard != nil {
		opts.UseKeyboard = *keyboard
	}
	if returnInvalid != nil {
		opts.ReturnInvalid = *returnInvalid
	}
	return opts
}

// tick counts a request and reloads the config file every reloadInterval.
func (s *service) tick() {
	s.requestCount++
	if s.requestCount%reloadInterval != 0 || s.configPath == "" || !utils.FileExists(s.configPath) {
		return
	}
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		log.Warnf("Config reload failed: %v", err)
		return
	}
	s.config.Engine.UseKeyboard = cfg.Engine.UseKeyboard
	s.config.Engine.ReturnInvalid = cfg.Engine.ReturnInvalid
	s.config.Server.MaxBatch = cfg.Server.MaxBatch
	if a, b := s.corrector.Weights(); a != cfg.Engine.Alpha || b != cfg.Engine.Beta {
		s.config.Engine.Alpha, s.config.Engine.Beta = cfg.Engine.Alpha, cfg.Engine.Beta
		s.corrector.SetWeights(cfg.Engine.Alpha, cfg.Engine.Beta)
	}
	log.Debugf("Reloaded config from %s", s.configPath)
}

func (s *service) correct(words []string, keyboard, returnInvalid *bool) ([]suggest.Correction, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick()

	if err := s.checkBatch(words); err != nil {
		return nil, 0, err
	}
	start := time.Now()
	res, err := s.corrector.Autocorrect(dictionary.Words(words...), s.queryOptions(keyboard, returnInvalid))
	return res, time.Since(start), err
}

func (s *service) top3(words []string, keyboard, returnInvalid *bool) ([]suggest.TopSuggestions, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick()

	if err := s.checkBatch(words); err != nil {
		return nil, 0, err
	}
	start := time.Now()
	res, err := s.corrector.Top3(dictionary.Words(words...), s.queryOptions(keyboard, returnInvalid))
	return res, time.Since(start), err
}

func (s *service) complete(prefix string, limit int) ([]suggest.Suggestion, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick()

	if prefix == "" {
		return nil, 0, ErrEmptyPrefix
	}
	start := time.Now()
	res := s.corrector.Complete(prefix, limit)
	return res, time.Since(start), nil
}

func (s *service) edit(add bool, words []string) (dictionary.EditSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick()

	if err := s.checkBatch(words); err != nil {
		return dictionary.EditSummary{}, err
	}
	var edits dictionary.Edits
	if add {
		edits.Add = []dictionary.Source{dictionary.Words(words...)}
	} else {
		edits.Remove = []dictionary.Source{dictionary.Words(words...)}
	}
	return s.corrector.Apply(edits)
}

// updateConfig changes scoring values. With save set the config file is
// rewritten as well.
func (s *service) updateConfig(alpha, beta *float64, keyboard, returnInvalid *bool, save bool) (float64, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := ""
	if save {
		path = s.configPath
	}
	if err := s.config.Update(path, alpha, beta, keyboard, returnInvalid); err != nil {
		return 0, 0, err
	}
	s.corrector.SetWeights(s.config.Engine.Alpha, s.config.Engine.Beta)
	log.Debug("Config updated", "alpha", s.config.Engine.Alpha, "beta", s.config.Engine.Beta, "saved", path != "")
	return s.config.Engine.Alpha, s.config.Engine.Beta, nil
}

func (s *service) stats() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.corrector.Stats()
	stats["requests"] = s.requestCount
	return stats
}
