package server

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/wordcorrect/pkg/config"
	"github.com/bastiangx/wordcorrect/pkg/suggest"
)

// Server handles msgpack IPC over a reader and a writer, normally stdin and
// stdout.
type Server struct {
	svc     *service
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
}

// NewServer creates a server on stdin/stdout. configPath is where config
// updates are saved and reloaded from; it may be empty.
func NewServer(c *suggest.Corrector, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(c, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO is NewServer on arbitrary streams.
func NewServerWithIO(c *suggest.Corrector, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	return &Server{
		svc:     newService(c, cfg, configPath),
		decoder: msgpack.NewDecoder(r),
		encoder: msgpack.NewEncoder(w),
	}
}

// Start signals readiness and serves requests until the input ends. A
// message that cannot be decoded is answered with an error and ends the
// stream, since its framing is lost.
func (s *Server) Start() error {
	log.Debug("Starting IPC server.")
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debug("Input closed, stopping IPC server")
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			return fmt.Errorf("decode request: %w", err)
		}
		if err := s.handleRequest(req); err != nil {
			return err
		}
	}
}

// handleRequest dispatches on the action. Only write failures are returned.
func (s *Server) handleRequest(req Request) error {
	log.Debug("Request", "id", req.ID, "action", req.Action, "words", len(req.Words))

	switch req.Action {
	case ActionCorrect:
		res, took, err := s.svc.correct(req.Words, req.Keyboard, req.ReturnInvalid)
		if err != nil {
			return s.sendError(req.ID, err.Error(), statusCode(err))
		}
		return s.send(CorrectionResponse{ID: req.ID, Results: res, Count: len(res), TimeTaken: took.Microseconds()})

	case ActionTop3:
		res, took, err := s.svc.top3(req.Words, req.Keyboard, req.ReturnInvalid)
		if err != nil {
			return s.sendError(req.ID, err.Error(), statusCode(err))
		}
		return s.send(Top3Response{ID: req.ID, Results: res, Count: len(res), TimeTaken: took.Microseconds()})

	case ActionComplete:
		res, took, err := s.svc.complete(req.Prefix, req.Limit)
		if err != nil {
			return s.sendError(req.ID, err.Error(), statusCode(err))
		}
		suggestions := make([]CompletionSuggestion, len(res))
		for i, r := range res {
			suggestions[i] = CompletionSuggestion{Word: r.Word, Rank: r.Rank}
		}
		return s.send(CompletionResponse{ID: req.ID, Suggestions: suggestions, Count: len(suggestions), TimeTaken: took.Microseconds()})

	case ActionAdd, ActionRemove:
		summary, err := s.svc.edit(req.Action == ActionAdd, req.Words)
		if err != nil {
			return s.send(DictionaryResponse{ID: req.ID, Status: "error", Error: err.Error()})
		}
		return s.send(DictionaryResponse{ID: req.ID, Status: "ok", Summary: &summary})

	case ActionConfig:
		alpha, beta, err := s.svc.updateConfig(req.Alpha, req.Beta, req.Keyboard, req.ReturnInvalid, req.Save)
		if err != nil {
			return s.send(ConfigResponse{ID: req.ID, Status: "error", Error: err.Error()})
		}
		return s.send(ConfigResponse{ID: req.ID, Status: "ok", Alpha: alpha, Beta: beta})

	case ActionStats:
		return s.send(StatsResponse{ID: req.ID, Stats: s.svc.stats()})

	case ActionHealth:
		return s.send(StatusResponse{ID: req.ID, Status: "ok"})

	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown action: %q", req.Action), 400)
	}
}

func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(CompletionError{ID: id, Error: message, Code: code})
}
