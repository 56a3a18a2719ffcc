package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/bastiangx/wordcorrect/pkg/config"
	"github.com/bastiangx/wordcorrect/pkg/suggest"
)

const shutdownTimeout = 5 * time.Second

// WordsRequest is the body of correct, top3 and dictionary edit calls.
type WordsRequest struct {
	Words         []string `json:"words"`
	Keyboard      *bool    `json:"keyboard,omitempty"`
	ReturnInvalid *bool    `json:"return_invalid,omitempty"`
}

// ConfigRequest is the body of PATCH /v1/config.
type ConfigRequest struct {
	Alpha         *float64 `json:"alpha,omitempty"`
	Beta          *float64 `json:"beta,omitempty"`
	Keyboard      *bool    `json:"keyboard,omitempty"`
	ReturnInvalid *bool    `json:"return_invalid,omitempty"`
	Save          bool     `json:"save,omitempty"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// HTTPServer serves the Corrector as a JSON API.
type HTTPServer struct {
	svc    *service
	router *mux.Router
	addr   string
	cfg    config.ServerConfig
}

// NewHTTPServer builds the router. The listen address and timeouts come
// from cfg.Server.
func NewHTTPServer(c *suggest.Corrector, cfg *config.Config, configPath string) *HTTPServer {
	svc := newService(c, cfg, configPath)
	h := &HTTPServer{
		svc:    svc,
		router: mux.NewRouter(),
		addr:   svc.config.Server.HTTPAddr,
		cfg:    svc.config.Server,
	}
	h.routes()
	return h
}

func (h *HTTPServer) routes() {
	// Routes live on the root router so a method mismatch answers 405.
	r := h.router
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/v1/correct", h.handleCorrect).Methods(http.MethodPost)
	r.HandleFunc("/v1/top3", h.handleTop3).Methods(http.MethodPost)
	r.HandleFunc("/v1/complete", h.handleComplete).Methods(http.MethodGet)
	r.HandleFunc("/v1/words", h.handleEdit(true)).Methods(http.MethodPost)
	r.HandleFunc("/v1/words", h.handleEdit(false)).Methods(http.MethodDelete)
	r.HandleFunc("/v1/config", h.handleConfig).Methods(http.MethodPatch)
	r.HandleFunc("/v1/stats", h.handleStats).Methods(http.MethodGet)
	r.Use(logRequests)
}

// Handler exposes the router, mainly for tests.
func (h *HTTPServer) Handler() http.Handler {
	return h.router
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (h *HTTPServer) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         h.addr,
		Handler:      h.router,
		ReadTimeout:  time.Duration(h.cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(h.cfg.WriteTimeout) * time.Millisecond,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP server listening on %s", h.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("Shutting down HTTP server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug("HTTP", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := statusCode(err)
	writeJSON(w, code, ErrorResponse{Error: err.Error(), Status: code})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", ErrBadRequest, err)
	}
	return nil
}

func (h *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPServer) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req WordsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, took, err := h.svc.correct(req.Words, req.Keyboard, req.ReturnInvalid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": res, "count": len(res), "time_us": took.Microseconds()})
}

func (h *HTTPServer) handleTop3(w http.ResponseWriter, r *http.Request) {
	var req WordsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, took, err := h.svc.top3(req.Words, req.Keyboard, req.ReturnInvalid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": res, "count": len(res), "time_us": took.Microseconds()})
}

func (h *HTTPServer) handleComplete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil {
			writeError(w, fmt.Errorf("%w: limit must be an integer", ErrBadRequest))
			return
		}
		limit = n
	}
	res, took, err := h.svc.complete(q.Get("prefix"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": res, "count": len(res), "time_us": took.Microseconds()})
}

func (h *HTTPServer) handleEdit(add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req WordsRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, err)
			return
		}
		summary, err := h.svc.edit(add, req.Words)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func (h *HTTPServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	alpha, beta, err := h.svc.updateConfig(req.Alpha, req.Beta, req.Keyboard, req.ReturnInvalid, req.Save)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"alpha": alpha, "beta": beta})
}

func (h *HTTPServer) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.stats())
}
