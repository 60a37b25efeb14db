package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/invopop/jsonschema"
	"github.com/masaki925/marcov-rap/internal/logger"
	"github.com/masaki925/marcov-rap/pkg/generate"
	uuid "github.com/satori/go.uuid"
)

const maxBody = 1 << 20

// HTTP serves the generator over HTTP.
type HTTP struct {
	gen    Generator
	opts   Options
	log    *log.Logger
	schema []byte
}

// NewHTTP creates the HTTP front end.
func NewHTTP(gen Generator, opts Options) (*HTTP, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema, err := json.MarshalIndent(reflector.Reflect(&HTTPRequest{}), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("request schema: %w", err)
	}
	return &HTTP{gen: gen, opts: opts, log: logger.New("http"), schema: schema}, nil
}

// Handler returns the routes.
func (h *HTTP) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleHealth)
	mux.HandleFunc("POST /rap", h.handleRap)
	mux.HandleFunc("GET /schema", h.handleSchema)
	return mux
}

// ListenAndServe serves on addr until ctx is done.
func (h *HTTP) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	h.log.Infof("Listening on %s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (h *HTTP) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "marcov-rap ready")
}

func (h *HTTP) handleSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.Write(h.schema)
}

func (h *HTTP) handleRap(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewV4().String()
	req, err := decodeRequest(w, r)
	if err != nil {
		h.log.Debug("Bad request", "id", id, "err", err)
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Verse == "" {
		writeText(w, http.StatusBadRequest, "missing verse")
		return
	}
	if h.opts.MaxVerse > 0 && utf8.RuneCountInString(req.Verse) > h.opts.MaxVerse {
		writeText(w, http.StatusBadRequest, fmt.Sprintf("verse exceeds %d characters", h.opts.MaxVerse))
		return
	}
	mode := req.Mode
	if mode == "" {
		mode = h.opts.Mode
	}

	start := time.Now()
	text, err := h.gen.Generate(r.Context(), mode, req.Verse)
	if errors.Is(err, generate.ErrUnknownMode) {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.log.Error("Generation failed", "id", id, "err", err)
		writeText(w, http.StatusInternalServerError, "generation failed")
		return
	}
	h.log.Debug("Generated", "id", id, "mode", mode, "took", time.Since(start))
	writeText(w, http.StatusOK, text)
}

// decodeRequest reads a form post or a JSON body.
func decodeRequest(w http.ResponseWriter, r *http.Request) (HTTPRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return HTTPRequest{Verse: r.FormValue("verse"), Mode: r.FormValue("mode")}, nil
	}
	var req HTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, errors.New("empty body")
		}
		return req, fmt.Errorf("invalid json: %w", err)
	}
	return req, nil
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, text)
}
