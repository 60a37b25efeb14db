package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/masaki925/marcov-rap/internal/logger"
	"github.com/masaki925/marcov-rap/pkg/generate"
	uuid "github.com/satori/go.uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// IPC serves generation requests over a msgpack stream.
type IPC struct {
	gen  Generator
	opts Options
	dec  *msgpack.Decoder
	enc  *msgpack.Encoder
	log  *log.Logger
}

// NewIPC creates a server reading requests from r and writing replies to w.
func NewIPC(gen Generator, r io.Reader, w io.Writer, opts Options) *IPC {
	return &IPC{
		gen:  gen,
		opts: opts,
		dec:  msgpack.NewDecoder(r),
		enc:  msgpack.NewEncoder(w),
		log:  logger.New("ipc"),
	}
}

// Start announces readiness and serves requests until end of input.
func (s *IPC) Start(ctx context.Context) error {
	s.log.Debug("Starting IPC server")
	if err := s.send(map[string]string{"status": "ready"}); err != nil {
		return err
	}
	for {
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Errorf("Reading request: %v", err)
			return err
		}
		var req RapRequest
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.log.Errorf("Unmarshaling request: %v", err)
			s.sendError("", "invalid msgpack request", 400)
			continue
		}
		s.handle(ctx, req)
	}
}

func (s *IPC) handle(ctx context.Context, req RapRequest) {
	if req.ID == "" {
		req.ID = uuid.NewV4().String()
	}
	if req.Verse == "" {
		s.sendError(req.ID, "missing verse", 400)
		return
	}
	if s.opts.MaxVerse > 0 && utf8.RuneCountInString(req.Verse) > s.opts.MaxVerse {
		s.sendError(req.ID, fmt.Sprintf("verse exceeds %d characters", s.opts.MaxVerse), 400)
		return
	}
	mode := req.Mode
	if mode == "" {
		mode = s.opts.Mode
	}

	start := time.Now()
	text, err := s.gen.Generate(ctx, mode, req.Verse)
	elapsed := time.Since(start)
	if errors.Is(err, generate.ErrUnknownMode) {
		s.sendError(req.ID, err.Error(), 400)
		return
	}
	if err != nil {
		s.log.Error("Generation failed", "id", req.ID, "err", err)
		s.sendError(req.ID, err.Error(), 500)
		return
	}
	s.log.Debug("Generated", "id", req.ID, "mode", mode, "took", elapsed)
	s.send(RapResponse{ID: req.ID, Text: text, TimeTaken: elapsed.Milliseconds()})
}

func (s *IPC) send(v any) error {
	if err := s.enc.Encode(v); err != nil {
		s.log.Errorf("Encoding response: %v", err)
		return err
	}
	return nil
}

func (s *IPC) sendError(id, message string, code int) {
	s.send(RapError{ID: id, Error: message, Code: code})
}
