// Package cli runs an interactive prompt loop for trying generation by hand.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/masaki925/marcov-rap/pkg/server"
)

// InputHandler reads verses line by line and prints the generated reply.
// A line starting with ":" switches the mode, e.g. ":reverse".
type InputHandler struct {
	gen          server.Generator
	mode         string
	in           io.Reader
	out          io.Writer
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(gen server.Generator, mode string, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{gen: gen, mode: mode, in: in, out: out}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line and passes the trimmed
// input to handleInput. The loop ends at end of input.
func (h *InputHandler) Start(ctx context.Context) error {
	log.Print("marcov-rap CLI")
	log.Print("type a verse and press Enter (Ctrl+C to exit):")
	reader := bufio.NewReader(h.in)

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleInput(ctx, line)
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// handleInput generates a reply for one verse and prints it.
func (h *InputHandler) handleInput(ctx context.Context, verse string) {
	if mode, ok := strings.CutPrefix(verse, ":"); ok {
		h.mode = mode
		log.Infof("mode: %s", mode)
		return
	}
	h.requestCount++
	start := time.Now()
	text, err := h.gen.Generate(ctx, h.mode, verse)
	if err != nil {
		log.Errorf("Generation failed: %v", err)
		return
	}
	log.Debugf("Took [ %v ] for request #%d", time.Since(start), h.requestCount)
	fmt.Fprintln(h.out, text)
}
