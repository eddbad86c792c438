package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"go-ensemble/pkg/client"
	"go-ensemble/pkg/memory/buffer"
	"go-ensemble/pkg/models"
)

const saveFile = "last_response.json"

// generator is the part of client.Client a session needs.
type generator interface {
	Generate(ctx context.Context, req models.GenerateRequest) (*models.GenerateResponse, error)
}

type session struct {
	gen        generator
	out        io.Writer
	history    buffer.Conversation
	showReview bool
	saveNext   bool
	savePath   string
}

func runInteractive(ctx context.Context, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c := newClient()
	if h, err := c.Health(ctx); err != nil {
		color.New(color.FgYellow).Fprintf(out, "health check failed: %v\n", err)
	} else {
		color.New(color.FgGreen).Fprintf(out, "connected to %s (%s)\n", serverURL, h.Status)
	}
	fmt.Fprintln(out, "type /exit to quit, /reset to clear history, /save to keep the next response")

	s := &session{gen: c, out: out, showReview: showReview, savePath: saveFile}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		color.New(color.FgCyan, color.Bold).Fprint(out, "\nyou> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if quit := s.handle(ctx, scanner.Text()); quit {
			return nil
		}
	}
}

// handle processes one input line and reports whether the session should end.
func (s *session) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return false
	case "/exit", "/quit":
		fmt.Fprintln(s.out, "bye")
		return true
	case "/reset":
		s.history.Reset()
		fmt.Fprintln(s.out, "history cleared")
		return false
	case "/save":
		s.saveNext = true
		fmt.Fprintf(s.out, "the next response will be written to %s\n", s.savePath)
		return false
	}

	s.history.Add(models.User, line)
	resp, err := s.gen.Generate(ctx, models.GenerateRequest{Messages: s.history.Messages()})
	if err != nil {
		s.history.DropLastUser()
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			color.New(color.FgRed).Fprintf(s.out, "error %d: %s\n", apiErr.Status, apiErr.Message)
		} else {
			color.New(color.FgRed).Fprintf(s.out, "error: %v\n", err)
		}
		return false
	}
	s.history.Add(models.Assistant, resp.FinalAnswer)

	text, err := renderAnswer(resp, s.showReview)
	if err != nil {
		color.New(color.FgRed).Fprintf(s.out, "%v\n", err)
		return false
	}
	fmt.Fprint(s.out, text)

	if s.saveNext {
		s.saveNext = false
		if err := writeResponse(s.savePath, resp); err != nil {
			color.New(color.FgRed).Fprintf(s.out, "%v\n", err)
		} else {
			fmt.Fprintf(s.out, "saved to %s\n", s.savePath)
		}
	}
	return false
}

func writeResponse(path string, resp *models.GenerateResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
