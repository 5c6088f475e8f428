package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"

	"assistant-console/internal/assistant/orchestrator"
	"assistant-console/internal/common/logger"
)

// MessageHandler is implemented by *orchestrator.Orchestrator.
type MessageHandler interface {
	HandleMessage(ctx context.Context, text, actor string) (*orchestrator.Response, error)
}

type consoleError struct {
	Error string `json:"error"`
}

// runConsole answers one message per input line with one JSON document per
// output line until in is exhausted or ctx is cancelled.
func runConsole(ctx context.Context, in io.Reader, out io.Writer, handler MessageHandler, actor string, log logger.Logger) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	enc := json.NewEncoder(out)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}

			resp, err := handler.HandleMessage(ctx, text, actor)
			if err != nil {
				log.Warn("message rejected", map[string]interface{}{"error": err})
				if encErr := enc.Encode(consoleError{Error: err.Error()}); encErr != nil {
					return encErr
				}
				continue
			}
			if err := enc.Encode(resp); err != nil {
				return err
			}
		}
	}
}
