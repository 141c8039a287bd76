// Package sse decodes the clarification assistant's streaming responses:
// newline-delimited `data: <json>` frames closed by a `[DONE]` marker.
package sse

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// EventType classifies a stream frame.
type EventType string

// Frame types emitted by the assistant.
const (
	EventContent EventType = "content"
	EventState   EventType = "state"
	EventError   EventType = "error"
)

// Event is one decoded frame.
type Event struct {
	Type    EventType `json:"type"`
	Content string    `json:"content,omitempty"`
	State   string    `json:"state,omitempty"`
	Message string    `json:"message,omitempty"`
}

// doneMarker terminates the stream.
const doneMarker = "[DONE]"

// Stream reads frames from r and invokes fn for each decoded event until
// the stream ends, the [DONE] marker arrives, or fn returns an error.
// Lines without a data: prefix and undecodable frames are ignored.
func Stream(r io.Reader, fn func(Event) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == doneMarker {
			return nil
		}

		var ev Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			continue
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}
