package sse

import (
	"errors"
	"strings"
	"testing"
)

func TestStream_ContentFrames(t *testing.T) {
	input := strings.Join([]string{
		`data: {"type":"content","content":"hello "}`,
		``,
		`: comment line`,
		`data: {"type":"content","content":"world"}`,
		`data: [DONE]`,
		`data: {"type":"content","content":"after done"}`,
	}, "\n")

	var got strings.Builder
	err := Stream(strings.NewReader(input), func(ev Event) error {
		got.WriteString(ev.Content)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", got.String())
	}
}

func TestStream_StateAndErrorFrames(t *testing.T) {
	input := strings.Join([]string{
		`data: {"type":"state","state":"thinking"}`,
		`data: {"type":"error","message":"quota exceeded"}`,
	}, "\n")

	var events []Event
	err := Stream(strings.NewReader(input), func(ev Event) error {
		events = append(events, ev)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != EventState || events[0].State != "thinking" {
		t.Errorf("unexpected state event: %+v", events[0])
	}
	if events[1].Type != EventError || events[1].Message != "quota exceeded" {
		t.Errorf("unexpected error event: %+v", events[1])
	}
}

func TestStream_UndecodableFramesIgnored(t *testing.T) {
	input := strings.Join([]string{
		`data: not json at all`,
		`data: {"type":"content","content":"ok"}`,
	}, "\n")

	count := 0
	err := Stream(strings.NewReader(input), func(ev Event) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 event, got %d", count)
	}
}

func TestStream_CallbackErrorAborts(t *testing.T) {
	input := strings.Join([]string{
		`data: {"type":"content","content":"a"}`,
		`data: {"type":"content","content":"b"}`,
	}, "\n")

	stop := errors.New("stop")
	count := 0
	err := Stream(strings.NewReader(input), func(ev Event) error {
		count++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("expected callback error, got %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 callback before abort, got %d", count)
	}
}

func TestStream_EOFWithoutDoneIsClean(t *testing.T) {
	err := Stream(strings.NewReader(`data: {"type":"content","content":"x"}`), func(Event) error {
		return nil
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
