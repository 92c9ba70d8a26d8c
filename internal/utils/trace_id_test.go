package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestTraceIDSource_Generate(t *testing.T) {
	id := NewTraceIDSource().Generate()

	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("expected valid uuid, got %q: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected version 7, got %d", parsed.Version())
	}
}

func TestTraceIDSource_GenerateFallsBackToV4(t *testing.T) {
	s := &TraceIDSource{newID: func() (uuid.UUID, error) { return uuid.Nil, errors.New("no clock") }}

	parsed, err := uuid.Parse(s.Generate())
	if err != nil {
		t.Fatalf("expected valid uuid: %v", err)
	}
	if parsed.Version() != 4 {
		t.Errorf("expected version 4, got %d", parsed.Version())
	}
}

func TestTraceIDSource_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "caller id", incoming: "trace-abc-123", keep: true},
		{name: "id at the limit", incoming: strings.Repeat("y", MaxTraceIDLength), keep: true},
		{name: "empty"},
		{name: "oversized", incoming: strings.Repeat("x", MaxTraceIDLength+1)},
		{name: "line break", incoming: "abc\n{\"level\":\"error\"}"},
		{name: "space", incoming: "two words"},
		{name: "non ascii", incoming: "trace-ü"},
	}

	s := NewTraceIDSource()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Resolve(tt.incoming)
			if tt.keep {
				if got != tt.incoming {
					t.Errorf("expected %q to be kept, got %q", tt.incoming, got)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("expected a generated uuid, got %q", got)
			}
		})
	}
}
