package utils

import (
	"strings"

	"github.com/google/uuid"
)

// MaxTraceIDLength bounds trace ids accepted from callers.
const MaxTraceIDLength = 128

// TraceIDSource hands out the trace ids that tag request logs. Ids sent by
// callers are kept when they are short printable ASCII, so one id can follow
// a request across services; anything else is replaced.
type TraceIDSource struct {
	newID func() (uuid.UUID, error)
}

func NewTraceIDSource() *TraceIDSource {
	return &TraceIDSource{newID: uuid.NewV7}
}

// Resolve returns incoming when it is usable as a trace id and a fresh id
// otherwise.
func (s *TraceIDSource) Resolve(incoming string) string {
	if acceptableTraceID(incoming) {
		return incoming
	}
	return s.Generate()
}

// Generate returns a time-ordered UUIDv7, or a random v4 when the clock
// cannot be read.
func (s *TraceIDSource) Generate() string {
	id, err := s.newID()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func acceptableTraceID(id string) bool {
	if id == "" || len(id) > MaxTraceIDLength {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool { return r <= ' ' || r > '~' }) < 0
}
