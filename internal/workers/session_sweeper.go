// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-invoicer/internal/logger"
	"github.com/MKhiriev/go-invoicer/internal/service"
)

// SessionSweeper deletes expired sessions on a fixed interval. One sweep
// runs right away so that a restart cleans up immediately.
type SessionSweeper struct {
	sessions service.SessionService
	interval time.Duration
	logger   *logger.Logger
}

func NewSessionSweeper(sessions service.SessionService, interval time.Duration, logger *logger.Logger) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		interval: interval,
		logger:   logger,
	}
}

func (s *SessionSweeper) Run(ctx context.Context) {
	s.logger.Info().Dur("interval", s.interval).Msg("session sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("session sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SessionSweeper) sweep(ctx context.Context) {
	removed, err := s.sessions.SweepExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Err(err).Str("func", "*SessionSweeper.sweep").Msg("error sweeping expired sessions")
		}
		return
	}
	if removed > 0 {
		s.logger.Debug().Int64("removed", removed).Msg("expired sessions swept")
	}
}
