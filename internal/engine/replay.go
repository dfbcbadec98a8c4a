package engine

import (
	"context"
	"fmt"

	"dungeon-core/internal/domain"

	"github.com/sirupsen/logrus"
)

// Playback повторяет записанную партию на сессии, созданной с тем же
// сидом. Перед каждой командой мир доводится до хода, на котором она
// была исполнена: бесплатные команды исполняются сразу, остальные
// отдаются планировщику по одной.
func (s *Session) Playback(ctx context.Context, rec *domain.ReplaySession) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Seed != s.Seed {
		return s.status, fmt.Errorf("replay seed %d does not match session seed %d", rec.Seed, s.Seed)
	}
	s.log.WithField("actions", len(rec.Actions)).Info("Playback started")

	for i, act := range rec.Actions {
		if err := ctx.Err(); err != nil {
			return StatusCancelled, err
		}
		if s.status == StatusDead {
			s.log.WithField("action", i).Warn("Player died before the recording ended")
			break
		}
		if act.Turn > s.World.Turn {
			s.status = s.Sched.Run(ctx)
			s.flushTelemetry()
		}
		if s.World.Turn != act.Turn {
			s.log.WithFields(logrus.Fields{
				"action":   i,
				"turn":     s.World.Turn,
				"recorded": act.Turn,
			}).Debug("Playback drifted from recorded turn")
		}

		cmd := domain.InternalCommand{Action: act.Action, Token: act.Token, Payload: act.Payload}
		if cmd.Action.Immediate() {
			s.execute(cmd)
			continue
		}
		s.queue = append(s.queue[:0], cmd)
		s.status = s.Sched.Run(ctx)
		s.flushTelemetry()
	}

	s.log.WithFields(logrus.Fields{
		"turn":   s.World.Turn,
		"depth":  s.World.Level.Depth,
		"status": s.status.String(),
	}).Info("Playback finished")
	return s.status, nil
}
