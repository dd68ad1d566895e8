// Package scheduler owns the model retrain trigger. Training is a
// blocking one-shot operation; it runs here at startup and on a fixed
// interval, never inline within a recommendation request.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/mensa/internal/clock"
	recdomain "github.com/smallbiznis/mensa/internal/recommend/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

type Params struct {
	fx.In

	Log       *zap.Logger
	Recommend recdomain.Service
	Clock     clock.Clock
	Config    Config `optional:"true"`
}

type Scheduler struct {
	log       *zap.Logger
	cfg       Config
	recommend recdomain.Service
	clock     clock.Clock
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Recommend == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:       p.Log.Named("scheduler"),
		cfg:       p.Config.withDefaults(),
		recommend: p.Recommend,
		clock:     p.Clock,
	}, nil
}

// RunOnce executes a single bounded retrain cycle.
func (s *Scheduler) RunOnce(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, s.cfg.TrainTimeout)
	defer cancel()

	started := s.clock.Now()
	err := s.recommend.Train(ctx)
	elapsed := s.clock.Now().Sub(started)

	state := s.recommend.State()
	if err != nil {
		s.log.Warn("retrain cycle failed",
			zap.Duration("elapsed", elapsed),
			zap.String("state", string(state.Kind)),
			zap.Error(err),
		)
		return err
	}

	s.log.Info("retrain cycle complete",
		zap.Duration("elapsed", elapsed),
		zap.String("state", string(state.Kind)),
		zap.Int("users", state.Users),
		zap.Int("items", state.Items),
	)
	return nil
}

// RunForever retrains on the configured interval until ctx is canceled.
func (s *Scheduler) RunForever(ctx context.Context) {
	if s.cfg.TrainOnStart {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("initial training failed, serving fallback until next cycle", zap.Error(err))
		}
	}

	ticker := time.NewTicker(s.cfg.RetrainEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduled retrain failed", zap.Error(err))
		}
	}
}
