package service

import (
	"context"
	"fmt"
	"time"

	"demobooking/internal/calendar"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// warmTimeout bounds one scheduled token refresh.
const warmTimeout = 30 * time.Second

type JobService struct {
	Provider calendar.Provider
	logger   *zap.Logger
}

func NewJobService(provider calendar.Provider, logger *zap.Logger) *JobService {
	return &JobService{Provider: provider, logger: logger}
}

// WarmCalendarToken obtains a provider credential so the next booking does
// not pay for the token exchange.
func (s *JobService) WarmCalendarToken(ctx context.Context) error {
	s.logger.Debug("cron job: warming calendar token", zap.String("provider", s.Provider.Name()))

	if err := s.Provider.Ready(); err != nil {
		return fmt.Errorf("cron job: provider not ready: %w", err)
	}
	if err := s.Provider.Warm(ctx); err != nil {
		return fmt.Errorf("cron job: failed to warm calendar token: %w", err)
	}

	s.logger.Info("cron job: calendar token ready", zap.String("provider", s.Provider.Name()))
	return nil
}

// Schedule registers the warm job on spec. An empty spec returns a nil
// scheduler.
func (s *JobService) Schedule(spec string) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}

	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
		defer cancel()
		if err := s.WarmCalendarToken(ctx); err != nil {
			s.logger.Error("cron job failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_WARM_SCHEDULE %q: %w", spec, err)
	}
	return c, nil
}
