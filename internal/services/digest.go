package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"homekeep/internal/amqp"
	"homekeep/internal/core"
)

// DefaultDigestHorizon is how many days ahead upcoming tasks are included.
const DefaultDigestHorizon = 7

// DigestSource is the read side of the domain store a digest is built from.
type DigestSource interface {
	BudgetSummary() core.BudgetSummary
	OverdueTasks() []core.MaintenanceTask
	UpcomingTasks() []core.MaintenanceTask
}

// DigestPublisher delivers a built digest.
type DigestPublisher interface {
	PublishDigest(ctx context.Context, digest *amqp.DigestMessage) error
}

// DigestService builds the monthly budget and task backlog digest.
type DigestService struct {
	source    DigestSource
	publisher DigestPublisher
	horizon   int
}

func NewDigestService(source DigestSource, publisher DigestPublisher, horizonDays int) *DigestService {
	if horizonDays <= 0 {
		horizonDays = DefaultDigestHorizon
	}
	return &DigestService{source: source, publisher: publisher, horizon: horizonDays}
}

// Build assembles the digest. Upcoming tasks are limited to those due
// within the horizon, counted from today.
func (s *DigestService) Build(today core.Date) *amqp.DigestMessage {
	limit := today.AddDays(s.horizon)
	var upcoming []core.MaintenanceTask
	for _, t := range s.source.UpcomingTasks() {
		if t.DueDate.Before(limit) || t.DueDate.Equal(limit.Time) {
			upcoming = append(upcoming, t)
		}
	}
	return amqp.NewDigestMessage(s.source.BudgetSummary(), s.source.OverdueTasks(), upcoming)
}

// Publish builds and sends the digest.
func (s *DigestService) Publish(ctx context.Context, today core.Date) (*amqp.DigestMessage, error) {
	digest := s.Build(today)
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, digest not published")
		return digest, errors.New("no digest publisher configured")
	}
	if err := s.publisher.PublishDigest(ctx, digest); err != nil {
		return digest, fmt.Errorf("publish digest: %w", err)
	}
	return digest, nil
}
