// Package health aggregates dependency checks behind /healthz.
package health

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

type Service struct {
	checkers []Checker
}

// NewService aggregates dependency checkers. All of them must pass.
func NewService(checkers ...Checker) *Service {
	return &Service{checkers: checkers}
}

func (s *Service) Ready(ctx context.Context) error {
	for _, ch := range s.checkers {
		if err := ch.Check(ctx); err != nil {
			return fmt.Errorf("%s: %w", ch.Name(), err)
		}
	}
	return nil
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

var _ Pinger = (*sql.DB)(nil)

type PostgresChecker struct {
	db      Pinger
	timeout time.Duration
}

func NewPostgresChecker(db Pinger) *PostgresChecker {
	return &PostgresChecker{db: db, timeout: time.Second}
}

func (c *PostgresChecker) Name() string { return "postgres" }

func (c *PostgresChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.db.PingContext(ctx)
}
