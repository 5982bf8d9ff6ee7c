// Package analytics aggregates domain events into usage counters.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/therealutkarshpriyadarshi/parrotkit/internal/logging"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

// Counter names
const (
	StatRecipes       = "recipes_total"
	StatExports       = "exports_total"
	BreakdownPlatform = "recipes_by_platform"
	BreakdownMode     = "recipes_by_script_mode"
)

// DedupeTTL bounds how long a handled event id is remembered
const DedupeTTL = 24 * time.Hour

// Store is the counter backend, implemented by cache.Cache
type Store interface {
	IncrementStat(ctx context.Context, stat string) error
	GetStat(ctx context.Context, stat string) (int64, error)
	IncrementBreakdown(ctx context.Context, name, field string) error
	GetBreakdown(ctx context.Context, name string) (map[string]int64, error)
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
}

// Service handles usage tracking and aggregation
type Service struct {
	store  Store
	logger *logging.Logger
}

// NewService creates a new analytics service
func NewService(store Store, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{store: store, logger: logger.WithComponent("analytics")}
}

// Record folds one event into the counters. Redelivered events with an id
// already seen are skipped.
func (s *Service) Record(ctx context.Context, event *models.Event) error {
	if event.ID != "" {
		first, err := s.store.MarkProcessed(ctx, event.ID, DedupeTTL)
		if err != nil {
			return fmt.Errorf("failed to mark event %s: %w", event.ID, err)
		}
		if !first {
			s.logger.Debugf("Skipping duplicate event %s", event.ID)
			return nil
		}
	}

	switch event.Type {
	case models.EventRecipeAnalyzed:
		return s.recordRecipe(ctx, event.Recipe)
	case models.EventExportRequested:
		return s.store.IncrementStat(ctx, StatExports)
	default:
		s.logger.Warnf("Ignoring unknown event type %q", event.Type)
		return nil
	}
}

func (s *Service) recordRecipe(ctx context.Context, r *models.RecipeEvent) error {
	if err := s.store.IncrementStat(ctx, StatRecipes); err != nil {
		return err
	}
	if r == nil {
		return nil
	}
	if err := s.store.IncrementBreakdown(ctx, BreakdownPlatform, string(r.Platform)); err != nil {
		return err
	}
	if r.ScriptMode != "" {
		return s.store.IncrementBreakdown(ctx, BreakdownMode, r.ScriptMode)
	}
	return nil
}

// Summary reads the current counters
func (s *Service) Summary(ctx context.Context) (*models.UsageStats, error) {
	recipes, err := s.store.GetStat(ctx, StatRecipes)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe count: %w", err)
	}
	exports, err := s.store.GetStat(ctx, StatExports)
	if err != nil {
		return nil, fmt.Errorf("failed to read export count: %w", err)
	}
	byPlatform, err := s.store.GetBreakdown(ctx, BreakdownPlatform)
	if err != nil {
		return nil, err
	}
	byMode, err := s.store.GetBreakdown(ctx, BreakdownMode)
	if err != nil {
		return nil, err
	}

	return &models.UsageStats{
		RecipesTotal: recipes,
		ByPlatform:   byPlatform,
		ByScriptMode: byMode,
		ExportsTotal: exports,
	}, nil
}
