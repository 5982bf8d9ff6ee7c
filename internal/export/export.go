// Package export stores recorded takes and announces them for delivery.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/apperr"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/logging"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/metrics"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/storage"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

var (
	ErrEmailRequired = fmt.Errorf("Email is required: %w", apperr.ErrInvalidInput)
	ErrNoVideos      = fmt.Errorf("No videos provided: %w", apperr.ErrInvalidInput)
)

// ObjectStore is implemented by storage.Storage
type ObjectStore interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, objectName string) error
	PresignedURL(ctx context.Context, objectName string) (string, error)
}

// EventPublisher receives export.requested events
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *models.Event) error
}

// Take is one uploaded recording
type Take struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// Service runs exports
type Service struct {
	store     ObjectStore
	publisher EventPublisher
	logger    *logging.Logger
}

// NewService creates an export service. publisher may be nil.
func NewService(store ObjectStore, publisher EventPublisher, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{store: store, publisher: publisher, logger: logger.WithComponent("export")}
}

// Export uploads every take under a fresh export id. Either all takes are
// stored or none are.
func (s *Service) Export(ctx context.Context, email string, takes []Take) (*models.ExportResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(takes) == 0 {
		return nil, ErrNoVideos
	}

	exportID := uuid.New().String()
	files := make([]models.ExportedFile, 0, len(takes))
	keys := make([]string, 0, len(takes))

	for _, take := range takes {
		key := storage.ExportKey(exportID, take.Name)
		if err := s.store.Upload(ctx, key, take.Body, take.Size, take.ContentType); err != nil {
			s.rollback(keys)
			return nil, fmt.Errorf("failed to store %s: %w", take.Name, err)
		}
		keys = append(keys, key)

		url, err := s.store.PresignedURL(ctx, key)
		if err != nil {
			s.rollback(keys)
			return nil, err
		}
		files = append(files, models.ExportedFile{Name: take.Name, Key: key, URL: url})
	}

	s.publish(ctx, exportID, email, keys)

	return &models.ExportResponse{
		Success:    true,
		Message:    fmt.Sprintf("%d videos will be sent to %s", len(takes), email),
		Email:      email,
		VideoCount: len(takes),
		ExportID:   exportID,
		Files:      files,
	}, nil
}

func (s *Service) rollback(keys []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.WithError(err).Warnf("Failed to remove %s after failed export", key)
		}
	}
}

func (s *Service) publish(ctx context.Context, exportID, email string, keys []string) {
	if s.publisher == nil {
		return
	}

	event := &models.Event{
		ID:         uuid.New().String(),
		Type:       models.EventExportRequested,
		OccurredAt: time.Now().UTC(),
		Export:     &models.ExportEvent{ExportID: exportID, Email: email, Keys: keys},
	}
	err := s.publisher.PublishEvent(context.WithoutCancel(ctx), event)
	metrics.RecordEventPublished(event.Type, metrics.StatusLabel(err))
	s.logger.LogEvent(event.ID, event.Type, "published", err)
}
