package export

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/parrotkit/internal/apperr"
	"github.com/therealutkarshpriyadarshi/parrotkit/pkg/models"
)

type memoryStore struct {
	objects map[string]string
	failOn  string
	deleted []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string]string{}}
}

func (m *memoryStore) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	if m.failOn != "" && strings.HasSuffix(objectName, m.failOn) {
		return errors.New("bucket unavailable")
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.objects[objectName] = string(body)
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, objectName string) error {
	delete(m.objects, objectName)
	m.deleted = append(m.deleted, objectName)
	return nil
}

func (m *memoryStore) PresignedURL(ctx context.Context, objectName string) (string, error) {
	return "https://storage.local/" + objectName + "?sig=x", nil
}

type recordingPublisher struct {
	events []*models.Event
}

func (p *recordingPublisher) PublishEvent(ctx context.Context, event *models.Event) error {
	p.events = append(p.events, event)
	return nil
}

func takes(names ...string) []Take {
	out := make([]Take, len(names))
	for i, n := range names {
		out[i] = Take{Name: n, Size: 4, ContentType: "video/webm", Body: strings.NewReader("data")}
	}
	return out
}

func TestExport(t *testing.T) {
	store := newMemoryStore()
	publisher := &recordingPublisher{}
	s := NewService(store, publisher, nil)

	resp, err := s.Export(context.Background(), " me@example.com ", takes("scene-1.webm", "scene-2.webm"))
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "2 videos will be sent to me@example.com", resp.Message)
	assert.Equal(t, 2, resp.VideoCount)
	require.Len(t, resp.Files, 2)
	assert.Equal(t, "exports/"+resp.ExportID+"/scene-1.webm", resp.Files[0].Key)
	assert.Contains(t, resp.Files[0].URL, "?sig=")
	assert.Len(t, store.objects, 2)

	require.Len(t, publisher.events, 1)
	ev := publisher.events[0]
	assert.Equal(t, models.EventExportRequested, ev.Type)
	assert.Equal(t, resp.ExportID, ev.Export.ExportID)
	assert.Equal(t, "me@example.com", ev.Export.Email)
	assert.Len(t, ev.Export.Keys, 2)
}

func TestExportValidation(t *testing.T) {
	s := NewService(newMemoryStore(), nil, nil)

	_, err := s.Export(context.Background(), "", takes("a.webm"))
	assert.ErrorIs(t, err, ErrEmailRequired)
	assert.True(t, apperr.IsClientError(err))

	_, err = s.Export(context.Background(), "me@example.com", nil)
	assert.ErrorIs(t, err, ErrNoVideos)
}

func TestExportRollsBackOnFailure(t *testing.T) {
	store := newMemoryStore()
	store.failOn = "b.webm"
	publisher := &recordingPublisher{}
	s := NewService(store, publisher, nil)

	resp, err := s.Export(context.Background(), "me@example.com", takes("a.webm", "b.webm"))
	assert.Nil(t, resp)
	assert.Error(t, err)
	assert.False(t, apperr.IsClientError(err))
	assert.Empty(t, store.objects)
	assert.Len(t, store.deleted, 1)
	assert.Empty(t, publisher.events)
}
