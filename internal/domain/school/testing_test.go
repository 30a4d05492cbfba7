package school

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolhub/internal/database"
	"schoolhub/internal/filestore"
	"schoolhub/internal/testutil"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect("file:school_" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func setupFiles(t *testing.T) *filestore.Store {
	t.Helper()
	fs, err := filestore.New(filepath.Join(t.TempDir(), "schoolImages"))
	require.NoError(t, err)
	return fs
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) Types() []EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func pngHeader(t *testing.T, name string) testutil.File {
	return testutil.File{Field: FieldImage, Name: name, ContentType: "image/png", Data: testutil.PNG(t)}
}

func strPtr(s string) *string { return &s }

// MockRepository is a testify mock of Repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, s *School) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*School, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*School), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]School, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]School), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, s *School) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ListImageNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
