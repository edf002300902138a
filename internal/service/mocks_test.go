package service

// =========================================================================
// SHARED TEST FAKES
// =========================================================================
//
// WHAT IS A MOCK?
// A fake implementation of an interface used in tests. Instead of talking
// to a real database or blob store, it keeps data in memory maps.
//
// WHY MOCK?
// 1. SPEED: No database setup, no disk I/O, tests run in microseconds
// 2. ISOLATION: Tests only test the service logic, not the storage
// 3. CONTROL: You can simulate errors (storage down) that are hard to
//    trigger with the real thing
//
// The mocks live in one file because every service test needs some subset
// of them. They deliberately reproduce the repository ownership contract:
// GetByID and Delete filter by (id AND ownerID), so the services' silent
// no-op behaviour is exercised exactly as it would be against SQL.

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/model"
)

// testLogger discards all output — the services log liberally and the noise
// would drown the test results.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =========================================================================
// USERS
// =========================================================================

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int

	failCreate error // when set, Create returns this
	failUpdate error // when set, Update returns this
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.failCreate != nil {
		return m.failCreate
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return apperror.Conflict("username", "username already taken")
		}
		if u.Email == user.Email {
			return apperror.Conflict("email", "email already registered")
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if m.failUpdate != nil {
		return m.failUpdate
	}
	if _, ok := m.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

// =========================================================================
// TASKS
// =========================================================================

type mockTaskRepo struct {
	tasks  map[string]*model.Task
	nextID int
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[string]*model.Task)}
}

func (m *mockTaskRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Task, error) {
	result := []model.Task{}
	for _, task := range m.tasks {
		if task.OwnerID == ownerID {
			result = append(result, *task)
		}
	}
	return result, nil
}

func (m *mockTaskRepo) GetByID(_ context.Context, id, ownerID string) (*model.Task, error) {
	task, ok := m.tasks[id]
	if !ok || task.OwnerID != ownerID {
		// Someone else's row and a nonexistent row are indistinguishable.
		return nil, apperror.NotFound("task", id)
	}
	result := *task
	return &result, nil
}

func (m *mockTaskRepo) Create(_ context.Context, task *model.Task) error {
	m.nextID++
	task.ID = fmt.Sprintf("task-%d", m.nextID)
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	stored := *task
	m.tasks[task.ID] = &stored
	return nil
}

func (m *mockTaskRepo) Update(_ context.Context, task *model.Task) error {
	existing, ok := m.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		// Matches the SQL behaviour: zero rows touched, no error.
		return nil
	}
	stored := *task
	m.tasks[task.ID] = &stored
	return nil
}

func (m *mockTaskRepo) Delete(_ context.Context, id, ownerID string) error {
	existing, ok := m.tasks[id]
	if ok && existing.OwnerID == ownerID {
		delete(m.tasks, id)
	}
	return nil
}

// =========================================================================
// FILES
// =========================================================================

type mockFileRepo struct {
	files  map[string]*model.FileRecord
	nextID int

	failCreate error
}

func newMockFileRepo() *mockFileRepo {
	return &mockFileRepo{files: make(map[string]*model.FileRecord)}
}

func (m *mockFileRepo) ListByOwner(_ context.Context, ownerID string) ([]model.FileRecord, error) {
	result := []model.FileRecord{}
	for _, f := range m.files {
		if f.OwnerID == ownerID {
			result = append(result, *f)
		}
	}
	return result, nil
}

func (m *mockFileRepo) GetByID(_ context.Context, id, ownerID string) (*model.FileRecord, error) {
	f, ok := m.files[id]
	if !ok || f.OwnerID != ownerID {
		return nil, apperror.NotFound("file", id)
	}
	result := *f
	return &result, nil
}

func (m *mockFileRepo) Create(_ context.Context, file *model.FileRecord) error {
	if m.failCreate != nil {
		return m.failCreate
	}
	m.nextID++
	file.ID = fmt.Sprintf("file-%d", m.nextID)
	file.CreatedAt = time.Now()
	stored := *file
	m.files[file.ID] = &stored
	return nil
}

func (m *mockFileRepo) Delete(_ context.Context, id, ownerID string) error {
	existing, ok := m.files[id]
	if ok && existing.OwnerID == ownerID {
		delete(m.files, id)
	}
	return nil
}

// =========================================================================
// RESOURCES
// =========================================================================

type mockResourceRepo struct {
	resources map[string]*model.Resource
	nextID    int
}

func newMockResourceRepo() *mockResourceRepo {
	return &mockResourceRepo{resources: make(map[string]*model.Resource)}
}

func (m *mockResourceRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Resource, error) {
	result := []model.Resource{}
	for _, r := range m.resources {
		if r.OwnerID == ownerID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockResourceRepo) GetByID(_ context.Context, id, ownerID string) (*model.Resource, error) {
	r, ok := m.resources[id]
	if !ok || r.OwnerID != ownerID {
		return nil, apperror.NotFound("resource", id)
	}
	result := *r
	return &result, nil
}

func (m *mockResourceRepo) Create(_ context.Context, resource *model.Resource) error {
	m.nextID++
	resource.ID = fmt.Sprintf("resource-%d", m.nextID)
	resource.CreatedAt = time.Now()
	resource.UpdatedAt = resource.CreatedAt
	stored := *resource
	m.resources[resource.ID] = &stored
	return nil
}

func (m *mockResourceRepo) Update(_ context.Context, resource *model.Resource) error {
	existing, ok := m.resources[resource.ID]
	if !ok || existing.OwnerID != resource.OwnerID {
		return nil
	}
	stored := *resource
	m.resources[resource.ID] = &stored
	return nil
}

func (m *mockResourceRepo) Delete(_ context.Context, id, ownerID string) error {
	existing, ok := m.resources[id]
	if ok && existing.OwnerID == ownerID {
		delete(m.resources, id)
	}
	return nil
}

// =========================================================================
// NOTES
// =========================================================================

type mockNoteRepo struct {
	notes  map[string]*model.Note
	nextID int
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{notes: make(map[string]*model.Note)}
}

func (m *mockNoteRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Note, error) {
	result := []model.Note{}
	for _, n := range m.notes {
		if n.OwnerID == ownerID {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (m *mockNoteRepo) GetByID(_ context.Context, id, ownerID string) (*model.Note, error) {
	n, ok := m.notes[id]
	if !ok || n.OwnerID != ownerID {
		return nil, apperror.NotFound("note", id)
	}
	result := *n
	return &result, nil
}

func (m *mockNoteRepo) Create(_ context.Context, note *model.Note) error {
	m.nextID++
	note.ID = fmt.Sprintf("note-%d", m.nextID)
	note.CreatedAt = time.Now()
	note.UpdatedAt = note.CreatedAt
	stored := *note
	m.notes[note.ID] = &stored
	return nil
}

func (m *mockNoteRepo) Update(_ context.Context, note *model.Note) error {
	existing, ok := m.notes[note.ID]
	if !ok || existing.OwnerID != note.OwnerID {
		return nil
	}
	stored := *note
	m.notes[note.ID] = &stored
	return nil
}

func (m *mockNoteRepo) Delete(_ context.Context, id, ownerID string) error {
	existing, ok := m.notes[id]
	if ok && existing.OwnerID == ownerID {
		delete(m.notes, id)
	}
	return nil
}

// =========================================================================
// TOPICS
// =========================================================================

type mockTopicRepo struct {
	topics map[string]*model.Topic
	nextID int
}

func newMockTopicRepo() *mockTopicRepo {
	return &mockTopicRepo{topics: make(map[string]*model.Topic)}
}

func (m *mockTopicRepo) List(_ context.Context) ([]model.Topic, error) {
	result := []model.Topic{}
	for _, tp := range m.topics {
		result = append(result, *tp)
	}
	return result, nil
}

func (m *mockTopicRepo) GetByID(_ context.Context, id string) (*model.Topic, error) {
	tp, ok := m.topics[id]
	if !ok {
		return nil, apperror.NotFound("topic", id)
	}
	result := *tp
	return &result, nil
}

func (m *mockTopicRepo) Create(_ context.Context, topic *model.Topic) error {
	m.nextID++
	topic.ID = fmt.Sprintf("topic-%d", m.nextID)
	topic.CreatedAt = time.Now()
	topic.UpdatedAt = topic.CreatedAt
	stored := *topic
	m.topics[topic.ID] = &stored
	return nil
}

func (m *mockTopicRepo) Update(_ context.Context, topic *model.Topic) error {
	if _, ok := m.topics[topic.ID]; !ok {
		return apperror.NotFound("topic", topic.ID)
	}
	stored := *topic
	m.topics[topic.ID] = &stored
	return nil
}

func (m *mockTopicRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.topics[id]; !ok {
		return apperror.NotFound("topic", id)
	}
	delete(m.topics, id)
	return nil
}

// =========================================================================
// BLOB STORE
// =========================================================================

// fakeBlobStore records saves and removals in memory.
//
// Removal happens on a background goroutine (reclamation is
// fire-and-forget), so Remove signals a channel and tests wait on it via
// waitRemoved instead of sleeping.
type fakeBlobStore struct {
	mu     sync.Mutex
	blobs  map[string]string // key → content
	nextID int

	removed chan string

	failSave bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		blobs:   make(map[string]string),
		removed: make(chan string, 16),
	}
}

func (f *fakeBlobStore) Save(_ context.Context, r io.Reader, originalName string) (string, error) {
	if f.failSave {
		return "", fmt.Errorf("blob store unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	key := fmt.Sprintf("blob-%d_%s", f.nextID, originalName)
	f.blobs[key] = string(data)
	return key, nil
}

func (f *fakeBlobStore) Open(_ context.Context, key string) (io.ReadCloser, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.blobs[key]
	if !ok {
		return nil, "", fmt.Errorf("blob %s not found", key)
	}
	return io.NopCloser(strings.NewReader(content)), "", nil
}

func (f *fakeBlobStore) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	_, ok := f.blobs[key]
	delete(f.blobs, key)
	f.mu.Unlock()

	f.removed <- key
	if !ok {
		return fmt.Errorf("blob %s not found", key)
	}
	return nil
}

func (f *fakeBlobStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[key]
	return ok
}

func (f *fakeBlobStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.blobs)
}

// waitRemoved blocks until a Remove lands or the timeout fires. Returns the
// removed key.
func (f *fakeBlobStore) waitRemoved(t *testing.T) string {
	t.Helper()
	select {
	case key := <-f.removed:
		return key
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a blob removal")
		return ""
	}
}
