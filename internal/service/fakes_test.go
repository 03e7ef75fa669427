package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/models"
)

// ─────────────────────────────────────────────
// In-memory fakes of the store interfaces
// ─────────────────────────────────────────────

type fakeSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]models.SyncSession

	openErr error
	getErr  error
}

func newFakeSessionRepository() *fakeSessionRepository {
	return &fakeSessionRepository{sessions: make(map[string]models.SyncSession)}
}

func (f *fakeSessionRepository) OpenExclusive(_ context.Context, session models.SyncSession) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.openErr != nil {
		return 0, f.openErr
	}

	var cancelled int64
	for id, s := range f.sessions {
		if s.DeviceID == session.DeviceID && s.Status == models.SessionInProgress {
			end := session.StartTimestamp
			s.Status = models.SessionCancelled
			s.EndTimestamp = &end
			f.sessions[id] = s
			cancelled++
		}
	}
	f.sessions[session.ID] = session

	return cancelled, nil
}

func (f *fakeSessionRepository) Create(_ context.Context, session models.SyncSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.openErr != nil {
		return f.openErr
	}
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepository) GetByID(_ context.Context, syncID string) (models.SyncSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return models.SyncSession{}, f.getErr
	}
	s, ok := f.sessions[syncID]
	if !ok {
		return models.SyncSession{}, store.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessionRepository) GetLatestByDevice(_ context.Context, deviceID string) (models.SyncSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var (
		latest models.SyncSession
		found  bool
	)
	for _, s := range f.sessions {
		if s.DeviceID != deviceID {
			continue
		}
		if !found || s.StartTimestamp.After(latest.StartTimestamp) ||
			(s.StartTimestamp.Equal(latest.StartTimestamp) && s.ID > latest.ID) {
			latest, found = s, true
		}
	}
	if !found {
		return models.SyncSession{}, store.ErrSessionNotFound
	}
	return latest, nil
}

func (f *fakeSessionRepository) Close(_ context.Context, syncID string, status models.SessionStatus, endedAt time.Time) (models.SyncSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.sessions[syncID]
	if !ok {
		return models.SyncSession{}, store.ErrSessionNotFound
	}
	if s.Status != models.SessionInProgress {
		return s, store.ErrSessionNotActive
	}
	s.Status = status
	s.EndTimestamp = &endedAt
	f.sessions[syncID] = s
	return s, nil
}

func (f *fakeSessionRepository) ExpireStale(_ context.Context, startedBefore, endedAt time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for id, s := range f.sessions {
		if s.Status == models.SessionInProgress && s.StartTimestamp.Before(startedBefore) {
			s.Status = models.SessionFailed
			s.EndTimestamp = &endedAt
			f.sessions[id] = s
			n++
		}
	}
	return n, nil
}

func (f *fakeSessionRepository) inProgressFull(deviceID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, s := range f.sessions {
		if s.DeviceID == deviceID && s.Kind == models.SessionKindFull && s.Status == models.SessionInProgress {
			n++
		}
	}
	return n
}

type fakeOperationRepository struct {
	mu         sync.Mutex
	operations []models.SyncOperation
	appendErr  error
}

func (f *fakeOperationRepository) Append(_ context.Context, op models.SyncOperation) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.appendErr != nil {
		return 0, f.appendErr
	}
	op.ID = int64(len(f.operations) + 1)
	f.operations = append(f.operations, op)
	return op.ID, nil
}

func (f *fakeOperationRepository) ListBySession(_ context.Context, syncID string) ([]models.SyncOperation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.SyncOperation, 0)
	for _, op := range f.operations {
		if op.SyncID == syncID {
			out = append(out, op)
		}
	}
	return out, nil
}

func (f *fakeOperationRepository) last() models.SyncOperation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.operations[len(f.operations)-1]
}

type fakeCatalog struct {
	mu     sync.Mutex
	photos map[string]models.Photo

	// failGet / failInsert make lookups of specific ids fail
	failGet    map[string]error
	failInsert map[string]error
	changedErr error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		photos:     make(map[string]models.Photo),
		failGet:    make(map[string]error),
		failInsert: make(map[string]error),
	}
}

func (f *fakeCatalog) GetByID(_ context.Context, id string) (models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failGet[id]; err != nil {
		return models.Photo{}, err
	}
	p, ok := f.photos[id]
	if !ok {
		return models.Photo{}, store.ErrPhotoNotFound
	}
	return p, nil
}

func (f *fakeCatalog) InsertIfAbsent(_ context.Context, photo models.Photo) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.failInsert[photo.ID]; err != nil {
		return false, err
	}
	if _, ok := f.photos[photo.ID]; ok {
		return false, nil
	}
	f.photos[photo.ID] = photo
	return true, nil
}

func (f *fakeCatalog) Update(_ context.Context, photo models.Photo) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.photos[photo.ID]; !ok {
		return store.ErrPhotoNotFound
	}
	f.photos[photo.ID] = photo
	return nil
}

func (f *fakeCatalog) ChangedSince(_ context.Context, watermark time.Time) ([]models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.changedErr != nil {
		return nil, f.changedErr
	}
	out := make([]models.Photo, 0)
	for _, p := range f.photos {
		if p.AddTimestamp.After(watermark) || p.ModifiedTimestamp.After(watermark) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCatalog) get(id string) (models.Photo, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.photos[id]
	return p, ok
}

type fakeObjectStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: make(map[string][]byte)}
}

func (f *fakeObjectStorage) Put(_ context.Context, path, contentType string, payload []byte) (models.BinaryObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.putErr != nil {
		return models.BinaryObject{}, f.putErr
	}
	f.objects[path] = payload
	return models.BinaryObject{
		Path:        path,
		ContentType: contentType,
		Size:        int64(len(payload)),
		Digest:      fmt.Sprintf("digest-%d", len(payload)),
	}, nil
}

func (f *fakeObjectStorage) Exists(_ context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[path]
	return ok, nil
}

func (f *fakeObjectStorage) Stat(_ context.Context, path string) (models.BinaryObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.objects[path]
	if !ok {
		return models.BinaryObject{}, store.ErrObjectNotFound
	}
	return models.BinaryObject{
		Path:   path,
		Size:   int64(len(payload)),
		Digest: fmt.Sprintf("digest-%d", len(payload)),
	}, nil
}

// ─────────────────────────────────────────────
// Clock and ids
// ─────────────────────────────────────────────

// stepClock starts at base and advances by step on every call.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newStepClock(base time.Time, step time.Duration) *stepClock {
	return &stepClock{now: base, step: step}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

type seqIDs struct {
	n atomic.Int64
}

func (s *seqIDs) Generate() string {
	return fmt.Sprintf("sync-%d", s.n.Add(1))
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

// testEnv wires every server service over the in-memory fakes.
type testEnv struct {
	sessions   *fakeSessionRepository
	operations *fakeOperationRepository
	catalog    *fakeCatalog
	objects    *fakeObjectStorage
	clock      *stepClock

	sessionSvc   SessionService
	reconcileSvc ReconcileService
	uploadSvc    FileTransferService
	verifySvc    VerifyService
	statusSvc    StatusService
}

func newTestEnv(step time.Duration) *testEnv {
	env := &testEnv{
		sessions:   newFakeSessionRepository(),
		operations: &fakeOperationRepository{},
		catalog:    newFakeCatalog(),
		objects:    newFakeObjectStorage(),
		clock:      newStepClock(baseTime, step),
	}

	cfg := config.App{ReconcileConcurrency: 4}
	log := logger.Nop()

	changes := NewChangeSetService(env.catalog, log)
	env.sessionSvc = NewSessionService(env.sessions, env.operations, changes, env.clock, &seqIDs{}, log)
	env.reconcileSvc = NewReconcileService(env.sessionSvc, env.catalog, env.operations, env.clock, cfg, log)
	env.uploadSvc = NewFileTransferService(env.sessionSvc, env.objects, env.operations, env.clock, log)
	env.verifySvc = NewVerifyService(env.sessions, env.catalog, env.objects, env.operations, env.clock, cfg, log)
	env.statusSvc = NewStatusService(env.sessions, env.operations, log)

	return env
}
