package grpc

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/MKhiriev/go-photo-sync/internal/config"
	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/service"
	"github.com/MKhiriev/go-photo-sync/internal/store"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
	"github.com/MKhiriev/go-photo-sync/models"
)

const testAPIKey = "grpc-secret"

var testBase = time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

type testClient struct {
	conn *grpc.ClientConn
	h    *Handler
}

// newTestClient serves the sync and health services over an in-memory
// listener, backed by SQLite in memory and an in-memory object store.
func newTestClient(t *testing.T) *testClient {
	t.Helper()
	ctx := context.Background()
	log := logger.Nop()

	var ticks atomic.Int64
	clock := utils.ClockFunc(func() time.Time {
		return testBase.Add(time.Duration(ticks.Add(1)) * time.Millisecond)
	})

	db, err := store.NewConnectSQLite(ctx, config.DB{DSN: ":memory:"}, log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx))

	storages := store.NewStoragesFromDB(db, store.NewObjectStorage(afero.NewMemMapFs(), clock, log), log)
	cfg := config.StructuredConfig{
		App: config.App{
			APIKey:               testAPIKey,
			TokenSignKey:         "grpc-sign-key",
			TokenIssuer:          "go-photo-sync-test",
			TokenDuration:        time.Hour,
			Version:              "grpc-test",
			ReconcileConcurrency: 2,
		},
	}
	services, err := service.NewServices(storages, cfg, clock, utils.NewUUIDGenerator(), log)
	require.NoError(t, err)

	h := NewHandler(services, log)

	listener := bufconn.Listen(1 << 20)
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(h.Logging, h.Auth))
	server.RegisterService(&ServiceDesc, h)
	healthpb.RegisterHealthServer(server, h.Health())
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &testClient{conn: conn, h: h}
}

func (c *testClient) invoke(ctx context.Context, method string, req, resp any) error {
	return c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, req, resp)
}

func withAPIKey(key string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), mdAPIKey, key)
}

func TestSyncService_FullSession(t *testing.T) {
	c := newTestClient(t)
	ctx := withAPIKey(testAPIKey)

	var opened models.OpenSessionResponse
	require.NoError(t, c.invoke(ctx, "OpenSession", &models.OpenSessionRequest{DeviceID: "dev-1", UserName: "bob"}, &opened))
	require.NotEmpty(t, opened.SyncID)

	var reconciled models.ReconcileResult
	require.NoError(t, c.invoke(ctx, "ReconcileMetadata", &models.ReconcileRequest{
		SyncID: opened.SyncID,
		Photos: []models.Photo{{ID: "p1", Path: "p1.jpg"}, {ID: "p2", Path: "p2.jpg"}},
	}, &reconciled))
	assert.Equal(t, 2, reconciled.Processed)
	assert.Equal(t, 2, reconciled.Added)

	var uploaded models.UploadResult
	require.NoError(t, c.invoke(ctx, "UploadBinary", &models.UploadRequest{
		SyncID: opened.SyncID, FilePath: "p1.jpg", Payload: []byte("jpeg bytes"),
	}, &uploaded))
	assert.True(t, uploaded.Success)

	var verified models.VerifyResponse
	require.NoError(t, c.invoke(ctx, "VerifySync", &models.VerifyRequest{
		SyncID: opened.SyncID, PhotoIDs: []string{"p1", "p2", "p3"},
	}, &verified))
	assert.Equal(t, models.VerifySummary{Total: 3, Found: 1, Missing: 2}, verified.Summary)

	var completed models.SyncSession
	require.NoError(t, c.invoke(ctx, "CompleteSession", &models.CompleteSessionRequest{
		SyncID: opened.SyncID, Status: models.SessionCompleted,
	}, &completed))
	assert.Equal(t, models.SessionCompleted, completed.Status)

	var st models.StatusResponse
	require.NoError(t, c.invoke(ctx, "QueryStatus", &models.StatusRequest{DeviceID: "dev-1"}, &st))
	assert.Equal(t, opened.SyncID, st.Session.ID)
	assert.NotEmpty(t, st.Operations)
}

func TestSyncService_IncrementalReturnsEmptyChanges(t *testing.T) {
	c := newTestClient(t)
	ctx := withAPIKey(testAPIKey)

	since := testBase.Add(-time.Hour)
	var opened models.OpenIncrementalResponse
	require.NoError(t, c.invoke(ctx, "OpenIncrementalSession", &models.OpenIncrementalRequest{
		DeviceID: "dev-1", LastSyncTime: &since,
	}, &opened))

	assert.NotEmpty(t, opened.SyncID)
	assert.NotNil(t, opened.Changes)
	assert.Empty(t, opened.Changes)
}

func TestSyncService_StatusCodes(t *testing.T) {
	c := newTestClient(t)

	tests := []struct {
		name   string
		ctx    context.Context
		method string
		req    any
		resp   any
		code   codes.Code
	}{
		{
			name:   "missing credentials",
			ctx:    context.Background(),
			method: "OpenSession",
			req:    &models.OpenSessionRequest{DeviceID: "dev-1"},
			resp:   &models.OpenSessionResponse{},
			code:   codes.Unauthenticated,
		},
		{
			name:   "wrong api key",
			ctx:    withAPIKey("nope"),
			method: "OpenSession",
			req:    &models.OpenSessionRequest{DeviceID: "dev-1"},
			resp:   &models.OpenSessionResponse{},
			code:   codes.Unauthenticated,
		},
		{
			name:   "invalid bearer token",
			ctx:    metadata.AppendToOutgoingContext(context.Background(), mdAuthorization, "Bearer garbage"),
			method: "OpenSession",
			req:    &models.OpenSessionRequest{DeviceID: "dev-1"},
			resp:   &models.OpenSessionResponse{},
			code:   codes.Unauthenticated,
		},
		{
			name:   "missing device id",
			ctx:    withAPIKey(testAPIKey),
			method: "OpenSession",
			req:    &models.OpenSessionRequest{},
			resp:   &models.OpenSessionResponse{},
			code:   codes.InvalidArgument,
		},
		{
			name:   "unknown session",
			ctx:    withAPIKey(testAPIKey),
			method: "QueryStatus",
			req:    &models.StatusRequest{SyncID: "missing"},
			resp:   &models.StatusResponse{},
			code:   codes.NotFound,
		},
		{
			name:   "reconcile into unknown session",
			ctx:    withAPIKey(testAPIKey),
			method: "ReconcileMetadata",
			req:    &models.ReconcileRequest{SyncID: "missing", Photos: []models.Photo{{ID: "p1"}}},
			resp:   &models.ReconcileResult{},
			code:   codes.FailedPrecondition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.invoke(tt.ctx, tt.method, tt.req, tt.resp)
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestSyncService_SupersededSession(t *testing.T) {
	c := newTestClient(t)
	ctx := withAPIKey(testAPIKey)

	var first, second models.OpenSessionResponse
	require.NoError(t, c.invoke(ctx, "OpenSession", &models.OpenSessionRequest{DeviceID: "dev-1"}, &first))
	require.NoError(t, c.invoke(ctx, "OpenSession", &models.OpenSessionRequest{DeviceID: "dev-1"}, &second))

	err := c.invoke(ctx, "ReconcileMetadata", &models.ReconcileRequest{
		SyncID: first.SyncID, Photos: []models.Photo{{ID: "p1"}},
	}, &models.ReconcileResult{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	var st models.StatusResponse
	require.NoError(t, c.invoke(ctx, "QueryStatus", &models.StatusRequest{SyncID: first.SyncID}, &st))
	assert.Equal(t, models.SessionCancelled, st.Session.Status)
}

func TestSyncService_BearerToken(t *testing.T) {
	c := newTestClient(t)

	token, err := c.h.services.AuthService.CreateToken(context.Background(), "dev-9")
	require.NoError(t, err)

	ctx := metadata.AppendToOutgoingContext(context.Background(), mdAuthorization, "Bearer "+token.SignedString)
	var opened models.OpenSessionResponse
	require.NoError(t, c.invoke(ctx, "OpenSession", &models.OpenSessionRequest{DeviceID: "dev-9"}, &opened))
	assert.NotEmpty(t, opened.SyncID)
}

func TestHealth_NoCredentialsNeeded(t *testing.T) {
	c := newTestClient(t)
	c.h.RefreshHealth(context.Background())

	resp, err := healthpb.NewHealthClient(c.conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: ServiceName}, grpc.CallContentSubtype("proto"))
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
