package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-photo-sync/models"
)

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.jpg", "image/jpeg"},
		{"a.JPEG", "image/jpeg"},
		{"dir/b.png", "image/png"},
		{"c.gif", "image/gif"},
		{"d.webp", "image/webp"},
		{"e.heic", "application/octet-stream"},
		{"noext", "application/octet-stream"},
		{"archive.jpg.zip", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, ContentTypeFor(tt.path))
		})
	}
}

func TestFileTransferService_UploadBinary(t *testing.T) {
	env := newTestEnv(time.Second)
	ctx := testContext()
	s := openFull(t, env)

	res, err := env.uploadSvc.UploadBinary(ctx, s.ID, "2026/p1.jpg", []byte("jpeg bytes"))
	require.NoError(t, err)
	assert.Equal(t, models.UploadResult{Success: true, FilePath: "2026/p1.jpg"}, res)
	assert.Equal(t, []byte("jpeg bytes"), env.objects.objects["2026/p1.jpg"])

	op := env.operations.last()
	assert.Equal(t, models.OperationFile, op.Operation)
	assert.Equal(t, models.OperationCompleted, op.Status)
	require.NotNil(t, op.Details.Upload)
	assert.Equal(t, "image/jpeg", op.Details.Upload.ContentType)
	assert.Equal(t, int64(10), op.Details.Upload.Size)
	assert.Equal(t, "digest-10", op.Details.Upload.Digest)

	// same path again replaces the object
	_, err = env.uploadSvc.UploadBinary(ctx, s.ID, "2026/p1.jpg", []byte("v2"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), env.objects.objects["2026/p1.jpg"])
}

func TestFileTransferService_UploadBinary_EmptyPayload(t *testing.T) {
	env := newTestEnv(time.Second)
	s := openFull(t, env)

	res, err := env.uploadSvc.UploadBinary(testContext(), s.ID, "empty.png", nil)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestFileTransferService_UploadBinary_StoreFailure(t *testing.T) {
	env := newTestEnv(time.Second)
	s := openFull(t, env)
	env.objects.putErr = errors.New("no space left on device")

	res, err := env.uploadSvc.UploadBinary(testContext(), s.ID, "p1.jpg", []byte("x"))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "p1.jpg", res.FilePath)
	assert.Contains(t, res.Error, "no space left")

	op := env.operations.last()
	assert.Equal(t, models.OperationFailed, op.Status)
	assert.Contains(t, op.Details.Upload.Error, "no space left")
}

func TestFileTransferService_UploadBinary_Rejected(t *testing.T) {
	env := newTestEnv(time.Second)
	ctx := testContext()
	s := openFull(t, env)

	tests := []struct {
		name    string
		syncID  string
		path    string
		wantErr error
	}{
		{name: "missing sync id", syncID: "", path: "p.jpg", wantErr: ErrValidation},
		{name: "unknown session", syncID: "nope", path: "p.jpg", wantErr: ErrInvalidSession},
		{name: "empty path", syncID: s.ID, path: "", wantErr: ErrValidation},
		{name: "escaping path", syncID: s.ID, path: "../etc/passwd", wantErr: ErrValidation},
		{name: "absolute path", syncID: s.ID, path: "/etc/passwd", wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.uploadSvc.UploadBinary(ctx, tt.syncID, tt.path, []byte("x"))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, env.objects.objects)
}

func TestFileTransferService_UploadBinary_ClosedSession(t *testing.T) {
	env := newTestEnv(time.Second)
	ctx := testContext()
	s := openFull(t, env)

	_, err := env.sessionSvc.CompleteSession(ctx, s.ID, models.SessionCompleted, "")
	require.NoError(t, err)

	_, err = env.uploadSvc.UploadBinary(ctx, s.ID, "late.jpg", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidSession)
}
