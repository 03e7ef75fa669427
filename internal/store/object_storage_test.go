package store

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
)

func newTestObjectStorage(t *testing.T) (ObjectStorage, afero.Fs, time.Time) {
	t.Helper()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	fs := afero.NewMemMapFs()
	clock := utils.ClockFunc(func() time.Time { return now })
	return NewObjectStorage(fs, clock, logger.Nop()), fs, now
}

func TestObjectStorage_PutAndStat(t *testing.T) {
	objects, fs, now := newTestObjectStorage(t)
	payload := []byte("fake jpeg bytes")
	sum := blake3.Sum256(payload)

	obj, err := objects.Put(testContext(), "2026/01/p1.jpg", "image/jpeg", payload)
	require.NoError(t, err)
	assert.Equal(t, "2026/01/p1.jpg", obj.Path)
	assert.Equal(t, int64(len(payload)), obj.Size)
	assert.Equal(t, hex.EncodeToString(sum[:]), obj.Digest)
	assert.Equal(t, now, obj.UploadedAt)

	stored, err := afero.ReadFile(fs, "2026/01/p1.jpg")
	require.NoError(t, err)
	assert.Equal(t, payload, stored)

	stat, err := objects.Stat(testContext(), "2026/01/p1.jpg")
	require.NoError(t, err)
	assert.Equal(t, obj, stat)

	exists, err := objects.Exists(testContext(), "2026/01/p1.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	// no temp files left behind
	entries, err := afero.ReadDir(fs, "2026/01")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestObjectStorage_PutOverwrites(t *testing.T) {
	objects, fs, _ := newTestObjectStorage(t)

	_, err := objects.Put(testContext(), "p1.jpg", "image/jpeg", []byte("first"))
	require.NoError(t, err)
	obj, err := objects.Put(testContext(), "p1.jpg", "image/jpeg", []byte("second version"))
	require.NoError(t, err)

	stored, err := afero.ReadFile(fs, "p1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "second version", string(stored))
	assert.Equal(t, int64(len("second version")), obj.Size)
}

func TestObjectStorage_EmptyPayload(t *testing.T) {
	objects, _, _ := newTestObjectStorage(t)

	obj, err := objects.Put(testContext(), "empty.png", "image/png", nil)
	require.NoError(t, err)
	assert.Zero(t, obj.Size)

	exists, err := objects.Exists(testContext(), "empty.png")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestObjectStorage_Missing(t *testing.T) {
	objects, fs, _ := newTestObjectStorage(t)
	require.NoError(t, fs.MkdirAll("albums", 0o750))

	exists, err := objects.Exists(testContext(), "nope.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = objects.Exists(testContext(), "albums")
	require.NoError(t, err)
	assert.False(t, exists, "directories are not objects")

	_, err = objects.Stat(testContext(), "nope.jpg")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestObjectStorage_StatWithoutSidecar(t *testing.T) {
	objects, fs, _ := newTestObjectStorage(t)
	require.NoError(t, afero.WriteFile(fs, "manual.gif", []byte("GIF89a"), 0o640))

	obj, err := objects.Stat(testContext(), "manual.gif")
	require.NoError(t, err)
	assert.Equal(t, "manual.gif", obj.Path)
	assert.Equal(t, int64(6), obj.Size)
	assert.Empty(t, obj.Digest)
}

func TestObjectStorage_CancelledContext(t *testing.T) {
	objects, _, _ := newTestObjectStorage(t)
	ctx, cancel := context.WithCancel(testContext())
	cancel()

	_, err := objects.Put(ctx, "p1.jpg", "image/jpeg", []byte("x"))
	assert.Error(t, err)
}

func TestCleanObjectPath(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain file", in: "p1.jpg", want: "p1.jpg"},
		{name: "nested", in: "2026/01/p1.jpg", want: "2026/01/p1.jpg"},
		{name: "redundant separators", in: "a//b/./c.png", want: "a/b/c.png"},
		{name: "backslashes", in: `a\b.png`, want: "a/b.png"},
		{name: "empty", in: "", wantErr: true},
		{name: "blank", in: "   ", wantErr: true},
		{name: "dot", in: ".", wantErr: true},
		{name: "absolute", in: "/etc/passwd", wantErr: true},
		{name: "parent escape", in: "../secret", wantErr: true},
		{name: "inner parent", in: "a/../../b", wantErr: true},
		{name: "metadata dir", in: ".meta/p1.jpg.json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cleanObjectPath(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidObjectPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
