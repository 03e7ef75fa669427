package store

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-photo-sync/models"
)

func TestBuildQueries_Placeholders(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name        string
		placeholder sq.PlaceholderFormat
		want        string
	}{
		{
			name:        "postgres",
			placeholder: sq.Dollar,
			want:        `UPDATE sync_sessions SET status = $1, end_timestamp = $2 WHERE device_id = $3 AND status = $4`,
		},
		{
			name:        "sqlite",
			placeholder: sq.Question,
			want:        `UPDATE sync_sessions SET status = ?, end_timestamp = ? WHERE device_id = ? AND status = ?`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sq.StatementBuilder.PlaceholderFormat(tt.placeholder)
			query, args, err := buildCancelActiveSessionsQuery(b, "dev-1", now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, query)
			assert.Equal(t, []any{"cancelled", now, "dev-1", "in_progress"}, args)
		})
	}
}

func TestBuildInsertPhotoIfAbsentQuery(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	lat := 1.5
	photo := models.Photo{
		ID:                "p1",
		Title:             "Sunset",
		Latitude:          &lat,
		Extra:             map[string]any{"album": "trip"},
		AddTimestamp:      now,
		ModifiedTimestamp: now,
	}

	query, args, err := buildInsertPhotoIfAbsentQuery(sq.StatementBuilder.PlaceholderFormat(sq.Dollar), photo)
	require.NoError(t, err)

	assert.Contains(t, query, "INSERT INTO photos (id,title,description,file_name,path,media_type,width,height,size_bytes,taken_at,latitude,longitude,favorite,checksum,extra,add_timestamp,modified_timestamp)")
	assert.Contains(t, query, "ON CONFLICT (id) DO NOTHING")
	require.Len(t, args, len(photoColumns))
	assert.Nil(t, args[9], "taken_at")
	assert.Equal(t, 1.5, args[10])
	assert.Nil(t, args[11], "longitude")
	assert.Equal(t, `{"album":"trip"}`, args[14])
}

func TestBuildUpdatePhotoQuery_KeepsAddTimestamp(t *testing.T) {
	query, _, err := buildUpdatePhotoQuery(sq.StatementBuilder.PlaceholderFormat(sq.Dollar), models.Photo{ID: "p1"})
	require.NoError(t, err)

	assert.NotContains(t, query, "add_timestamp")
	assert.Contains(t, query, "modified_timestamp = ")
	assert.Contains(t, query, "WHERE id = ")
}

func TestBuildInsertOperationQuery_InvalidDetails(t *testing.T) {
	_, _, err := buildInsertOperationQuery(sq.StatementBuilder, models.SyncOperation{
		SyncID:  "sync-1",
		Details: models.OperationDetails{Type: models.DetailsOpen},
	})
	assert.ErrorIs(t, err, ErrEncodingColumn)
	assert.ErrorIs(t, err, models.ErrInvalidOperationDetails)
}

func TestExtraColumn(t *testing.T) {
	raw, err := encodeExtra(nil)
	require.NoError(t, err)
	assert.Empty(t, raw)

	extra, err := decodeExtra("")
	require.NoError(t, err)
	assert.Nil(t, extra)

	raw, err = encodeExtra(map[string]any{"rating": 5})
	require.NoError(t, err)
	extra, err = decodeExtra(raw)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"rating": float64(5)}, extra)

	_, err = decodeExtra("{broken")
	assert.ErrorIs(t, err, ErrEncodingColumn)
}
