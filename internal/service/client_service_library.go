package service

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/zeebo/blake3"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/models"
)

// ManifestFile is the optional library manifest with hand-written records.
const ManifestFile = "photos.json"

// clientLibraryService reads a library rooted at fs. Hidden entries are
// skipped; only files with a known image extension are picked up.
type clientLibraryService struct {
	fs afero.Fs

	logger *logger.Logger
}

// NewClientLibraryService returns a library reader over fs. Use
// afero.NewBasePathFs to root it at a directory.
func NewClientLibraryService(fs afero.Fs, logger *logger.Logger) ClientLibraryService {
	return &clientLibraryService{fs: fs, logger: logger}
}

func (l *clientLibraryService) Scan(ctx context.Context) ([]models.Photo, error) {
	byID := make(map[string]models.Photo)

	err := afero.Walk(l.fs, "/", func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel := strings.TrimPrefix(filepath.ToSlash(p), "/")
		if rel == "" {
			return nil
		}
		if strings.HasPrefix(path.Base(rel), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || ContentTypeFor(rel) == defaultContentType {
			return nil
		}

		photo, err := l.describe(p, rel, info)
		if err != nil {
			return err
		}
		byID[photo.ID] = photo
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan library: %w", err)
	}

	manifest, err := l.readManifest()
	if err != nil {
		return nil, err
	}
	for _, m := range manifest {
		byID[m.ID] = mergePhoto(byID[m.ID], m)
	}

	photos := make([]models.Photo, 0, len(byID))
	for _, p := range byID {
		photos = append(photos, p)
	}
	sort.Slice(photos, func(i, j int) bool { return photos[i].ID < photos[j].ID })

	l.logger.Debug().
		Str("func", "*clientLibraryService.Scan").
		Int("photos", len(photos)).
		Int("manifest", len(manifest)).
		Msg("library scanned")

	return photos, nil
}

func (l *clientLibraryService) describe(full, rel string, info fs.FileInfo) (models.Photo, error) {
	data, err := afero.ReadFile(l.fs, full)
	if err != nil {
		return models.Photo{}, fmt.Errorf("read %s: %w", rel, err)
	}
	sum := blake3.Sum256(data)

	return models.Photo{
		ID:        strings.TrimSuffix(rel, path.Ext(rel)),
		FileName:  path.Base(rel),
		Path:      rel,
		MediaType: ContentTypeFor(rel),
		SizeBytes: info.Size(),
		Checksum:  hex.EncodeToString(sum[:]),
	}, nil
}

func (l *clientLibraryService) readManifest() ([]models.Photo, error) {
	data, err := afero.ReadFile(l.fs, rooted(ManifestFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var photos []models.Photo
	if err = json.Unmarshal(data, &photos); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return photos, nil
}

func (l *clientLibraryService) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return afero.ReadFile(l.fs, rooted(p))
}

func (l *clientLibraryService) ModifiedAfter(p string, t time.Time) (bool, error) {
	info, err := l.fs.Stat(rooted(p))
	if err != nil {
		return false, err
	}
	return info.ModTime().After(t), nil
}

// rooted anchors library relative paths at the fs root.
func rooted(p string) string {
	return "/" + strings.TrimPrefix(filepath.ToSlash(p), "/")
}

// mergePhoto overlays the non-zero manifest fields on a scanned record.
func mergePhoto(scanned, manifest models.Photo) models.Photo {
	out := scanned
	out.ID = manifest.ID
	if manifest.Title != "" {
		out.Title = manifest.Title
	}
	if manifest.Description != "" {
		out.Description = manifest.Description
	}
	if manifest.FileName != "" {
		out.FileName = manifest.FileName
	}
	if manifest.Path != "" {
		out.Path = manifest.Path
	}
	if manifest.MediaType != "" {
		out.MediaType = manifest.MediaType
	}
	if manifest.Width != 0 {
		out.Width = manifest.Width
	}
	if manifest.Height != 0 {
		out.Height = manifest.Height
	}
	if manifest.TakenAt != nil {
		out.TakenAt = manifest.TakenAt
	}
	if manifest.Latitude != nil {
		out.Latitude = manifest.Latitude
	}
	if manifest.Longitude != nil {
		out.Longitude = manifest.Longitude
	}
	if manifest.Favorite {
		out.Favorite = true
	}
	if manifest.Extra != nil {
		out.Extra = manifest.Extra
	}
	return out
}
