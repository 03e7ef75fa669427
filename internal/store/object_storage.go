package store

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
	"github.com/zeebo/blake3"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
	"github.com/MKhiriev/go-photo-sync/models"
)

// metaDir holds one JSON sidecar per stored object. Client paths may not
// reach into it.
const metaDir = ".meta"

// objectStorage keeps binary payloads on an afero filesystem, addressed by
// the client-chosen relative path. Writes go to a temp file first and are
// renamed into place, so a reader never sees a partial object.
type objectStorage struct {
	fs     afero.Fs
	clock  utils.Clock
	logger *logger.Logger
}

func NewObjectStorage(fs afero.Fs, clock utils.Clock, logger *logger.Logger) ObjectStorage {
	return &objectStorage{
		fs:     fs,
		clock:  clock,
		logger: logger,
	}
}

// NewFileObjectStorage roots an object store at dir on the OS filesystem,
// creating the directory when needed.
func NewFileObjectStorage(dir string, clock utils.Clock, logger *logger.Logger) (ObjectStorage, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWritingObject, err)
	}

	return NewObjectStorage(afero.NewBasePathFs(afero.NewOsFs(), dir), clock, logger), nil
}

func (o *objectStorage) Put(ctx context.Context, objectPath, contentType string, payload []byte) (models.BinaryObject, error) {
	log := logger.FromContext(ctx)

	name, err := cleanObjectPath(objectPath)
	if err != nil {
		return models.BinaryObject{}, err
	}
	if err = ctx.Err(); err != nil {
		return models.BinaryObject{}, err
	}

	sum := blake3.Sum256(payload)
	object := models.BinaryObject{
		Path:        name,
		ContentType: contentType,
		Size:        int64(len(payload)),
		Digest:      hex.EncodeToString(sum[:]),
		UploadedAt:  o.clock.Now(),
	}

	if err = o.writeAtomic(name, payload); err != nil {
		log.Err(err).
			Str("func", "objectStorage.Put").
			Str("path", name).
			Msg("failed to write object")
		return models.BinaryObject{}, fmt.Errorf("%w: %w", ErrWritingObject, err)
	}

	meta, err := json.Marshal(object)
	if err != nil {
		return models.BinaryObject{}, fmt.Errorf("%w: %w", ErrWritingObject, err)
	}
	if err = o.writeAtomic(metaPath(name), meta); err != nil {
		log.Err(err).
			Str("func", "objectStorage.Put").
			Str("path", name).
			Msg("failed to write object metadata")
		return models.BinaryObject{}, fmt.Errorf("%w: %w", ErrWritingObject, err)
	}

	log.Debug().
		Str("func", "objectStorage.Put").
		Str("path", name).
		Int64("size", object.Size).
		Str("digest", object.Digest).
		Msg("object stored")

	return object, nil
}

func (o *objectStorage) Exists(ctx context.Context, objectPath string) (bool, error) {
	name, err := cleanObjectPath(objectPath)
	if err != nil {
		return false, err
	}
	if err = ctx.Err(); err != nil {
		return false, err
	}

	info, err := o.fs.Stat(name)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrReadingObject, err)
	}

	return !info.IsDir(), nil
}

func (o *objectStorage) Stat(ctx context.Context, objectPath string) (models.BinaryObject, error) {
	name, err := cleanObjectPath(objectPath)
	if err != nil {
		return models.BinaryObject{}, err
	}
	if err = ctx.Err(); err != nil {
		return models.BinaryObject{}, err
	}

	info, err := o.fs.Stat(name)
	if errors.Is(err, os.ErrNotExist) || (err == nil && info.IsDir()) {
		return models.BinaryObject{}, ErrObjectNotFound
	}
	if err != nil {
		return models.BinaryObject{}, fmt.Errorf("%w: %w", ErrReadingObject, err)
	}

	raw, err := afero.ReadFile(o.fs, metaPath(name))
	if errors.Is(err, os.ErrNotExist) {
		// objects placed on disk by hand carry no sidecar
		return models.BinaryObject{
			Path:       name,
			Size:       info.Size(),
			UploadedAt: info.ModTime().UTC(),
		}, nil
	}
	if err != nil {
		return models.BinaryObject{}, fmt.Errorf("%w: %w", ErrReadingObject, err)
	}

	var object models.BinaryObject
	if err = json.Unmarshal(raw, &object); err != nil {
		return models.BinaryObject{}, fmt.Errorf("%w: %w", ErrReadingObject, err)
	}

	return object, nil
}

func (o *objectStorage) writeAtomic(name string, data []byte) error {
	dir := path.Dir(name)
	if err := o.fs.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	tmp, err := afero.TempFile(o.fs, dir, ".upload-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		o.fs.Remove(tmpName)
		return err
	}
	if err = tmp.Close(); err != nil {
		o.fs.Remove(tmpName)
		return err
	}

	if err = o.fs.Rename(tmpName, name); err != nil {
		o.fs.Remove(tmpName)
		return err
	}

	return nil
}

// cleanObjectPath normalises a client supplied relative path. Absolute
// paths, parent references and the metadata directory are rejected.
func cleanObjectPath(p string) (string, error) {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" || strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidObjectPath, p)
	}

	for _, part := range strings.Split(p, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidObjectPath, p)
		}
	}

	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == metaDir || strings.HasPrefix(cleaned, metaDir+"/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidObjectPath, p)
	}

	return cleaned, nil
}

func metaPath(name string) string {
	return path.Join(metaDir, name+".json")
}
