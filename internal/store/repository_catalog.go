package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/models"
)

type catalogRepository struct {
	*DB
	logger *logger.Logger
}

func NewCatalogRepository(db *DB, logger *logger.Logger) CatalogRepository {
	return &catalogRepository{
		DB:     db,
		logger: logger,
	}
}

func (c *catalogRepository) GetByID(ctx context.Context, id string) (models.Photo, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectPhotoByIDQuery(c.builder(), id)
	if err != nil {
		return models.Photo{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	photo, err := scanPhoto(c.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Photo{}, ErrPhotoNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "catalogRepository.GetByID").
			Str("photo_id", id).
			Msg("failed to scan photo row")
		return models.Photo{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return photo, nil
}

func (c *catalogRepository) InsertIfAbsent(ctx context.Context, photo models.Photo) (bool, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertPhotoIfAbsentQuery(c.builder(), photo)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := c.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "catalogRepository.InsertIfAbsent").
			Str("photo_id", photo.ID).
			Msg("failed to insert photo")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected == 1, nil
}

func (c *catalogRepository) Update(ctx context.Context, photo models.Photo) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdatePhotoQuery(c.builder(), photo)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := c.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "catalogRepository.Update").
			Str("photo_id", photo.ID).
			Msg("failed to update photo")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrPhotoNotFound
	}

	return nil
}

func (c *catalogRepository) ChangedSince(ctx context.Context, watermark time.Time) ([]models.Photo, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectPhotosChangedSinceQuery(c.builder(), watermark.UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := c.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "catalogRepository.ChangedSince").
			Time("watermark", watermark).
			Msg("failed to execute query for changed photos")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	photos := make([]models.Photo, 0)
	for rows.Next() {
		photo, scanErr := scanPhoto(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "catalogRepository.ChangedSince").
				Msg("failed to scan photo row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		photos = append(photos, photo)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "catalogRepository.ChangedSince").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return photos, nil
}

func scanPhoto(row rowScanner) (models.Photo, error) {
	var (
		photo     models.Photo
		takenAt   sql.NullTime
		latitude  sql.NullFloat64
		longitude sql.NullFloat64
		extra     string
	)

	if err := row.Scan(
		&photo.ID,
		&photo.Title,
		&photo.Description,
		&photo.FileName,
		&photo.Path,
		&photo.MediaType,
		&photo.Width,
		&photo.Height,
		&photo.SizeBytes,
		&takenAt,
		&latitude,
		&longitude,
		&photo.Favorite,
		&photo.Checksum,
		&extra,
		&photo.AddTimestamp,
		&photo.ModifiedTimestamp,
	); err != nil {
		return models.Photo{}, err
	}

	if takenAt.Valid {
		t := takenAt.Time.UTC()
		photo.TakenAt = &t
	}
	if latitude.Valid {
		photo.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		photo.Longitude = &longitude.Float64
	}

	var err error
	if photo.Extra, err = decodeExtra(extra); err != nil {
		return models.Photo{}, err
	}

	photo.AddTimestamp = photo.AddTimestamp.UTC()
	photo.ModifiedTimestamp = photo.ModifiedTimestamp.UTC()

	return photo, nil
}
