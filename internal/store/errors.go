package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrSessionNotFound is returned when no session matches the given id
	// or device.
	ErrSessionNotFound = errors.New("sync session was not found")

	// ErrSessionNotActive is returned when a state transition targets a
	// session that is no longer in_progress.
	ErrSessionNotActive = errors.New("sync session is not in progress")

	// ErrSessionConflict is returned when opening a session keeps losing the
	// race for the device's single in_progress slot.
	ErrSessionConflict = errors.New("concurrent session open for the same device")

	// ErrPhotoNotFound is returned when a catalog lookup or update targets
	// an id that does not exist.
	ErrPhotoNotFound = errors.New("photo was not found")

	// ErrObjectNotFound is returned when no binary object exists at a path.
	ErrObjectNotFound = errors.New("binary object was not found")

	// ErrInvalidObjectPath is returned for paths that are absolute, escape
	// the store root, or point into the metadata area.
	ErrInvalidObjectPath = errors.New("invalid object path")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a multi-row result fails.
	ErrScanningRows = errors.New("failed to scan rows")

	// ErrEncodingColumn is returned when a structured value cannot be
	// serialized into or parsed from its text column.
	ErrEncodingColumn = errors.New("failed to encode column value")

	// ErrWritingObject is returned when the object store cannot persist a
	// payload or its metadata.
	ErrWritingObject = errors.New("failed to write binary object")

	// ErrReadingObject is returned when the object store cannot stat or read
	// an object.
	ErrReadingObject = errors.New("failed to read binary object")
)
