package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when a user cannot be created because
	// another account already uses the same email.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record was not found")

	// ErrReferenceNotFound is returned when a write references a row that
	// does not exist (foreign key violation).
	ErrReferenceNotFound = errors.New("referenced record was not found")

	// ErrOwnerNotFound is returned when a record is written for a user that
	// does not exist.
	ErrOwnerNotFound = errors.New("owner was not found")

	// ErrConflict is returned when a unique constraint other than the user
	// email rejects a write, or when a conditional update lost a race.
	ErrConflict = errors.New("record conflicts with the stored state")

	// ErrUnsupportedDriver is returned by NewStorages for an unknown driver.
	ErrUnsupportedDriver = errors.New("unsupported storage driver")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	ErrScanningRow  = errors.New("failed to scan row")
	ErrScanningRows = errors.New("failed to scan rows")
)
