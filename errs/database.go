package errs

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Database & Storage Specific Errors
var (
	ErrStorage            = errors.New("storage failure")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// FromDatabase translates a storage-layer error into the public
// taxonomy. GORM is opened with TranslateError, so a unique-index race
// loser arrives here as gorm.ErrDuplicatedKey and surfaces as the same
// Conflict a sequential caller would have seen. Write failures are
// never retried; non-translatable errors become a StorageError.
func FromDatabase(operation, entity string, cause error) *ApiErr {
	switch {
	case errors.Is(cause, gorm.ErrDuplicatedKey):
		return &ApiErr{
			StatusCode: http.StatusConflict,
			err:        ErrConflict,
			Details:    fmt.Sprintf("%s already exists", entity),
			Cause:      cause,
		}
	case errors.Is(cause, gorm.ErrForeignKeyViolated):
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			err:        ErrNotFound,
			Details:    fmt.Sprintf("referenced %s does not exist", entity),
			Cause:      cause,
		}
	case errors.Is(cause, gorm.ErrRecordNotFound):
		return &ApiErr{
			StatusCode: http.StatusNotFound,
			err:        ErrNotFound,
			Details:    fmt.Sprintf("%s not found", entity),
			Cause:      cause,
		}
	}
	return NewStorageError(operation, entity, cause)
}

func NewStorageError(operation, entity string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStorage,
		Details:    fmt.Sprintf("failed to %s %s", operation, entity),
		Cause:      cause,
	}
}

func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
