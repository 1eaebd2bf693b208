package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/moviesuggest/movie_system/internal/common"
)

type GormRepo struct {
	DB *gorm.DB
}

// translate maps gorm sentinel errors into the domain taxonomy. The
// database is opened with TranslateError, so unique-constraint
// violations arrive as gorm.ErrDuplicatedKey on both Postgres and the
// sqlite test driver.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return common.ErrConflict
	}
	return err
}
