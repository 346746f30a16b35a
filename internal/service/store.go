package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/internal/apperrors"
	"github.com/pageza/recipe-catalog/backend/internal/database"
)

// DefaultStorageTimeout bounds a single storage operation
const DefaultStorageTimeout = 5 * time.Second

// store gives services a bounded session on the shared handle
type store struct {
	conn    database.Conn
	timeout time.Duration
}

func newStore(conn database.Conn, timeout time.Duration) store {
	if timeout <= 0 {
		timeout = DefaultStorageTimeout
	}
	return store{conn: conn, timeout: timeout}
}

// session returns a handle bound to a context carrying the storage timeout
func (s store) session(ctx context.Context) (*gorm.DB, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	db, err := s.conn.Get(ctx)
	if err != nil {
		cancel()
		return nil, nil, apperrors.Storage("database unavailable", err)
	}
	return db.WithContext(ctx), cancel, nil
}

// storageError converts a gorm error into the application taxonomy.
// Errors already in the taxonomy pass through.
func storageError(message string, err error, entity string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(entity)
	}
	return apperrors.Storage(message, err)
}
