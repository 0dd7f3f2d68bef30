// Package store defines the persistence contract for schedule entries.
// Concrete backends live in internal/db (SQLite, PostgreSQL), internal/store/filestore and internal/store/redisstore.
package store

import (
	"context"
	"errors"

	"github.com/stwalsh4118/dayreel/internal/models"
)

// Backend names accepted by configuration
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendFile     = "file"
	BackendRedis    = "redis"
)

// Errors shared by every backend
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Repository is the CRUD contract over schedule entries.
// Every mutating call is written through to durable storage before it returns.
type Repository interface {
	List(ctx context.Context) ([]*models.Entry, error)
	GetByID(ctx context.Context, id string) (*models.Entry, error)
	Create(ctx context.Context, entry *models.Entry) error
	Update(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, id string) error
}

// Backend is a Repository that can report its health and release its resources
type Backend interface {
	Repository
	Health(ctx context.Context) error
	Close() error
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate checks if error is a duplicate error
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// Backends lists every supported backend name
func Backends() []string {
	return []string{BackendSQLite, BackendPostgres, BackendFile, BackendRedis}
}
