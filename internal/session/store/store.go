package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/session/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. Any engine satisfying the Users capability is
// acceptable to the service layer.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle multi-step operations that must be atomic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Users is the repository capability the core consumes: account lookup plus
// the refresh-token revocation ledger. Refresh token values arrive already
// fingerprinted; the driver never sees raw tokens.
type Users interface {
	// CreateUser inserts a new user (id is provided by the app via ULID).
	// A duplicate email maps to ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up by normalized email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByRefreshTokenHash is the revocation lookup: exact match on the
	// currently stored fingerprint or ErrNotFound. A fingerprint that does
	// not match is already revoked, however valid its signature.
	GetUserByRefreshTokenHash(ctx context.Context, hash string) (domain.User, error)

	// UpdateProfile sets email and name and bumps updated_at. A colliding
	// email maps to ErrAlreadyExists.
	UpdateProfile(ctx context.Context, userID, email, name string) error

	// SaveRefreshToken unconditionally overwrites the stored fingerprint and
	// expiry. This overwrite is the rotation/single-session mechanism.
	SaveRefreshToken(ctx context.Context, userID, hash string, expiresAt time.Time) error

	// RotateRefreshToken replaces oldHash with newHash only if oldHash is
	// still the stored value (compare-and-swap). ErrNotFound means another
	// caller rotated first; of two racing refreshes at most one succeeds.
	RotateRefreshToken(ctx context.Context, userID, oldHash, newHash string, expiresAt time.Time) error

	// ClearRefreshToken nulls both session fields. Idempotent.
	ClearRefreshToken(ctx context.Context, userID string) error
}
