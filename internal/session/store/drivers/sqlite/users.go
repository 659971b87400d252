package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/session/domain"
	"github.com/aussiebroadwan/sessiond/internal/session/store"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const userColumns = `id, email, name, password_hash, refresh_token_hash, refresh_token_expires_at, created_at, updated_at`

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.PasswordHash, now, now,
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (r *usersRepo) GetUserByRefreshTokenHash(ctx context.Context, hash string) (domain.User, error) {
	// NULL never matches, so logged-out users are excluded here.
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE refresh_token_hash = ?`, hash))
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID, email, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = ?, name = ?, updated_at = ? WHERE id = ?`,
		email, name, time.Now().UTC(), userID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRow(res)
}

func (r *usersRepo) SaveRefreshToken(ctx context.Context, userID, hash string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET refresh_token_hash = ?, refresh_token_expires_at = ?, updated_at = ? WHERE id = ?`,
		hash, expiresAt.UTC(), time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) RotateRefreshToken(ctx context.Context, userID, oldHash, newHash string, expiresAt time.Time) error {
	// Single-statement compare-and-swap: the stored fingerprint must still be
	// oldHash or no row updates and the caller sees ErrNotFound.
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		    SET refresh_token_hash = ?, refresh_token_expires_at = ?, updated_at = ?
		  WHERE id = ? AND refresh_token_hash = ?`,
		newHash, expiresAt.UTC(), time.Now().UTC(), userID, oldHash,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) ClearRefreshToken(ctx context.Context, userID string) error {
	// Idempotent: clearing an already-clear or unknown user is not an error.
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET refresh_token_hash = NULL, refresh_token_expires_at = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID,
	)
	return err
}

func requireRow(res interface{ RowsAffected() (int64, error) }) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapConstraint(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return store.ErrAlreadyExists
		}
	}
	return err
}
