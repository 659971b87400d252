package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/session/domain"
	"github.com/aussiebroadwan/sessiond/internal/session/store"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const userColumns = `id, email, name, password_hash, refresh_token_hash, refresh_token_expires_at, created_at, updated_at`

type usersRepo struct {
	db querier
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Name, u.PasswordHash, now, now,
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *usersRepo) GetUserByRefreshTokenHash(ctx context.Context, hash string) (domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE refresh_token_hash = $1`, hash))
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID, email, name string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET email = $1, name = $2, updated_at = $3 WHERE id = $4`,
		email, name, time.Now().UTC(), userID,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRow(tag)
}

func (r *usersRepo) SaveRefreshToken(ctx context.Context, userID, hash string, expiresAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET refresh_token_hash = $1, refresh_token_expires_at = $2, updated_at = $3 WHERE id = $4`,
		hash, expiresAt.UTC(), time.Now().UTC(), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(tag)
}

func (r *usersRepo) RotateRefreshToken(ctx context.Context, userID, oldHash, newHash string, expiresAt time.Time) error {
	// Compare-and-swap on the stored fingerprint; a lost race updates zero
	// rows and surfaces as ErrNotFound.
	tag, err := r.db.Exec(ctx,
		`UPDATE users
		    SET refresh_token_hash = $1, refresh_token_expires_at = $2, updated_at = $3
		  WHERE id = $4 AND refresh_token_hash = $5`,
		newHash, expiresAt.UTC(), time.Now().UTC(), userID, oldHash,
	)
	if err != nil {
		return err
	}
	return requireRow(tag)
}

func (r *usersRepo) ClearRefreshToken(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET refresh_token_hash = NULL, refresh_token_expires_at = NULL, updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), userID,
	)
	return err
}

func requireRow(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapConstraint(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return store.ErrAlreadyExists
	}
	return err
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.RefreshTokenHash,
		&u.RefreshTokenExpiresAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}
