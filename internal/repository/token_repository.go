package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/isuci/isuci-backend/internal/database"
)

// TokenRepo persists/validates refresh tokens (single 'token_hash' column).
type TokenRepo struct {
	DB     *sql.DB
	Driver string
}

func NewTokenRepo(db *sql.DB, driver string) *TokenRepo { return &TokenRepo{DB: db, Driver: driver} }

func (r *TokenRepo) q(query string) string { return database.Rebind(r.Driver, query) }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, documentID, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		r.q("INSERT INTO refresh_tokens (iddocumento, token_hash, expires_at) VALUES (?,?,?)"),
		documentID, tokenHash, exp)
	return storeErr(err)
}

// ValidateRefresh returns the owning document id if a non-revoked,
// non-expired token exists, and ErrNotFound otherwise.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (string, error) {
	var (
		documentID string
		expiresAt  time.Time
		revokedAt  sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		r.q("SELECT iddocumento, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1"),
		tokenHash).Scan(&documentID, &expiresAt, &revokedAt)
	if err != nil {
		return "", storeErr(err)
	}
	if revokedAt.Valid || time.Now().UTC().After(expiresAt) {
		return "", ErrNotFound
	}
	return documentID, nil
}

// RevokeByHash revokes a live token.  The UPDATE is the claim: of several
// concurrent callers holding the same token exactly one sees a row change,
// the others (and any caller with a revoked, expired or unknown token) get
// ErrNotFound.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	res, err := r.DB.ExecContext(ctx,
		r.q("UPDATE refresh_tokens SET revoked_at=CURRENT_TIMESTAMP WHERE token_hash=? AND revoked_at IS NULL AND expires_at > ?"),
		tokenHash, time.Now().UTC())
	if err != nil {
		return storeErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if n != 1 {
		return ErrNotFound
	}
	return nil
}

// RevokeAllForUser revokes all of a user's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, documentID string) error {
	_, err := r.DB.ExecContext(ctx,
		r.q("UPDATE refresh_tokens SET revoked_at=CURRENT_TIMESTAMP WHERE iddocumento=? AND revoked_at IS NULL"),
		documentID)
	return storeErr(err)
}
