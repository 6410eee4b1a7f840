package repository

import (
	"context"
	"database/sql"

	"github.com/space2study/ms-go-api/app/entity"
)

type TokenRepository struct {
	db querier
}

func NewTokenRepository(db querier) *TokenRepository {
	return &TokenRepository{db: db}
}

// Upsert stores the token for (user, kind), replacing any previous one.
// The overwrite is what enforces the single-active-token-per-kind invariant.
func (r *TokenRepository) Upsert(ctx context.Context, token *entity.Token) error {
	query := `
		INSERT INTO tokens (user_id, kind, token, created_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE token = VALUES(token), created_at = VALUES(created_at)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.UserID,
		token.Kind,
		token.Token,
		token.CreatedAt,
	)
	return err
}

func (r *TokenRepository) FindByToken(ctx context.Context, tokenString string, kind entity.TokenKind) (*entity.Token, error) {
	query := `
		SELECT id, user_id, kind, token, created_at
		FROM tokens WHERE token = ? AND kind = ?
	`
	return r.scanToken(r.db.QueryRowContext(ctx, query, tokenString, kind))
}

// FindByUserForUpdate locks the (user, kind) row for the duration of the
// surrounding transaction. Used by refresh rotation so two concurrent
// exchanges of the same token cannot both succeed.
func (r *TokenRepository) FindByUserForUpdate(ctx context.Context, userID uint64, kind entity.TokenKind) (*entity.Token, error) {
	query := `
		SELECT id, user_id, kind, token, created_at
		FROM tokens WHERE user_id = ? AND kind = ? FOR UPDATE
	`
	return r.scanToken(r.db.QueryRowContext(ctx, query, userID, kind))
}

func (r *TokenRepository) DeleteByUser(ctx context.Context, userID uint64, kind entity.TokenKind) error {
	query := `DELETE FROM tokens WHERE user_id = ? AND kind = ?`
	_, err := r.db.ExecContext(ctx, query, userID, kind)
	return err
}

func (r *TokenRepository) scanToken(row *sql.Row) (*entity.Token, error) {
	token := &entity.Token{}
	err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.Kind,
		&token.Token,
		&token.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return token, nil
}
