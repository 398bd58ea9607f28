package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tiendasol/presupuestos-api/internal/domain/entity"
	"github.com/tiendasol/presupuestos-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación del puerto SessionRepository sobre PostgreSQL.
// Guardar la sesión en la base hace efectivos el logout y la expiración por
// inactividad aunque el token JWT siga circulando.
type SessionRepo struct {
	q Querier
}

func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

func (r *SessionRepo) Create(ctx context.Context, session *entity.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, username, role, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		session.ID, session.UserID, session.Username, string(session.Role),
		session.CreatedAt, session.LastSeenAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	query := `
		SELECT id, user_id, username, role, created_at, last_seen_at
		FROM sessions WHERE id = $1`
	var (
		s    entity.Session
		role string
	)
	err := r.q.QueryRow(ctx, query, id).
		Scan(&s.ID, &s.UserID, &s.Username, &role, &s.CreatedAt, &s.LastSeenAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	s.Role = entity.Role(role)
	return &s, nil
}

func (r *SessionRepo) Touch(ctx context.Context, id string, seenAt time.Time) error {
	_, err := r.q.Exec(ctx, `UPDATE sessions SET last_seen_at = $2 WHERE id = $1`, id, seenAt)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
