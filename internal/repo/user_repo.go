package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"shoplist/internal/domain"
)

// UserRepo provides user persistence. Users are only ever read by the
// API; creation happens through the seed tool.
type UserRepo interface {
	GetByName(ctx context.Context, name string) (domain.User, error)
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetByName returns the user with the given unique name.
func (r *PGUserRepo) GetByName(ctx context.Context, name string) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx,
		`SELECT id, name, password_hash, created, updated FROM users WHERE name = $1`,
		name,
	).Scan(&u.ID, &u.Name, &u.PasswordHash, &u.Created, &u.Updated)
	return u, err
}
