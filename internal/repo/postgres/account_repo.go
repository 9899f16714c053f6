package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SahanaD8/Trackify/internal/domain"
)

type AccountRepo interface {
	FindByPhoneRole(ctx context.Context, phone, role string) (*domain.Account, error)
	MarkLoggedIn(ctx context.Context, id int64, at time.Time) error
	MarkLoggedOut(ctx context.Context, phone, role string) error
}

type AccountRepoImpl struct{ pool *pgxpool.Pool }

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepoImpl { return &AccountRepoImpl{pool: pool} }

const accountCols = `id, name, phone_number, role, password_hash, is_logged_in, last_login, created_at`

func (r *AccountRepoImpl) FindByPhoneRole(ctx context.Context, phone, role string) (*domain.Account, error) {
	const q = `SELECT ` + accountCols + ` FROM accounts WHERE phone_number=$1 AND role=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var a domain.Account
	err := r.pool.QueryRow(ctx, q, phone, role).Scan(
		&a.ID, &a.Name, &a.Phone, &a.Role, &a.PasswordHash, &a.IsLoggedIn, &a.LastLogin, &a.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepoImpl) MarkLoggedIn(ctx context.Context, id int64, at time.Time) error {
	const q = `UPDATE accounts SET is_logged_in=TRUE, last_login=$1 WHERE id=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, at, id)
	return err
}

func (r *AccountRepoImpl) MarkLoggedOut(ctx context.Context, phone, role string) error {
	const q = `UPDATE accounts SET is_logged_in=FALSE WHERE phone_number=$1 AND role=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, phone, role)
	return err
}

var _ AccountRepo = (*AccountRepoImpl)(nil)
