package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OTPRepo interface {
	Insert(ctx context.Context, phone, code, userType string, expiresAt time.Time) error
	// Consume marks the matched outstanding code verified. Several codes may
	// be outstanding for the same phone; the newest unverified, unexpired one
	// matching the submitted code wins. Returns false when nothing matched.
	Consume(ctx context.Context, phone, code, userType string) (bool, error)
	// CleanupExpired reaps rows that are expired or already verified.
	CleanupExpired(ctx context.Context) (int64, error)
}

type OTPRepoImpl struct{ pool *pgxpool.Pool }

func NewOTPRepo(pool *pgxpool.Pool) *OTPRepoImpl { return &OTPRepoImpl{pool: pool} }

func (r *OTPRepoImpl) Insert(ctx context.Context, phone, code, userType string, expiresAt time.Time) error {
	const q = `INSERT INTO otp_codes (phone_number, otp, user_type, expires_at)
VALUES ($1,$2,$3,$4)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, phone, code, userType, expiresAt)
	return err
}

func (r *OTPRepoImpl) Consume(ctx context.Context, phone, code, userType string) (bool, error) {
	// Mark exactly one matching row verified. Verified rows stay behind for
	// CleanupExpired to reap.
	const q = `UPDATE otp_codes SET is_verified=TRUE
WHERE id = (
    SELECT id FROM otp_codes
    WHERE phone_number=$1 AND otp=$2 AND user_type=$3
      AND is_verified=FALSE AND expires_at > now()
    ORDER BY created_at DESC, id DESC
    LIMIT 1
)
RETURNING id`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var id int64
	err := r.pool.QueryRow(ctx, q, phone, code, userType).Scan(&id)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *OTPRepoImpl) CleanupExpired(ctx context.Context) (int64, error) {
	const q = `DELETE FROM otp_codes WHERE expires_at < now() OR is_verified=TRUE`
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

var _ OTPRepo = (*OTPRepoImpl)(nil)
