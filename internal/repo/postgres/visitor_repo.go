package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SahanaD8/Trackify/internal/domain"
)

type VisitorRepo interface {
	FindByPhone(ctx context.Context, phone string) (*domain.Visitor, error)
	GetByID(ctx context.Context, id int64) (*domain.Visitor, error)
	Create(ctx context.Context, name, phone, email, place, badgeToken string) (*domain.Visitor, error)
	// BackfillEmail sets the email only when the stored one is empty.
	BackfillEmail(ctx context.Context, id int64, email string) error
	// SetCheckIn overwrites the visit columns and moves the visit to pending.
	SetCheckIn(ctx context.Context, id int64, purpose, whomToMeet string, checkIn time.Time) error
	// SetStatusIfPending transitions pending -> accepted/rejected; reports
	// whether a pending row was actually updated.
	SetStatusIfPending(ctx context.Context, id int64, status domain.VisitStatus, approvedAt time.Time) (bool, error)
	// CheckOutActive stamps check_out_time on an accepted, not-yet-checked-out
	// visit; reports whether such a visit existed.
	CheckOutActive(ctx context.Context, phone string, checkOut time.Time) (bool, error)

	ListAll(ctx context.Context, limit int) ([]domain.Visitor, error)
	ListPending(ctx context.Context) ([]domain.Visitor, error)
	ListCheckedInOn(ctx context.Context, day time.Time) ([]domain.Visitor, error)
	ListCheckedInBetween(ctx context.Context, from, to time.Time) ([]domain.Visitor, error)
	ListActiveOn(ctx context.Context, day time.Time) ([]domain.Visitor, error)
	StatsOn(ctx context.Context, day time.Time) (*domain.VisitStats, error)
}

type VisitorRepoImpl struct{ pool *pgxpool.Pool }

func NewVisitorRepo(pool *pgxpool.Pool) *VisitorRepoImpl { return &VisitorRepoImpl{pool: pool} }

const visitorCols = `id, name, phone_number, email, place, badge_token,
purpose, whom_to_meet, check_in_time, check_out_time, status, approved_at, created_at`

func scanVisitor(row pgx.Row) (*domain.Visitor, error) {
	var v domain.Visitor
	var status *string
	err := row.Scan(
		&v.ID, &v.Name, &v.Phone, &v.Email, &v.Place, &v.BadgeToken,
		&v.Purpose, &v.WhomToMeet, &v.CheckInTime, &v.CheckOutTime, &status, &v.ApprovedAt, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if status != nil {
		if s, ok := domain.ParseVisitStatus(*status); ok {
			v.Status = &s
		}
	}
	return &v, nil
}

func (r *VisitorRepoImpl) FindByPhone(ctx context.Context, phone string) (*domain.Visitor, error) {
	const q = `SELECT ` + visitorCols + ` FROM visitors WHERE phone_number=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	v, err := scanVisitor(r.pool.QueryRow(ctx, q, phone))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return v, err
}

func (r *VisitorRepoImpl) GetByID(ctx context.Context, id int64) (*domain.Visitor, error) {
	const q = `SELECT ` + visitorCols + ` FROM visitors WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	v, err := scanVisitor(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return v, err
}

func (r *VisitorRepoImpl) Create(ctx context.Context, name, phone, email, place, badgeToken string) (*domain.Visitor, error) {
	const q = `INSERT INTO visitors (name, phone_number, email, place, badge_token)
VALUES ($1,$2,$3,$4,$5)
RETURNING ` + visitorCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanVisitor(r.pool.QueryRow(ctx, q, name, phone, email, place, badgeToken))
}

func (r *VisitorRepoImpl) BackfillEmail(ctx context.Context, id int64, email string) error {
	const q = `UPDATE visitors SET email=$1 WHERE id=$2 AND (email IS NULL OR email='')`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, email, id)
	return err
}

func (r *VisitorRepoImpl) SetCheckIn(ctx context.Context, id int64, purpose, whomToMeet string, checkIn time.Time) error {
	const q = `UPDATE visitors
SET purpose=$1, whom_to_meet=$2, check_in_time=$3,
    check_out_time=NULL, approved_at=NULL, status='pending'
WHERE id=$4`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q, purpose, whomToMeet, checkIn, id)
	return err
}

func (r *VisitorRepoImpl) SetStatusIfPending(ctx context.Context, id int64, status domain.VisitStatus, approvedAt time.Time) (bool, error) {
	const q = `UPDATE visitors SET status=$1, approved_at=$2 WHERE id=$3 AND status='pending'`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, status, approvedAt, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *VisitorRepoImpl) CheckOutActive(ctx context.Context, phone string, checkOut time.Time) (bool, error) {
	const q = `UPDATE visitors SET check_out_time=$1
WHERE phone_number=$2 AND status='accepted' AND check_out_time IS NULL`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, checkOut, phone)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *VisitorRepoImpl) list(ctx context.Context, q string, args ...any) ([]domain.Visitor, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vs := make([]domain.Visitor, 0)
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, err
		}
		vs = append(vs, *v)
	}
	return vs, rows.Err()
}

func (r *VisitorRepoImpl) ListAll(ctx context.Context, limit int) ([]domain.Visitor, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const q = `SELECT ` + visitorCols + ` FROM visitors ORDER BY created_at DESC LIMIT $1`
	return r.list(ctx, q, limit)
}

func (r *VisitorRepoImpl) ListPending(ctx context.Context) ([]domain.Visitor, error) {
	const q = `SELECT ` + visitorCols + ` FROM visitors WHERE status='pending' ORDER BY created_at DESC`
	return r.list(ctx, q)
}

func (r *VisitorRepoImpl) ListCheckedInOn(ctx context.Context, day time.Time) ([]domain.Visitor, error) {
	const q = `SELECT ` + visitorCols + ` FROM visitors
WHERE check_in_time::date = $1::date
ORDER BY check_in_time DESC, id DESC`
	return r.list(ctx, q, day)
}

func (r *VisitorRepoImpl) ListCheckedInBetween(ctx context.Context, from, to time.Time) ([]domain.Visitor, error) {
	const q = `SELECT ` + visitorCols + ` FROM visitors
WHERE check_in_time::date BETWEEN $1::date AND $2::date
ORDER BY check_in_time ASC, id ASC`
	return r.list(ctx, q, from, to)
}

func (r *VisitorRepoImpl) ListActiveOn(ctx context.Context, day time.Time) ([]domain.Visitor, error) {
	const q = `SELECT ` + visitorCols + ` FROM visitors
WHERE status='accepted' AND check_out_time IS NULL AND check_in_time::date = $1::date
ORDER BY check_in_time DESC, id DESC`
	return r.list(ctx, q, day)
}

func (r *VisitorRepoImpl) StatsOn(ctx context.Context, day time.Time) (*domain.VisitStats, error) {
	const q = `SELECT
COUNT(*),
COUNT(*) FILTER (WHERE status='pending'),
COUNT(*) FILTER (WHERE status='accepted'),
COUNT(*) FILTER (WHERE status='rejected'),
COUNT(*) FILTER (WHERE status='accepted' AND check_out_time IS NULL)
FROM visitors
WHERE check_in_time::date = $1::date`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var s domain.VisitStats
	err := r.pool.QueryRow(ctx, q, day).Scan(
		&s.TotalVisits, &s.Pending, &s.Accepted, &s.Rejected, &s.CurrentlyInside,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

var _ VisitorRepo = (*VisitorRepoImpl)(nil)
