package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SahanaD8/Trackify/internal/domain"
)

type StaffRepo interface {
	FindByPhone(ctx context.Context, phone string) (*domain.Staff, error)
	GetByID(ctx context.Context, id int64) (*domain.Staff, error)
	// FindByNameOrID resolves a free-text "whom to meet" field against the
	// staff directory.
	FindByNameOrID(ctx context.Context, nameOrID string) (*domain.Staff, error)
	List(ctx context.Context) ([]domain.Staff, error)

	// OpenOuting returns the most recent open outing for a staff member,
	// or nil when every outing is closed. Ties on exit_time break by row id.
	OpenOuting(ctx context.Context, staffID int64) (*domain.EntryLog, error)
	InsertExit(ctx context.Context, staffID int64, purpose string, exitTime time.Time) (*domain.EntryLog, error)
	// CloseOuting stamps entry_time on a still-open row; reports whether the
	// row was open.
	CloseOuting(ctx context.Context, logID int64, entryTime time.Time) (bool, error)

	LogsByStaff(ctx context.Context, staffID int64) ([]domain.EntryLog, error)
	LogsOn(ctx context.Context, day time.Time) ([]domain.StaffLogEntry, error)
	LogsBetween(ctx context.Context, from, to time.Time) ([]domain.StaffLogEntry, error)
	// MovementCountsOn returns how many exits and returns were recorded on
	// the given day.
	MovementCountsOn(ctx context.Context, day time.Time) (exits, entries int, err error)
}

type StaffRepoImpl struct{ pool *pgxpool.Pool }

func NewStaffRepo(pool *pgxpool.Pool) *StaffRepoImpl { return &StaffRepoImpl{pool: pool} }

const staffCols = `id, name, phone_number, email, department, created_at`

func scanStaff(row pgx.Row) (*domain.Staff, error) {
	var s domain.Staff
	err := row.Scan(&s.ID, &s.Name, &s.Phone, &s.Email, &s.Department, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StaffRepoImpl) FindByPhone(ctx context.Context, phone string) (*domain.Staff, error) {
	const q = `SELECT ` + staffCols + ` FROM staff WHERE phone_number=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanStaff(r.pool.QueryRow(ctx, q, phone))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *StaffRepoImpl) GetByID(ctx context.Context, id int64) (*domain.Staff, error) {
	const q = `SELECT ` + staffCols + ` FROM staff WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanStaff(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *StaffRepoImpl) FindByNameOrID(ctx context.Context, nameOrID string) (*domain.Staff, error) {
	const q = `SELECT ` + staffCols + ` FROM staff
WHERE name ILIKE '%' || $1 || '%' OR id::text = $1
ORDER BY id LIMIT 1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	s, err := scanStaff(r.pool.QueryRow(ctx, q, nameOrID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return s, err
}

func (r *StaffRepoImpl) List(ctx context.Context) ([]domain.Staff, error) {
	const q = `SELECT ` + staffCols + ` FROM staff ORDER BY name`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ss := make([]domain.Staff, 0)
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		ss = append(ss, *s)
	}
	return ss, rows.Err()
}

const entryLogCols = `id, staff_id, purpose, exit_time, entry_time, created_at`

func scanEntryLog(row pgx.Row) (*domain.EntryLog, error) {
	var l domain.EntryLog
	err := row.Scan(&l.ID, &l.StaffID, &l.Purpose, &l.ExitTime, &l.EntryTime, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *StaffRepoImpl) OpenOuting(ctx context.Context, staffID int64) (*domain.EntryLog, error) {
	const q = `SELECT ` + entryLogCols + ` FROM staff_entry_logs
WHERE staff_id=$1 AND entry_time IS NULL
ORDER BY exit_time DESC, id DESC
LIMIT 1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	l, err := scanEntryLog(r.pool.QueryRow(ctx, q, staffID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return l, err
}

func (r *StaffRepoImpl) InsertExit(ctx context.Context, staffID int64, purpose string, exitTime time.Time) (*domain.EntryLog, error) {
	const q = `INSERT INTO staff_entry_logs (staff_id, purpose, exit_time)
VALUES ($1,$2,$3)
RETURNING ` + entryLogCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanEntryLog(r.pool.QueryRow(ctx, q, staffID, purpose, exitTime))
}

func (r *StaffRepoImpl) CloseOuting(ctx context.Context, logID int64, entryTime time.Time) (bool, error) {
	const q = `UPDATE staff_entry_logs SET entry_time=$1 WHERE id=$2 AND entry_time IS NULL`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	ct, err := r.pool.Exec(ctx, q, entryTime, logID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *StaffRepoImpl) LogsByStaff(ctx context.Context, staffID int64) ([]domain.EntryLog, error) {
	const q = `SELECT ` + entryLogCols + ` FROM staff_entry_logs
WHERE staff_id=$1 ORDER BY exit_time DESC, id DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ls := make([]domain.EntryLog, 0)
	for rows.Next() {
		l, err := scanEntryLog(rows)
		if err != nil {
			return nil, err
		}
		ls = append(ls, *l)
	}
	return ls, rows.Err()
}

const staffLogJoin = `SELECT l.id, l.staff_id, l.purpose, l.exit_time, l.entry_time, l.created_at,
s.name, s.phone_number, s.department
FROM staff_entry_logs l
JOIN staff s ON l.staff_id = s.id`

func (r *StaffRepoImpl) logEntries(ctx context.Context, q string, args ...any) ([]domain.StaffLogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ls := make([]domain.StaffLogEntry, 0)
	for rows.Next() {
		var e domain.StaffLogEntry
		if err := rows.Scan(
			&e.ID, &e.StaffID, &e.Purpose, &e.ExitTime, &e.EntryTime, &e.CreatedAt,
			&e.StaffName, &e.Phone, &e.Department,
		); err != nil {
			return nil, err
		}
		ls = append(ls, e)
	}
	return ls, rows.Err()
}

func (r *StaffRepoImpl) LogsOn(ctx context.Context, day time.Time) ([]domain.StaffLogEntry, error) {
	q := staffLogJoin + `
WHERE l.exit_time::date = $1::date OR l.entry_time::date = $1::date
ORDER BY COALESCE(l.entry_time, l.exit_time) DESC, l.id DESC`
	return r.logEntries(ctx, q, day)
}

func (r *StaffRepoImpl) LogsBetween(ctx context.Context, from, to time.Time) ([]domain.StaffLogEntry, error) {
	q := staffLogJoin + `
WHERE l.exit_time::date BETWEEN $1::date AND $2::date
ORDER BY l.exit_time ASC, l.id ASC`
	return r.logEntries(ctx, q, from, to)
}

func (r *StaffRepoImpl) MovementCountsOn(ctx context.Context, day time.Time) (int, int, error) {
	const q = `SELECT
COUNT(*) FILTER (WHERE exit_time::date = $1::date),
COUNT(*) FILTER (WHERE entry_time::date = $1::date)
FROM staff_entry_logs`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exits, entries int
	err := r.pool.QueryRow(ctx, q, day).Scan(&exits, &entries)
	return exits, entries, err
}

var _ StaffRepo = (*StaffRepoImpl)(nil)
