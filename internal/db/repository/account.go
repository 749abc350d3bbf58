package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"loan-predict/internal/domain"
)

const accountColumns = `id, username, email, password_hash, role, is_active, created_at, updated_at`

// AccountRepo implements domain.AccountRepository. Mutations go through the
// single-connection write pool; lookups use the read pool.
type AccountRepo struct {
	write *sql.DB
	read  *sql.DB
}

// NewAccountRepo creates an AccountRepo.
func NewAccountRepo(write, read *sql.DB) *AccountRepo {
	return &AccountRepo{write: write, read: read}
}

var _ domain.AccountRepository = (*AccountRepo)(nil)

// Create checks both unique fields and inserts the account inside one
// immediate transaction. A UNIQUE violation from a racing writer maps to the
// same conflict as the pre-check.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	tx, err := r.write.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	taken, err := existsByUsernameOrEmail(ctx, tx, a.Username, a.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrAccountTaken()
	}

	role := a.Role
	if role == "" {
		role = domain.RoleUser
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (username, email, password_hash, role, is_active) VALUES (?, ?, ?, ?, ?)`,
		a.Username, a.Email, a.PasswordHash, string(role), boolToInt(a.IsActive))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAccountTaken()
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	created, err := scanAccount(tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAccountTaken()
		}
		return nil, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	a, err := scanAccount(r.read.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "account %d not found", id)
	}
	return a, nil
}

func (r *AccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	a, err := scanAccount(r.read.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username))
	if err != nil {
		return nil, notFound(err, "account %q not found", username)
	}
	return a, nil
}

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	a, err := scanAccount(r.read.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email))
	if err != nil {
		return nil, notFound(err, "no account with email %q", email)
	}
	return a, nil
}

func (r *AccountRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	return existsByUsernameOrEmail(ctx, r.read, username, email)
}

func (r *AccountRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.write.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ?, updated_at = datetime('now') WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound("account %d not found", id)
	}
	return nil
}

// Activate only matches inactive rows, so of two concurrent activations
// exactly one succeeds and the other sees ErrAlreadyActive.
func (r *AccountRepo) Activate(ctx context.Context, id int64, hash string) error {
	tx, err := r.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET password_hash = ?, is_active = 1, updated_at = datetime('now')
		 WHERE id = ? AND is_active = 0`, hash, id)
	if err != nil {
		return fmt.Errorf("activate account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		var active int64
		err := tx.QueryRowContext(ctx, `SELECT is_active FROM accounts WHERE id = ?`, id).Scan(&active)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound("account %d not found", id)
		}
		if err != nil {
			return fmt.Errorf("lookup account: %w", err)
		}
		return domain.ErrAlreadyActive()
	}
	return tx.Commit()
}

// List returns accounts ordered by id. The owner scope is applied in the
// query, before LIMIT and OFFSET.
func (r *AccountRepo) List(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int64, error) {
	where, args := ownerClause("id", filter.OwnerID)

	var total int64
	if err := r.read.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	rows, err := r.read.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts`+where+` ORDER BY id LIMIT ? OFFSET ?`,
		append(args, filter.Page.Limit(), filter.Page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, total, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*domain.Account, error) {
	var (
		a                    domain.Account
		role                 string
		active               int64
		createdAt, updatedAt string
	)
	if err := s.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &role, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	a.Role = domain.Role(role)
	a.IsActive = active != 0
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	return &a, nil
}

func existsByUsernameOrEmail(ctx context.Context, q queryer, username, email string) (bool, error) {
	var n int64
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM accounts WHERE username = ? OR email = ?`, username, email).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check account exists: %w", err)
	}
	return n > 0, nil
}

// notFound turns sql.ErrNoRows into a NotFoundError with a specific message.
func notFound(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound(format, args...)
	}
	return mapDBError(err)
}

// ownerClause builds the WHERE clause for an optional owner scope.
func ownerClause(column string, ownerID *int64) (string, []any) {
	if ownerID == nil {
		return "", nil
	}
	return " WHERE " + column + " = ?", []any{*ownerID}
}
