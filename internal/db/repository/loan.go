package repository

import (
	"context"
	"database/sql"
	"fmt"

	"loan-predict/internal/domain"
)

const loanColumns = `id, account_id, gr_appv, term, state, naics_sectors, is_new, franchise,
	no_emp, rev_line_cr, low_doc, rural, approved, created_at`

// LoanRepo implements domain.LoanRepository.
type LoanRepo struct {
	write *sql.DB
	read  *sql.DB
}

// NewLoanRepo creates a LoanRepo.
func NewLoanRepo(write, read *sql.DB) *LoanRepo {
	return &LoanRepo{write: write, read: read}
}

var _ domain.LoanRepository = (*LoanRepo)(nil)

func (r *LoanRepo) Create(ctx context.Context, l *domain.LoanRequest) (*domain.LoanRequest, error) {
	f := l.Features
	res, err := r.write.ExecContext(ctx,
		`INSERT INTO loan_requests (account_id, gr_appv, term, state, naics_sectors, is_new, franchise,
			no_emp, rev_line_cr, low_doc, rural, approved)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.AccountID, f.GrAppv, f.Term, f.State, f.NAICSSectors, f.New, f.Franchise,
		f.NoEmp, f.RevLineCr, f.LowDoc, f.Rural, boolToInt(l.Approved))
	if err != nil {
		return nil, fmt.Errorf("insert loan request: %w", mapDBError(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	created, err := scanLoan(r.write.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loan_requests WHERE id = ?`, id))
	if err != nil {
		return nil, mapDBError(err)
	}
	return created, nil
}

// List returns loan requests newest first, scoped to OwnerID when set.
func (r *LoanRepo) List(ctx context.Context, filter domain.LoanFilter) ([]domain.LoanRequest, int64, error) {
	where, args := ownerClause("account_id", filter.OwnerID)

	var total int64
	if err := r.read.QueryRowContext(ctx, `SELECT COUNT(*) FROM loan_requests`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count loan requests: %w", err)
	}

	rows, err := r.read.QueryContext(ctx,
		`SELECT `+loanColumns+` FROM loan_requests`+where+` ORDER BY id DESC LIMIT ? OFFSET ?`,
		append(args, filter.Page.Limit(), filter.Page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list loan requests: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var loans []domain.LoanRequest
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, 0, err
		}
		loans = append(loans, *l)
	}
	return loans, total, rows.Err()
}

func scanLoan(s scanner) (*domain.LoanRequest, error) {
	var (
		l         domain.LoanRequest
		approved  int64
		createdAt string
	)
	f := &l.Features
	if err := s.Scan(&l.ID, &l.AccountID, &f.GrAppv, &f.Term, &f.State, &f.NAICSSectors, &f.New,
		&f.Franchise, &f.NoEmp, &f.RevLineCr, &f.LowDoc, &f.Rural, &approved, &createdAt); err != nil {
		return nil, err
	}
	l.Approved = approved != 0
	l.CreatedAt = parseTime(createdAt)
	return &l, nil
}
