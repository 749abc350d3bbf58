package domain

import "context"

// AccountFilter scopes account queries. A nil OwnerID lists every account.
type AccountFilter struct {
	OwnerID *int64
	Page    PageRequest
}

// AccountRepository persists accounts.
type AccountRepository interface {
	// Create inserts the account, failing with a ConflictError when the
	// username or email is already taken.
	Create(ctx context.Context, a *Account) (*Account, error)
	GetByID(ctx context.Context, id int64) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	// Activate sets the hash and flips the account active. It fails with a
	// ValidationError if the account is already active.
	Activate(ctx context.Context, id int64, hash string) error
	List(ctx context.Context, filter AccountFilter) ([]Account, int64, error)
}

// LoanFilter scopes loan queries. A nil OwnerID lists every request.
type LoanFilter struct {
	OwnerID *int64
	Page    PageRequest
}

// LoanRepository persists scored loan requests.
type LoanRepository interface {
	Create(ctx context.Context, l *LoanRequest) (*LoanRequest, error)
	List(ctx context.Context, filter LoanFilter) ([]LoanRequest, int64, error)
}
