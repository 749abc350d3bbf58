// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase.
package testutil

import (
	"context"

	"loan-predict/internal/domain"
)

// === Account Repository Mock ===

// MockAccountRepo implements domain.AccountRepository for testing.
type MockAccountRepo struct {
	CreateFn                  func(ctx context.Context, a *domain.Account) (*domain.Account, error)
	GetByIDFn                 func(ctx context.Context, id int64) (*domain.Account, error)
	GetByUsernameFn           func(ctx context.Context, username string) (*domain.Account, error)
	GetByEmailFn              func(ctx context.Context, email string) (*domain.Account, error)
	ExistsByUsernameOrEmailFn func(ctx context.Context, username, email string) (bool, error)
	UpdatePasswordHashFn      func(ctx context.Context, id int64, hash string) error
	ActivateFn                func(ctx context.Context, id int64, hash string) error
	ListFn                    func(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int64, error)
}

var _ domain.AccountRepository = (*MockAccountRepo)(nil)

// Create implements the interface method for testing.
func (m *MockAccountRepo) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	panic("unexpected call to MockAccountRepo.Create")
}

// GetByID implements the interface method for testing.
func (m *MockAccountRepo) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	panic("unexpected call to MockAccountRepo.GetByID")
}

// GetByUsername implements the interface method for testing.
func (m *MockAccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}
	panic("unexpected call to MockAccountRepo.GetByUsername")
}

// GetByEmail implements the interface method for testing.
func (m *MockAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	panic("unexpected call to MockAccountRepo.GetByEmail")
}

// ExistsByUsernameOrEmail implements the interface method for testing.
func (m *MockAccountRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	if m.ExistsByUsernameOrEmailFn != nil {
		return m.ExistsByUsernameOrEmailFn(ctx, username, email)
	}
	panic("unexpected call to MockAccountRepo.ExistsByUsernameOrEmail")
}

// UpdatePasswordHash implements the interface method for testing.
func (m *MockAccountRepo) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	if m.UpdatePasswordHashFn != nil {
		return m.UpdatePasswordHashFn(ctx, id, hash)
	}
	panic("unexpected call to MockAccountRepo.UpdatePasswordHash")
}

// Activate implements the interface method for testing.
func (m *MockAccountRepo) Activate(ctx context.Context, id int64, hash string) error {
	if m.ActivateFn != nil {
		return m.ActivateFn(ctx, id, hash)
	}
	panic("unexpected call to MockAccountRepo.Activate")
}

// List implements the interface method for testing.
func (m *MockAccountRepo) List(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	panic("unexpected call to MockAccountRepo.List")
}

// === Loan Repository Mock ===

// MockLoanRepo implements domain.LoanRepository for testing.
type MockLoanRepo struct {
	CreateFn func(ctx context.Context, l *domain.LoanRequest) (*domain.LoanRequest, error)
	ListFn   func(ctx context.Context, filter domain.LoanFilter) ([]domain.LoanRequest, int64, error)
	Created  []*domain.LoanRequest // collected requests for assertions
}

var _ domain.LoanRepository = (*MockLoanRepo)(nil)

// Create implements the interface method for testing. Without CreateFn it
// records the request and assigns sequential IDs.
func (m *MockLoanRepo) Create(ctx context.Context, l *domain.LoanRequest) (*domain.LoanRequest, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	stored := *l
	stored.ID = int64(len(m.Created) + 1)
	m.Created = append(m.Created, &stored)
	return &stored, nil
}

// List implements the interface method for testing.
func (m *MockLoanRepo) List(ctx context.Context, filter domain.LoanFilter) ([]domain.LoanRequest, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	panic("unexpected call to MockLoanRepo.List")
}

// === Predictor Mock ===

// MockPredictor implements domain.Predictor for testing.
type MockPredictor struct {
	PredictFn func(ctx context.Context, f domain.LoanFeatures) (bool, error)
	Calls     []domain.LoanFeatures
}

var _ domain.Predictor = (*MockPredictor)(nil)

// Predict implements the interface method for testing.
func (m *MockPredictor) Predict(ctx context.Context, f domain.LoanFeatures) (bool, error) {
	m.Calls = append(m.Calls, f)
	if m.PredictFn != nil {
		return m.PredictFn(ctx, f)
	}
	return true, nil
}

// === Authenticator Mock ===

// MockAuthenticator implements domain.Authenticator for testing.
type MockAuthenticator struct {
	AuthenticateFn func(ctx context.Context, token string) (*domain.Account, error)
}

var _ domain.Authenticator = (*MockAuthenticator)(nil)

// Authenticate implements the interface method for testing.
func (m *MockAuthenticator) Authenticate(ctx context.Context, token string) (*domain.Account, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, token)
	}
	panic("unexpected call to MockAuthenticator.Authenticate")
}
