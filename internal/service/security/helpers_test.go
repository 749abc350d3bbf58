package security

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	internaldb "loan-predict/internal/db"
	"loan-predict/internal/db/repository"
	"loan-predict/internal/domain"
)

type fixture struct {
	accounts *repository.AccountRepo
	hasher   *BcryptHasher
	tokens   *TokenService
	clock    *fakeClock
	gateway  *Gateway
	guard    *Guard
	logs     *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pools := internaldb.OpenTestSQLite(t)
	accounts := repository.NewAccountRepo(pools.Write, pools.Read)
	hasher := NewBcryptHasher(bcrypt.MinCost)
	clock := &fakeClock{t: time.Now()}
	tokens := newTestTokens(t, clock)

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, nil))

	return &fixture{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		clock:    clock,
		gateway:  NewGateway(accounts, hasher, tokens, slog.New(slog.NewTextHandler(io.Discard, nil))),
		guard:    NewGuard(tokens, accounts, logger),
		logs:     logs,
	}
}

func (f *fixture) register(t *testing.T, username, email, password string) *domain.Account {
	t.Helper()
	a, err := f.gateway.Register(context.Background(), domain.RegisterRequest{
		Username: username, Email: email, Password: password,
	})
	require.NoError(t, err)
	return a
}

func (f *fixture) admin(t *testing.T) *domain.Account {
	t.Helper()
	hash, err := f.hasher.Hash("Adm1nPass")
	require.NoError(t, err)
	a, err := f.accounts.Create(context.Background(), &domain.Account{
		Username: "root", Email: "root@x.io", PasswordHash: hash, Role: domain.RoleAdmin, IsActive: true,
	})
	require.NoError(t, err)
	return a
}

func (f *fixture) count(t *testing.T) int64 {
	t.Helper()
	_, total, err := f.accounts.List(context.Background(), domain.AccountFilter{})
	require.NoError(t, err)
	return total
}

func strPtr(s string) *string { return &s }
