// Package loan scores and records loan requests.
package loan

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"loan-predict/internal/domain"
)

// Service records loan requests together with the predictor's decision.
type Service struct {
	loans     domain.LoanRepository
	predictor domain.Predictor
	logger    *slog.Logger
}

// NewService creates a Service.
func NewService(loans domain.LoanRepository, predictor domain.Predictor, logger *slog.Logger) *Service {
	return &Service{loans: loans, predictor: predictor, logger: logger.With("component", "loan-intake")}
}

// Request scores f and stores it under the principal's account.
func (s *Service) Request(ctx context.Context, principal *domain.Account, f domain.LoanFeatures) (*domain.LoanRequest, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated()
	}
	f, err := normalizeFeatures(f)
	if err != nil {
		return nil, err
	}

	approved, err := s.predictor.Predict(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("predict loan approval: %w", err)
	}

	req, err := s.loans.Create(ctx, &domain.LoanRequest{
		AccountID: principal.ID,
		Features:  f,
		Approved:  approved,
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "loan request scored", "loan_id", req.ID, "account_id", principal.ID, "approved", approved)
	return req, nil
}

// History lists the principal's own requests, or every request for an admin.
func (s *Service) History(ctx context.Context, principal *domain.Account, page domain.PageRequest) ([]domain.LoanRequest, int64, error) {
	if principal == nil {
		return nil, 0, domain.ErrUnauthenticated()
	}
	filter := domain.LoanFilter{Page: page}
	if !principal.IsAdmin() {
		filter.OwnerID = &principal.ID
	}
	return s.loans.List(ctx, filter)
}

// normalizeFeatures validates f and canonicalizes its flag and code fields.
func normalizeFeatures(f domain.LoanFeatures) (domain.LoanFeatures, error) {
	if f.GrAppv <= 0 {
		return f, domain.ErrValidation("%s must be positive", FeatureGrAppv)
	}
	if f.Term <= 0 {
		return f, domain.ErrValidation("%s must be positive", FeatureTerm)
	}
	if f.NoEmp < 0 {
		return f, domain.ErrValidation("%s must not be negative", FeatureNoEmp)
	}

	f.State = strings.ToUpper(strings.TrimSpace(f.State))
	if len(f.State) != 2 || !isLetters(f.State) {
		return f, domain.ErrValidation("%s must be a two-letter state code", FeatureState)
	}
	f.NAICSSectors = strings.TrimSpace(f.NAICSSectors)
	if f.NAICSSectors == "" {
		return f, domain.ErrValidation("%s is required", FeatureNAICSSectors)
	}

	flags := []struct {
		name string
		v    *string
	}{
		{FeatureNew, &f.New},
		{FeatureFranchise, &f.Franchise},
		{FeatureRevLineCr, &f.RevLineCr},
		{FeatureLowDoc, &f.LowDoc},
		{FeatureRural, &f.Rural},
	}
	for _, flag := range flags {
		v, ok := normalizeFlag(*flag.v)
		if !ok {
			return f, domain.ErrValidation("%s must be 'Yes' or 'No'", flag.name)
		}
		*flag.v = v
	}
	return f, nil
}

func normalizeFlag(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1":
		return "Yes", true
	case "no", "n", "false", "0":
		return "No", true
	default:
		return "", false
	}
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
