package domain

import (
	"context"
	"time"
)

// LoanFeatures are the applicant attributes scored by the predictor.
type LoanFeatures struct {
	GrAppv       float64 // gross amount approved by the bank
	Term         float64 // loan term in months
	State        string
	NAICSSectors string
	New          string
	Franchise    string
	NoEmp        float64
	RevLineCr    string
	LowDoc       string
	Rural        string
}

// LoanRequest is a scored loan application owned by an account.
type LoanRequest struct {
	ID        int64
	AccountID int64
	Features  LoanFeatures
	Approved  bool
	CreatedAt time.Time
}

// Predictor is the trained approval classifier.
type Predictor interface {
	Predict(ctx context.Context, f LoanFeatures) (bool, error)
}
