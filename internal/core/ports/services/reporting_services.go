package services

import (
	"context"
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
)

// ReportingService defines operations for generating ledger reports
type ReportingService interface {
	// TrialBalance summarizes posted entries dated on or before asOf. An empty companyID covers every company.
	TrialBalance(ctx context.Context, asOf time.Time, companyID string) (*domain.TrialBalance, error)

	// AccountBalances computes signed balances from posted entries dated within [start, end].
	AccountBalances(ctx context.Context, start, end time.Time, companyID string) ([]domain.AccountBalance, error)
}
