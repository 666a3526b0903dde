package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceAccount is one account row of a trial balance.
// DebitBalance and CreditBalance hold the accumulated debit and credit activity.
type TrialBalanceAccount struct {
	AccountID     string          `json:"accountId"`
	AccountCode   string          `json:"accountCode"`
	AccountName   string          `json:"accountName"`
	AccountType   AccountType     `json:"accountType"`
	DebitBalance  decimal.Decimal `json:"debitBalance"`
	CreditBalance decimal.Decimal `json:"creditBalance"`
	NetBalance    decimal.Decimal `json:"netBalance"`
}

// TrialBalance is a point-in-time summary of posted activity per account.
type TrialBalance struct {
	AsOfDate     time.Time             `json:"asOfDate"`
	CompanyID    string                `json:"companyId,omitempty"`
	Accounts     []TrialBalanceAccount `json:"accounts"`
	TotalDebits  decimal.Decimal       `json:"totalDebits"`
	TotalCredits decimal.Decimal       `json:"totalCredits"`
	IsBalanced   bool                  `json:"isBalanced"`
	GeneratedAt  time.Time             `json:"generatedAt"`
}

// AccountBalance is the signed balance of one account over a period,
// using the account type's normal-balance convention.
type AccountBalance struct {
	AccountID    string          `json:"accountId"`
	AccountCode  string          `json:"accountCode"`
	AccountName  string          `json:"accountName"`
	AccountType  AccountType     `json:"accountType"`
	TotalDebits  decimal.Decimal `json:"totalDebits"`
	TotalCredits decimal.Decimal `json:"totalCredits"`
	Balance      decimal.Decimal `json:"balance"`
}
