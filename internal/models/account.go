package models

import "time"

// AuditFields mirrors the audit columns shared by persisted tables.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy string    `db:"last_updated_by"`
}

// Account is a row of the chart_of_accounts table.
type Account struct {
	AccountID   string  `db:"account_id"`
	CompanyID   *string `db:"company_id"` // NULL for accounts shared by every company
	Code        string  `db:"code"`
	Name        string  `db:"name"`
	AccountType string  `db:"account_type"`
	Category    string  `db:"category"`
	IsActive    bool    `db:"is_active"`
	AuditFields
}
