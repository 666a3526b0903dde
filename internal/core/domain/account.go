package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Assets      AccountType = "Assets"
	Liabilities AccountType = "Liabilities"
	Equity      AccountType = "Equity"
	Revenue     AccountType = "Revenue"
	Expense     AccountType = "Expense"
)

// IsDebitNormal reports whether balances of this type are conventionally positive on the debit side.
// Unknown types are treated as credit-normal.
func (t AccountType) IsDebitNormal() bool {
	return t == Assets || t == Expense
}

// Valid reports whether t is one of the five chart-of-accounts types.
func (t AccountType) Valid() bool {
	switch t {
	case Assets, Liabilities, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account is a chart-of-accounts record. The ledger only references accounts by ID;
// the chart itself is owned by an external directory.
type Account struct {
	ID        string      `json:"id"`
	CompanyID string      `json:"companyId"` // Empty means the account is shared by every company
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	Category  string      `json:"category"`
	IsActive  bool        `json:"isActive"`
	AuditFields
}

// AccountRole is a logical account slot used when converting bookkeeping records into journal entries.
type AccountRole string

const (
	RoleBank      AccountRole = "bank"
	RoleRevenue   AccountRole = "revenue"
	RoleExpense   AccountRole = "expense"
	RoleCOGS      AccountRole = "cogs"
	RoleInventory AccountRole = "inventory"
)

// AccountRoleMapping maps logical roles to concrete chart-of-accounts IDs for one company.
type AccountRoleMapping struct {
	CompanyID         string
	Defaults          map[AccountRole]string
	RevenueByCategory map[string]string
	ExpenseByCategory map[string]string
}

// AccountIDFor returns the mapped account for role, preferring a per-category override
// for revenue and expense roles.
func (m *AccountRoleMapping) AccountIDFor(role AccountRole, category string) (string, bool) {
	if m == nil {
		return "", false
	}
	var byCategory map[string]string
	switch role {
	case RoleRevenue:
		byCategory = m.RevenueByCategory
	case RoleExpense:
		byCategory = m.ExpenseByCategory
	}
	if id, ok := byCategory[category]; ok && id != "" && category != "" {
		return id, true
	}
	id, ok := m.Defaults[role]
	return id, ok && id != ""
}
