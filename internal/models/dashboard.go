package models

// Dashboard types
const (
	DashboardParent = "parent"
	DashboardChild  = "child"
)

// RecentTransactionsLimit bounds the transactions shown on a dashboard.
const RecentTransactionsLimit = 10

// Dashboard is the read-only view returned to parent and child dashboards.
type Dashboard struct {
	Type               string         `json:"dashboardType"`
	User               *User          `json:"user"`
	Accounts           []Account      `json:"accounts"`
	RecentTransactions []Transaction  `json:"recentTransactions"`
	Family             []FamilyMember `json:"family,omitempty"`
}
