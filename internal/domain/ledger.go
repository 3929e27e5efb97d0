package domain

import (
	"time"
)

// HolderCategory describes who holds an account. Business accounts are
// excluded from every signal computation.
type HolderCategory string

const (
	HolderIndividual HolderCategory = "individual"
	HolderBusiness   HolderCategory = "business"
	HolderUnknown    HolderCategory = "unknown"
)

// AccountType is the coarse account classification used by the signal engine.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCreditCard AccountType = "credit_card"
	AccountOther      AccountType = "other"
)

// Transaction is one ledger entry. Amount is signed: positive means money
// out, negative means money in. Pending transactions are never counted.
type Transaction struct {
	ID             string    `json:"id"`
	AccountID      string    `json:"account_id"`
	Amount         float64   `json:"amount"`
	Date           time.Time `json:"date"`
	Pending        bool      `json:"pending"`
	MerchantName   string    `json:"merchant_name"`
	Category       string    `json:"category"`
	Subcategory    string    `json:"subcategory"`
	PaymentChannel string    `json:"payment_channel"`
}

// Inflow reports whether the transaction moved money into the account.
func (t Transaction) Inflow() bool {
	return t.Amount < 0
}

// Account is a user's account as supplied by the ingestion collaborator.
type Account struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	Type           AccountType    `json:"type"`
	Subtype        string         `json:"subtype"`
	HolderCategory HolderCategory `json:"holder_category"`
	Balance        float64        `json:"balance"`
	CreditLimit    *float64       `json:"credit_limit,omitempty"`
}

// Liability is an outstanding credit obligation (typically a card).
type Liability struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	AccountID         string     `json:"account_id,omitempty"`
	Balance           float64    `json:"balance"`
	CreditLimit       *float64   `json:"credit_limit,omitempty"`
	MinimumPayment    *float64   `json:"minimum_payment,omitempty"`
	LastPaymentAmount *float64   `json:"last_payment_amount,omitempty"`
	LastPaymentDate   *time.Time `json:"last_payment_date,omitempty"`
	InterestRatePct   *float64   `json:"interest_rate_pct,omitempty"`
	IsOverdue         bool       `json:"is_overdue"`
}

// UserProfile carries the demographics the eligibility screen consumes.
// Unknown values stay nil; eligibility criteria that need them fail closed.
type UserProfile struct {
	UserID      string `json:"user_id"`
	Age         *int   `json:"age,omitempty"`
	CreditScore *int   `json:"credit_score,omitempty"`
}

// LedgerSlice is the read-only view of a user's ledger over one lookback
// window: individual-holder accounts, their liabilities, and non-pending
// transactions inside [today-window, today]. Readers may hand back a
// broader slice; the signal engine filters defensively.
type LedgerSlice struct {
	Accounts     []Account
	Liabilities  []Liability
	Transactions []Transaction
}
