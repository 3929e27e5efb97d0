package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/walletwise/insights/internal/domain"
)

// TransactionRow mirrors the insights.transactions table.
type TransactionRow struct {
	TransactionID  string              `bigquery:"transaction_id"` // REQUIRED
	UserID         string              `bigquery:"user_id"`        // REQUIRED
	AccountID      string              `bigquery:"account_id"`     // REQUIRED
	Amount         float64             `bigquery:"amount"`         // REQUIRED, positive = outflow
	TransactionDate civil.Date         `bigquery:"transaction_date"`
	IsPending      bool                `bigquery:"is_pending"`
	MerchantName   bigquery.NullString `bigquery:"merchant_name"`
	CategoryName   bigquery.NullString `bigquery:"category_name"`
	SubcategoryName bigquery.NullString `bigquery:"subcategory_name"`
	PaymentChannel bigquery.NullString `bigquery:"payment_channel"`
	CreatedTS      time.Time           `bigquery:"created_ts"`
}

// AccountRow mirrors the insights.accounts table.
type AccountRow struct {
	AccountID      string               `bigquery:"account_id"` // REQUIRED
	UserID         string               `bigquery:"user_id"`    // REQUIRED
	AccountType    string               `bigquery:"account_type"`
	AccountSubtype bigquery.NullString  `bigquery:"account_subtype"`
	HolderCategory string               `bigquery:"holder_category"`
	Balance        float64              `bigquery:"balance"`
	CreditLimit    bigquery.NullFloat64 `bigquery:"credit_limit"`
	CreatedTS      time.Time            `bigquery:"created_ts"`
	UpdatedTS      bigquery.NullTimestamp `bigquery:"updated_ts"`
}

// LiabilityRow mirrors the insights.liabilities table.
type LiabilityRow struct {
	LiabilityID       string               `bigquery:"liability_id"` // REQUIRED
	UserID            string               `bigquery:"user_id"`      // REQUIRED
	AccountID         bigquery.NullString  `bigquery:"account_id"`
	Balance           float64              `bigquery:"balance"`
	CreditLimit       bigquery.NullFloat64 `bigquery:"credit_limit"`
	MinimumPayment    bigquery.NullFloat64 `bigquery:"minimum_payment"`
	LastPaymentAmount bigquery.NullFloat64 `bigquery:"last_payment_amount"`
	LastPaymentDate   bigquery.NullDate    `bigquery:"last_payment_date"`
	InterestRatePct   bigquery.NullFloat64 `bigquery:"interest_rate_pct"`
	IsOverdue         bool                 `bigquery:"is_overdue"`
	CreatedTS         time.Time            `bigquery:"created_ts"`
}

// UserProfileRow mirrors the insights.user_profiles table.
type UserProfileRow struct {
	UserID      string               `bigquery:"user_id"` // REQUIRED
	Age         bigquery.NullInt64   `bigquery:"age"`
	CreditScore bigquery.NullInt64   `bigquery:"credit_score"`
	UpdatedTS   bigquery.NullTimestamp `bigquery:"updated_ts"`
}

// ConsentRow mirrors the insights.consents table. The engine only ever
// reads the active flag.
type ConsentRow struct {
	UserID    string    `bigquery:"user_id"` // REQUIRED
	IsActive  bool      `bigquery:"is_active"`
	UpdatedTS time.Time `bigquery:"updated_ts"`
}

func (r *TransactionRow) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:             r.TransactionID,
		AccountID:      r.AccountID,
		Amount:         r.Amount,
		Date:           r.TransactionDate.In(time.UTC),
		Pending:        r.IsPending,
		MerchantName:   r.MerchantName.StringVal,
		Category:       r.CategoryName.StringVal,
		Subcategory:    r.SubcategoryName.StringVal,
		PaymentChannel: r.PaymentChannel.StringVal,
	}
}

func (r *AccountRow) toDomain() domain.Account {
	a := domain.Account{
		ID:             r.AccountID,
		UserID:         r.UserID,
		Type:           domain.AccountType(r.AccountType),
		Subtype:        r.AccountSubtype.StringVal,
		HolderCategory: domain.HolderCategory(r.HolderCategory),
		Balance:        r.Balance,
	}
	if r.CreditLimit.Valid {
		limit := r.CreditLimit.Float64
		a.CreditLimit = &limit
	}
	return a
}

func (r *LiabilityRow) toDomain() domain.Liability {
	l := domain.Liability{
		ID:        r.LiabilityID,
		UserID:    r.UserID,
		AccountID: r.AccountID.StringVal,
		Balance:   r.Balance,
		IsOverdue: r.IsOverdue,
	}
	if r.CreditLimit.Valid {
		v := r.CreditLimit.Float64
		l.CreditLimit = &v
	}
	if r.MinimumPayment.Valid {
		v := r.MinimumPayment.Float64
		l.MinimumPayment = &v
	}
	if r.LastPaymentAmount.Valid {
		v := r.LastPaymentAmount.Float64
		l.LastPaymentAmount = &v
	}
	if r.LastPaymentDate.Valid {
		d := r.LastPaymentDate.Date.In(time.UTC)
		l.LastPaymentDate = &d
	}
	if r.InterestRatePct.Valid {
		v := r.InterestRatePct.Float64
		l.InterestRatePct = &v
	}
	return l
}

func (r *UserProfileRow) toDomain() domain.UserProfile {
	p := domain.UserProfile{UserID: r.UserID}
	if r.Age.Valid {
		v := int(r.Age.Int64)
		p.Age = &v
	}
	if r.CreditScore.Valid {
		v := int(r.CreditScore.Int64)
		p.CreditScore = &v
	}
	return p
}
