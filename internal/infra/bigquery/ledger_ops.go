package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/walletwise/insights/internal/domain"
)

// LedgerSlice retrieves a user's individual-holder accounts, liabilities
// and non-pending transactions dated inside [from, to].
func LedgerSlice(ctx context.Context, userID string, from, to time.Time) (domain.LedgerSlice, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return domain.LedgerSlice{}, fmt.Errorf("LedgerSlice: creating client: %w", err)
	}
	defer client.Close()

	return LedgerSliceWithClient(ctx, client, userID, from, to)
}

// LedgerSliceWithClient retrieves the ledger slice using the provided BigQuery client.
func LedgerSliceWithClient(ctx context.Context, client *bigquery.Client, userID string, from, to time.Time) (domain.LedgerSlice, error) {
	var slice domain.LedgerSlice

	accounts, err := listAccounts(ctx, client, userID)
	if err != nil {
		return domain.LedgerSlice{}, fmt.Errorf("LedgerSliceWithClient: %w", err)
	}
	slice.Accounts = accounts

	liabilities, err := listLiabilities(ctx, client, userID)
	if err != nil {
		return domain.LedgerSlice{}, fmt.Errorf("LedgerSliceWithClient: %w", err)
	}
	slice.Liabilities = liabilities

	txs, err := listTransactions(ctx, client, userID, from, to)
	if err != nil {
		return domain.LedgerSlice{}, fmt.Errorf("LedgerSliceWithClient: %w", err)
	}
	slice.Transactions = txs

	return slice, nil
}

func listAccounts(ctx context.Context, client *bigquery.Client, userID string) ([]domain.Account, error) {
	query := fmt.Sprintf(`
		SELECT
			account_id,
			user_id,
			account_type,
			account_subtype,
			holder_category,
			balance,
			credit_limit,
			created_ts,
			updated_ts
		FROM `+"`%s.%s.accounts`"+`
		WHERE user_id = @user_id
		  AND holder_category != 'business'
		ORDER BY created_ts
	`, projectID, datasetID)

	q := client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, readFailure("listAccounts: reading query", err)
	}

	var accounts []domain.Account
	for {
		var row AccountRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, readFailure("listAccounts: iterating", err)
		}
		accounts = append(accounts, row.toDomain())
	}
	return accounts, nil
}

func listLiabilities(ctx context.Context, client *bigquery.Client, userID string) ([]domain.Liability, error) {
	query := fmt.Sprintf(`
		SELECT
			liability_id,
			user_id,
			account_id,
			balance,
			credit_limit,
			minimum_payment,
			last_payment_amount,
			last_payment_date,
			interest_rate_pct,
			is_overdue,
			created_ts
		FROM `+"`%s.%s.liabilities`"+`
		WHERE user_id = @user_id
		ORDER BY created_ts
	`, projectID, datasetID)

	q := client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, readFailure("listLiabilities: reading query", err)
	}

	var liabilities []domain.Liability
	for {
		var row LiabilityRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, readFailure("listLiabilities: iterating", err)
		}
		liabilities = append(liabilities, row.toDomain())
	}
	return liabilities, nil
}

func listTransactions(ctx context.Context, client *bigquery.Client, userID string, from, to time.Time) ([]domain.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT
			t.transaction_id,
			t.user_id,
			t.account_id,
			t.amount,
			t.transaction_date,
			t.is_pending,
			t.merchant_name,
			t.category_name,
			t.subcategory_name,
			t.payment_channel,
			t.created_ts
		FROM `+"`%s.%s.transactions`"+` t
		JOIN `+"`%s.%s.accounts`"+` a USING (account_id)
		WHERE t.user_id = @user_id
		  AND t.is_pending = FALSE
		  AND a.holder_category != 'business'
		  AND t.transaction_date BETWEEN @from_date AND @to_date
		ORDER BY t.transaction_date
	`, projectID, datasetID, projectID, datasetID)

	q := client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "from_date", Value: civil.DateOf(from)},
		{Name: "to_date", Value: civil.DateOf(to)},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, readFailure("listTransactions: reading query", err)
	}

	var txs []domain.Transaction
	for {
		var row TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, readFailure("listTransactions: iterating", err)
		}
		txs = append(txs, row.toDomain())
	}
	return txs, nil
}

// UserProfile retrieves a user's demographics. An unknown user yields a
// profile with nil optionals, not an error.
func UserProfileWithClient(ctx context.Context, client *bigquery.Client, userID string) (domain.UserProfile, error) {
	query := fmt.Sprintf(`
		SELECT user_id, age, credit_score, updated_ts
		FROM `+"`%s.%s.user_profiles`"+`
		WHERE user_id = @user_id
		LIMIT 1
	`, projectID, datasetID)

	q := client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return domain.UserProfile{}, readFailure("UserProfileWithClient: reading query", err)
	}

	var row UserProfileRow
	err = it.Next(&row)
	if err == iterator.Done {
		return domain.UserProfile{UserID: userID}, nil
	}
	if err != nil {
		return domain.UserProfile{}, readFailure("UserProfileWithClient: iterating", err)
	}
	return row.toDomain(), nil
}

// HasActiveConsentWithClient reads the boolean opt-in flag. Unknown users
// have no consent.
func HasActiveConsentWithClient(ctx context.Context, client *bigquery.Client, userID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT is_active
		FROM `+"`%s.%s.consents`"+`
		WHERE user_id = @user_id
		ORDER BY updated_ts DESC
		LIMIT 1
	`, projectID, datasetID)

	q := client.Query(query)
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return false, readFailure("HasActiveConsentWithClient: reading query", err)
	}

	var row ConsentRow
	err = it.Next(&row)
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, readFailure("HasActiveConsentWithClient: iterating", err)
	}
	return row.IsActive, nil
}
