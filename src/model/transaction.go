package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
)

const transactionsTable = "transactions"

const transactionColumns = `id, user_id, description, amount, kind, category, date`

func scanTransaction(row interface{ Scan(...any) error }) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.UserID, &t.Description, &t.Amount, &t.Kind, &t.Category, &t.Date)
	return t, err
}

func insertTransaction(ctx context.Context, q querier, t *models.Transaction) error {
	res, err := q.ExecContext(ctx,
		`INSERT INTO transactions (user_id, description, amount, kind, category, date) VALUES (?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Description, t.Amount, t.Kind, t.Category, t.Date)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}
	t.ID, err = insertID(res)
	return err
}

func (s *SQLStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return insertTransaction(ctx, s.db, t)
}

func (s *SQLStore) GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error) {
	if err := checkOwner(ctx, s.db, transactionsTable, id, userID); err != nil {
		return nil, err
	}
	t, err := scanTransaction(s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("loading transaction %d: %w", id, err)
	}
	return &t, nil
}

// ListTransactions returns all transactions, newest first.
func (s *SQLStore) ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? ORDER BY date DESC, id DESC`, userID)
}

func (s *SQLStore) ListRecentTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? ORDER BY date DESC, id DESC LIMIT ?`, userID, limit)
}

func (s *SQLStore) queryTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// TransactionTotals sums income and expense dated on or after since.
// A zero since covers all time.
func (s *SQLStore) TransactionTotals(ctx context.Context, userID int64, since models.Date) (float64, float64, error) {
	query := `SELECT
		COALESCE(SUM(CASE WHEN kind = 'income' THEN amount END), 0),
		COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount END), 0)
		FROM transactions WHERE user_id = ?`
	args := []any{userID}
	if !since.IsZero() {
		query += ` AND date >= ?`
		args = append(args, since)
	}

	var income, expense float64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&income, &expense); err != nil {
		return 0, 0, fmt.Errorf("summing transactions: %w", err)
	}
	return income, expense, nil
}

func (s *SQLStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	if err := checkOwner(ctx, s.db, transactionsTable, t.ID, t.UserID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET description = ?, amount = ?, kind = ?, category = ?, date = ? WHERE id = ? AND user_id = ?`,
		t.Description, t.Amount, t.Kind, t.Category, t.Date, t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("updating transaction %d: %w", t.ID, err)
	}
	return nil
}

func (s *SQLStore) DeleteTransaction(ctx context.Context, userID, id int64) error {
	return deleteOwned(ctx, s.db, transactionsTable, id, userID)
}

// EnsureTransactions inserts each entry unless a transaction with the same
// description and kind already exists on or after since. The check and the
// inserts share one SQL transaction; the inserted entries are returned.
func (s *SQLStore) EnsureTransactions(ctx context.Context, userID int64, since models.Date, entries []models.Transaction) ([]models.Transaction, error) {
	var inserted []models.Transaction
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, entry := range entries {
			var existing int64
			err := tx.QueryRowContext(ctx,
				`SELECT id FROM transactions WHERE user_id = ? AND description = ? AND kind = ? AND date >= ? LIMIT 1`,
				userID, entry.Description, entry.Kind, since).Scan(&existing)
			if err == nil {
				continue
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("checking existing %q: %w", entry.Description, err)
			}

			entry.UserID = userID
			if err := insertTransaction(ctx, tx, &entry); err != nil {
				return err
			}
			inserted = append(inserted, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inserted, nil
}
