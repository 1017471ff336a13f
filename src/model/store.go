package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
)

var (
	// ErrNotFound is returned when no record exists for an id.
	ErrNotFound = errors.New("record not found")
	// ErrNotAuthorized is returned when a record exists but belongs to another account.
	ErrNotAuthorized = errors.New("record belongs to another account")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already exists")
)

// SaleFunc computes the outcome of a sale for the holding loaded inside the store's transaction.
type SaleFunc func(inv models.Investment) (models.SaleOutcome, error)

// Store is the record store used by services and handlers. Every record
// operation is scoped to the owning user id.
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UpdateUserDateOfBirth(ctx context.Context, userID int64, dob models.Date) error
	ListUserIDs(ctx context.Context) ([]int64, error)

	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, userID, id int64) (*models.Transaction, error)
	ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error)
	ListRecentTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)
	TransactionTotals(ctx context.Context, userID int64, since models.Date) (income, expense float64, err error)
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error
	DeleteTransaction(ctx context.Context, userID, id int64) error
	EnsureTransactions(ctx context.Context, userID int64, since models.Date, entries []models.Transaction) ([]models.Transaction, error)

	CreateScheme(ctx context.Context, s *models.FixedScheme) error
	GetScheme(ctx context.Context, userID, id int64) (*models.FixedScheme, error)
	ListSchemes(ctx context.Context, userID int64) ([]models.FixedScheme, error)
	UpdateScheme(ctx context.Context, s *models.FixedScheme) error
	DeleteScheme(ctx context.Context, userID, id int64) error

	GetSalaryProfile(ctx context.Context, userID int64) (*models.SalaryProfile, error)
	UpsertSalaryProfile(ctx context.Context, p *models.SalaryProfile) error

	CreateInvestment(ctx context.Context, inv *models.Investment) error
	GetInvestment(ctx context.Context, userID, id int64) (*models.Investment, error)
	ListInvestments(ctx context.Context, userID int64) ([]models.Investment, error)
	DeleteInvestment(ctx context.Context, userID, id int64) error
	RecordSale(ctx context.Context, userID, investmentID int64, sell SaleFunc) (models.SaleOutcome, error)
	ListSoldInvestments(ctx context.Context, userID int64) ([]models.SoldInvestment, error)

	CreateLoan(ctx context.Context, l *models.Loan) error
	GetLoan(ctx context.Context, userID, id int64) (*models.Loan, error)
	ListLoans(ctx context.Context, userID int64) ([]models.Loan, error)
	UpdateLoan(ctx context.Context, l *models.Loan) error
	DeleteLoan(ctx context.Context, userID, id int64) error
}

// SQLStore implements Store on database/sql.
type SQLStore struct {
	db *sql.DB
}

var _ Store = (*SQLStore)(nil)

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// checkOwner distinguishes a missing record from one owned by someone else.
// table is always a package constant.
func checkOwner(ctx context.Context, q querier, table string, id, userID int64) error {
	var owner int64
	err := q.QueryRowContext(ctx, "SELECT user_id FROM "+table+" WHERE id = ?", id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("checking owner of %s %d: %w", table, id, err)
	}
	if owner != userID {
		return fmt.Errorf("%s %d: %w", table, id, ErrNotAuthorized)
	}
	return nil
}

// deleteOwned removes a record after the ownership check.
func deleteOwned(ctx context.Context, q querier, table string, id, userID int64) error {
	if err := checkOwner(ctx, q, table, id, userID); err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ? AND user_id = ?", id, userID); err != nil {
		return fmt.Errorf("deleting %s %d: %w", table, id, err)
	}
	return nil
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertID(res sql.Result) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted id: %w", err)
	}
	return id, nil
}
