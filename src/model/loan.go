package model

import (
	"context"
	"fmt"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
)

const loansTable = "loans"

const loanColumns = `id, user_id, loan_name, principal, interest_rate, tenure_months, emi_amount, start_date`

func scanLoan(row interface{ Scan(...any) error }) (models.Loan, error) {
	var l models.Loan
	err := row.Scan(&l.ID, &l.UserID, &l.Name, &l.Principal, &l.InterestRate, &l.TenureMonths, &l.EMI, &l.StartDate)
	return l, err
}

// CreateLoan stores l as given; callers compute the EMI beforehand.
func (s *SQLStore) CreateLoan(ctx context.Context, l *models.Loan) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO loans (user_id, loan_name, principal, interest_rate, tenure_months, emi_amount, start_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.UserID, l.Name, l.Principal, l.InterestRate, l.TenureMonths, l.EMI, l.StartDate)
	if err != nil {
		return fmt.Errorf("creating loan: %w", err)
	}
	l.ID, err = insertID(res)
	return err
}

func (s *SQLStore) GetLoan(ctx context.Context, userID, id int64) (*models.Loan, error) {
	if err := checkOwner(ctx, s.db, loansTable, id, userID); err != nil {
		return nil, err
	}
	l, err := scanLoan(s.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = ? AND user_id = ?`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("loading loan %d: %w", id, err)
	}
	return &l, nil
}

func (s *SQLStore) ListLoans(ctx context.Context, userID int64) ([]models.Loan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE user_id = ? ORDER BY start_date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing loans: %w", err)
	}
	defer rows.Close()

	loans := []models.Loan{}
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning loan: %w", err)
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func (s *SQLStore) UpdateLoan(ctx context.Context, l *models.Loan) error {
	if err := checkOwner(ctx, s.db, loansTable, l.ID, l.UserID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE loans SET loan_name = ?, principal = ?, interest_rate = ?, tenure_months = ?, emi_amount = ?, start_date = ?
		WHERE id = ? AND user_id = ?`,
		l.Name, l.Principal, l.InterestRate, l.TenureMonths, l.EMI, l.StartDate, l.ID, l.UserID)
	if err != nil {
		return fmt.Errorf("updating loan %d: %w", l.ID, err)
	}
	return nil
}

func (s *SQLStore) DeleteLoan(ctx context.Context, userID, id int64) error {
	return deleteOwned(ctx, s.db, loansTable, id, userID)
}
