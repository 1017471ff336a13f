package model

import (
	"context"
	"fmt"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
)

const schemesTable = "fixed_schemes"

const schemeColumns = `id, user_id, scheme_name, principal, interest_rate, tenure_months, start_date, penalty_rate`

func scanScheme(row interface{ Scan(...any) error }) (models.FixedScheme, error) {
	var fs models.FixedScheme
	err := row.Scan(&fs.ID, &fs.UserID, &fs.Name, &fs.Principal, &fs.InterestRate, &fs.TenureMonths, &fs.StartDate, &fs.PenaltyRate)
	return fs, err
}

func (s *SQLStore) CreateScheme(ctx context.Context, fs *models.FixedScheme) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO fixed_schemes (user_id, scheme_name, principal, interest_rate, tenure_months, start_date, penalty_rate)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fs.UserID, fs.Name, fs.Principal, fs.InterestRate, fs.TenureMonths, fs.StartDate, fs.PenaltyRate)
	if err != nil {
		return fmt.Errorf("creating scheme: %w", err)
	}
	fs.ID, err = insertID(res)
	return err
}

func (s *SQLStore) GetScheme(ctx context.Context, userID, id int64) (*models.FixedScheme, error) {
	if err := checkOwner(ctx, s.db, schemesTable, id, userID); err != nil {
		return nil, err
	}
	fs, err := scanScheme(s.db.QueryRowContext(ctx,
		`SELECT `+schemeColumns+` FROM fixed_schemes WHERE id = ? AND user_id = ?`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("loading scheme %d: %w", id, err)
	}
	return &fs, nil
}

func (s *SQLStore) ListSchemes(ctx context.Context, userID int64) ([]models.FixedScheme, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+schemeColumns+` FROM fixed_schemes WHERE user_id = ? ORDER BY start_date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing schemes: %w", err)
	}
	defer rows.Close()

	schemes := []models.FixedScheme{}
	for rows.Next() {
		fs, err := scanScheme(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning scheme: %w", err)
		}
		schemes = append(schemes, fs)
	}
	return schemes, rows.Err()
}

func (s *SQLStore) UpdateScheme(ctx context.Context, fs *models.FixedScheme) error {
	if err := checkOwner(ctx, s.db, schemesTable, fs.ID, fs.UserID); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE fixed_schemes SET scheme_name = ?, principal = ?, interest_rate = ?, tenure_months = ?, start_date = ?, penalty_rate = ?
		WHERE id = ? AND user_id = ?`,
		fs.Name, fs.Principal, fs.InterestRate, fs.TenureMonths, fs.StartDate, fs.PenaltyRate, fs.ID, fs.UserID)
	if err != nil {
		return fmt.Errorf("updating scheme %d: %w", fs.ID, err)
	}
	return nil
}

func (s *SQLStore) DeleteScheme(ctx context.Context, userID, id int64) error {
	return deleteOwned(ctx, s.db, schemesTable, id, userID)
}
