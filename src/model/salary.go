package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
)

// GetSalaryProfile returns ErrNotFound when the user has not configured a salary yet.
func (s *SQLStore) GetSalaryProfile(ctx context.Context, userID int64) (*models.SalaryProfile, error) {
	var p models.SalaryProfile
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, monthly_gross, deductions_80c, hra_exemption FROM salary_profiles WHERE user_id = ?`, userID).
		Scan(&p.UserID, &p.MonthlyGross, &p.Deductions, &p.HRAExemption)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("salary profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("loading salary profile: %w", err)
	}
	return &p, nil
}

// UpsertSalaryProfile keeps at most one profile per user.
func (s *SQLStore) UpsertSalaryProfile(ctx context.Context, p *models.SalaryProfile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO salary_profiles (user_id, monthly_gross, deductions_80c, hra_exemption) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			monthly_gross = excluded.monthly_gross,
			deductions_80c = excluded.deductions_80c,
			hra_exemption = excluded.hra_exemption`,
		p.UserID, p.MonthlyGross, p.Deductions, p.HRAExemption)
	if err != nil {
		return fmt.Errorf("saving salary profile: %w", err)
	}
	return nil
}
