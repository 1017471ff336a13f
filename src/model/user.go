package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID          int64       `json:"id"`
	Username    string      `json:"username"`
	Password    string      `json:"-"`
	DateOfBirth models.Date `json:"date_of_birth"`
}

func (u *User) HashPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (s *SQLStore) CreateUser(ctx context.Context, u *User) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, date_of_birth) VALUES (?, ?, ?)`,
		u.Username, u.Password, u.DateOfBirth)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%q: %w", u.Username, ErrUsernameTaken)
		}
		return fmt.Errorf("creating user: %w", err)
	}
	u.ID, err = insertID(res)
	return err
}

func (s *SQLStore) GetUserByID(ctx context.Context, id int64) (*User, error) {
	return s.getUser(ctx, `SELECT id, username, password_hash, date_of_birth FROM users WHERE id = ?`, id)
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return s.getUser(ctx, `SELECT id, username, password_hash, date_of_birth FROM users WHERE username = ?`, username)
}

func (s *SQLStore) getUser(ctx context.Context, query string, arg any) (*User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Username, &user.Password, &user.DateOfBirth)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return &user, nil
}

func (s *SQLStore) UpdateUserDateOfBirth(ctx context.Context, userID int64, dob models.Date) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET date_of_birth = ? WHERE id = ?`, dob, userID)
	if err != nil {
		return fmt.Errorf("updating date of birth: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}

// ListUserIDs returns every account id, used by batch jobs.
func (s *SQLStore) ListUserIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
