package model

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Debmalya727/personal-finance-tracker/src/models"
)

const investmentsTable = "investments"

const investmentColumns = `id, user_id, asset_type, ticker_symbol, quantity, purchase_price, purchase_currency, purchase_date`

const soldInvestmentColumns = `id, user_id, asset_type, ticker_symbol, quantity, purchase_price, purchase_date,
	sell_price, sell_date, capital_gain, gain_type, holding_days`

func scanInvestment(row interface{ Scan(...any) error }) (models.Investment, error) {
	var inv models.Investment
	err := row.Scan(&inv.ID, &inv.UserID, &inv.AssetType, &inv.TickerSymbol, &inv.Quantity,
		&inv.PurchasePrice, &inv.PurchaseCurrency, &inv.PurchaseDate)
	return inv, err
}

func (s *SQLStore) CreateInvestment(ctx context.Context, inv *models.Investment) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO investments (user_id, asset_type, ticker_symbol, quantity, purchase_price, purchase_currency, purchase_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.UserID, inv.AssetType, inv.TickerSymbol, inv.Quantity, inv.PurchasePrice, inv.PurchaseCurrency, inv.PurchaseDate)
	if err != nil {
		return fmt.Errorf("creating investment: %w", err)
	}
	inv.ID, err = insertID(res)
	return err
}

func getInvestment(ctx context.Context, q querier, userID, id int64) (*models.Investment, error) {
	if err := checkOwner(ctx, q, investmentsTable, id, userID); err != nil {
		return nil, err
	}
	inv, err := scanInvestment(q.QueryRowContext(ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE id = ? AND user_id = ?`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("loading investment %d: %w", id, err)
	}
	return &inv, nil
}

func (s *SQLStore) GetInvestment(ctx context.Context, userID, id int64) (*models.Investment, error) {
	return getInvestment(ctx, s.db, userID, id)
}

func (s *SQLStore) ListInvestments(ctx context.Context, userID int64) ([]models.Investment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+investmentColumns+` FROM investments WHERE user_id = ? ORDER BY purchase_date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing investments: %w", err)
	}
	defer rows.Close()

	investments := []models.Investment{}
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning investment: %w", err)
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

func (s *SQLStore) DeleteInvestment(ctx context.Context, userID, id int64) error {
	return deleteOwned(ctx, s.db, investmentsTable, id, userID)
}

// RecordSale loads the holding, lets sell compute the outcome, then appends
// the sold record and shrinks or removes the holding in one transaction.
// Nothing is written when sell returns an error.
func (s *SQLStore) RecordSale(ctx context.Context, userID, investmentID int64, sell SaleFunc) (models.SaleOutcome, error) {
	var outcome models.SaleOutcome
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		inv, err := getInvestment(ctx, tx, userID, investmentID)
		if err != nil {
			return err
		}

		outcome, err = sell(*inv)
		if err != nil {
			return err
		}

		sold := &outcome.Sold
		sold.UserID = userID
		res, err := tx.ExecContext(ctx,
			`INSERT INTO sold_investments (user_id, asset_type, ticker_symbol, quantity, purchase_price, purchase_date,
				sell_price, sell_date, capital_gain, gain_type, holding_days)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sold.UserID, sold.AssetType, sold.TickerSymbol, sold.Quantity, sold.PurchasePrice, sold.PurchaseDate,
			sold.SellPrice, sold.SellDate, sold.CapitalGain, sold.GainType, sold.HoldingDays)
		if err != nil {
			return fmt.Errorf("recording sale: %w", err)
		}
		if sold.ID, err = insertID(res); err != nil {
			return err
		}

		if outcome.HoldingRemoved {
			_, err = tx.ExecContext(ctx, `DELETE FROM investments WHERE id = ? AND user_id = ?`, investmentID, userID)
		} else {
			_, err = tx.ExecContext(ctx, `UPDATE investments SET quantity = ? WHERE id = ? AND user_id = ?`,
				outcome.RemainingQuantity, investmentID, userID)
		}
		if err != nil {
			return fmt.Errorf("updating holding %d after sale: %w", investmentID, err)
		}
		return nil
	})
	if err != nil {
		return models.SaleOutcome{}, err
	}
	return outcome, nil
}

// ListSoldInvestments returns realized sales, most recent first.
func (s *SQLStore) ListSoldInvestments(ctx context.Context, userID int64) ([]models.SoldInvestment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+soldInvestmentColumns+` FROM sold_investments WHERE user_id = ? ORDER BY sell_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing sold investments: %w", err)
	}
	defer rows.Close()

	sales := []models.SoldInvestment{}
	for rows.Next() {
		var so models.SoldInvestment
		if err := rows.Scan(&so.ID, &so.UserID, &so.AssetType, &so.TickerSymbol, &so.Quantity, &so.PurchasePrice,
			&so.PurchaseDate, &so.SellPrice, &so.SellDate, &so.CapitalGain, &so.GainType, &so.HoldingDays); err != nil {
			return nil, fmt.Errorf("scanning sold investment: %w", err)
		}
		sales = append(sales, so)
	}
	return sales, rows.Err()
}
