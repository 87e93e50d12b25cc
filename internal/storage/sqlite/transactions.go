package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

const transactionColumns = `id, trip_id, type, description, amount, paid_by, split_type,
	category, date, created_at, updated_at`

func scanTransaction(row scanner) (*models.TransactionRecord, error) {
	rec := &models.TransactionRecord{}
	var txType, splitType string
	err := row.Scan(&rec.ID, &rec.TripID, &txType, &rec.Description, &rec.Amount, &rec.PaidBy,
		&splitType, &rec.Category, &rec.Date, &rec.CreatedAt, &rec.UpdatedAt)
	rec.Type = models.TransactionType(txType)
	rec.SplitType = models.SplitType(splitType)
	return rec, err
}

// CreateTransaction persists a new ledger record with its beneficiaries and split amounts.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, rec *models.TransactionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if rec.CreatedAt == 0 {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TripID, string(rec.Type), rec.Description, rec.Amount, rec.PaidBy,
		string(rec.SplitType), rec.Category, rec.Date, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err := insertAllocations(ctx, tx, rec); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateTransaction replaces a record and its allocations.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, rec *models.TransactionRecord) error {
	rec.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE transactions SET type = ?, description = ?, amount = ?, paid_by = ?, split_type = ?,
		 category = ?, date = ?, updated_at = ?
		 WHERE id = ?`,
		string(rec.Type), rec.Description, rec.Amount, rec.PaidBy, string(rec.SplitType),
		rec.Category, rec.Date, rec.UpdatedAt, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if err := requireAffected(res, "transaction", rec.ID); err != nil {
		return err
	}

	for _, table := range []string{"transaction_beneficiaries", "transaction_split_amounts"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE transaction_id = ?", rec.ID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertAllocations(ctx, tx, rec); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertAllocations(ctx context.Context, tx *sql.Tx, rec *models.TransactionRecord) error {
	for i, id := range rec.Beneficiaries {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO transaction_beneficiaries (transaction_id, position, beneficiary_id) VALUES (?, ?, ?)",
			rec.ID, i, id,
		)
		if err != nil {
			return fmt.Errorf("failed to insert beneficiary: %w", err)
		}
	}

	for id, amount := range rec.SplitAmounts {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO transaction_split_amounts (transaction_id, beneficiary_id, amount) VALUES (?, ?, ?)",
			rec.ID, id, amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split amount: %w", err)
		}
	}

	return nil
}

// GetTransaction retrieves a record by ID, including its allocations.
func (s *SQLiteStore) GetTransaction(ctx context.Context, txID string) (*models.TransactionRecord, error) {
	rec, err := scanTransaction(s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, txID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", txID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if err := s.loadAllocations(ctx, "transaction_id = ?", txID, map[string]*models.TransactionRecord{rec.ID: rec}); err != nil {
		return nil, err
	}

	return rec, nil
}

// ListTransactions returns every record of a trip, oldest first.
func (s *SQLiteStore) ListTransactions(ctx context.Context, tripID string) ([]*models.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE trip_id = ?
		 ORDER BY date, created_at, id`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var recs []*models.TransactionRecord
	byID := make(map[string]*models.TransactionRecord)
	for rows.Next() {
		rec, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		recs = append(recs, rec)
		byID[rec.ID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	rows.Close()

	filter := "transaction_id IN (SELECT id FROM transactions WHERE trip_id = ?)"
	if err := s.loadAllocations(ctx, filter, tripID, byID); err != nil {
		return nil, err
	}

	return recs, nil
}

// loadAllocations fills Beneficiaries and SplitAmounts for the records in byID.
func (s *SQLiteStore) loadAllocations(ctx context.Context, filter string, arg any, byID map[string]*models.TransactionRecord) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT transaction_id, beneficiary_id FROM transaction_beneficiaries
		 WHERE `+filter+` ORDER BY transaction_id, position`,
		arg,
	)
	if err != nil {
		return fmt.Errorf("failed to get beneficiaries: %w", err)
	}
	for rows.Next() {
		var txID, id string
		if err := rows.Scan(&txID, &id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan beneficiary: %w", err)
		}
		if rec, ok := byID[txID]; ok {
			rec.Beneficiaries = append(rec.Beneficiaries, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate beneficiaries: %w", err)
	}

	splitRows, err := s.db.QueryContext(ctx,
		`SELECT transaction_id, beneficiary_id, amount FROM transaction_split_amounts WHERE `+filter,
		arg,
	)
	if err != nil {
		return fmt.Errorf("failed to get split amounts: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var txID, id, amount string
		if err := splitRows.Scan(&txID, &id, &amount); err != nil {
			return fmt.Errorf("failed to scan split amount: %w", err)
		}
		rec, ok := byID[txID]
		if !ok {
			continue
		}
		if rec.SplitAmounts == nil {
			rec.SplitAmounts = make(map[string]string)
		}
		rec.SplitAmounts[id] = amount
	}
	if err := splitRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate split amounts: %w", err)
	}

	return nil
}

// DeleteTransaction removes a record and its allocations.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, txID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", txID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return requireAffected(res, "transaction", txID)
}
