package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/tripledger/internal/models"
)

// SetParticipants replaces a trip's participants and its owner in one transaction.
func (s *SQLiteStore) SetParticipants(ctx context.Context, tripID, ownerID string, participants []*models.Participant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE trips SET owner_id = ?, updated_at = ? WHERE id = ?",
		ownerID, time.Now().Unix(), tripID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip owner: %w", err)
	}
	if err := requireAffected(res, "trip", tripID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM participants WHERE trip_id = ?", tripID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}

	if err := insertParticipants(ctx, tx, tripID, participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func insertParticipants(ctx context.Context, tx *sql.Tx, tripID string, participants []*models.Participant) error {
	for i, p := range participants {
		p.TripID = tripID
		p.Position = i
		_, err := tx.ExecContext(ctx,
			`INSERT INTO participants (trip_id, id, name, group_id, role, linked_account_id, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			tripID, p.ID, p.Name, p.GroupID, string(p.Role), p.LinkedAccountID, p.Position,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant %s: %w", p.ID, err)
		}
	}
	return nil
}

// ListParticipants returns a trip's participants in their configured order.
func (s *SQLiteStore) ListParticipants(ctx context.Context, tripID string) ([]*models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT trip_id, id, name, group_id, role, linked_account_id, position
		 FROM participants WHERE trip_id = ? ORDER BY position`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []*models.Participant
	for rows.Next() {
		p := &models.Participant{}
		var role string
		if err := rows.Scan(&p.TripID, &p.ID, &p.Name, &p.GroupID, &role, &p.LinkedAccountID, &p.Position); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.Role = models.Role(role)
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}
