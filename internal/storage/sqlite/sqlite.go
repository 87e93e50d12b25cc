// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/tripledger/internal/models"
	"github.com/mmynk/tripledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Open database with pure Go driver. PRAGMAs are per connection, so they
	// go in the DSN to apply to every pooled connection.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const tripColumns = `id, name, destination, start_date, end_date, owner_id, grouped,
	legacy_owner_alias, budget, currency, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrip(row scanner) (*models.Trip, error) {
	trip := &models.Trip{}
	err := row.Scan(&trip.ID, &trip.Name, &trip.Destination, &trip.StartDate, &trip.EndDate,
		&trip.OwnerID, &trip.Grouped, &trip.LegacyOwnerAlias, &trip.Budget, &trip.Currency,
		&trip.CreatedAt, &trip.UpdatedAt)
	return trip, err
}

// CreateTrip persists a new trip and its participants in one transaction.
func (s *SQLiteStore) CreateTrip(ctx context.Context, trip *models.Trip, participants []*models.Participant) error {
	// Generate IDs if not set
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if trip.CreatedAt == 0 {
		trip.CreatedAt = now
	}
	trip.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trips (`+tripColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trip.ID, trip.Name, trip.Destination, trip.StartDate, trip.EndDate, trip.OwnerID,
		trip.Grouped, trip.LegacyOwnerAlias, trip.Budget, trip.Currency, trip.CreatedAt, trip.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	if err := insertParticipants(ctx, tx, trip.ID, participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetTrip retrieves a trip by ID.
func (s *SQLiteStore) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	trip, err := scanTrip(s.db.QueryRowContext(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = ?`, tripID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("trip %s: %w", tripID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

// UpdateTrip overwrites the editable trip fields.
func (s *SQLiteStore) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	trip.UpdatedAt = time.Now().Unix()

	res, err := s.db.ExecContext(ctx,
		`UPDATE trips SET name = ?, destination = ?, start_date = ?, end_date = ?, owner_id = ?,
		 grouped = ?, legacy_owner_alias = ?, budget = ?, currency = ?, updated_at = ?
		 WHERE id = ?`,
		trip.Name, trip.Destination, trip.StartDate, trip.EndDate, trip.OwnerID, trip.Grouped,
		trip.LegacyOwnerAlias, trip.Budget, trip.Currency, trip.UpdatedAt, trip.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	return requireAffected(res, "trip", trip.ID)
}

// DeleteTrip removes a trip with its participants and transactions.
func (s *SQLiteStore) DeleteTrip(ctx context.Context, tripID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM trips WHERE id = ?", tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	return requireAffected(res, "trip", tripID)
}

// ListTripsForAccount returns the trips an account participates in, newest first.
func (s *SQLiteStore) ListTripsForAccount(ctx context.Context, accountID string) ([]*models.Trip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+prefixed("t.", tripColumns)+`
		 FROM trips t
		 JOIN participants p ON p.trip_id = t.id
		 WHERE p.linked_account_id = ?
		 GROUP BY t.id
		 ORDER BY t.created_at DESC, t.id`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trips: %w", err)
	}

	return trips, nil
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}

// prefixed qualifies every column in a comma separated list with a table alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, c := range parts {
		parts[i] = alias + strings.TrimSpace(c)
	}
	return strings.Join(parts, ", ")
}
