// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tripledger/internal/models"
)

// ErrNotFound is wrapped by every lookup that finds no row.
var ErrNotFound = errors.New("not found")

// Store defines the interface for trip storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateTrip persists a new trip with its initial participants in one
	// transaction. ID and timestamps are filled in by the store.
	CreateTrip(ctx context.Context, trip *models.Trip, participants []*models.Participant) error
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)
	UpdateTrip(ctx context.Context, trip *models.Trip) error
	DeleteTrip(ctx context.Context, tripID string) error

	// ListTripsForAccount returns trips where the account is a linked participant.
	ListTripsForAccount(ctx context.Context, accountID string) ([]*models.Trip, error)

	// SetParticipants replaces the trip's participant list, keeping the given
	// order, and records ownerID as the trip owner in the same transaction.
	SetParticipants(ctx context.Context, tripID, ownerID string, participants []*models.Participant) error
	ListParticipants(ctx context.Context, tripID string) ([]*models.Participant, error)

	// CreateTransaction persists a new record. ID and timestamps are filled in by the store.
	CreateTransaction(ctx context.Context, rec *models.TransactionRecord) error
	GetTransaction(ctx context.Context, txID string) (*models.TransactionRecord, error)
	UpdateTransaction(ctx context.Context, rec *models.TransactionRecord) error
	DeleteTransaction(ctx context.Context, txID string) error

	// ListTransactions returns a trip's records ordered by date, then creation time.
	ListTransactions(ctx context.Context, tripID string) ([]*models.TransactionRecord, error)

	// Close releases any resources held by the store.
	Close() error
}
