package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/tripledger/internal/api"
	"github.com/mmynk/tripledger/internal/models"
)

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toAPIParticipants(ps []*models.Participant) []api.Participant {
	out := make([]api.Participant, len(ps))
	for i, p := range ps {
		out[i] = api.Participant{
			ID:              p.ID,
			Name:            p.Name,
			GroupID:         p.GroupID,
			Role:            string(p.Role),
			LinkedAccountID: p.LinkedAccountID,
		}
	}
	return out
}

func toAPITrip(trip *models.Trip, ps []*models.Participant) *api.Trip {
	return &api.Trip{
		ID:               trip.ID,
		Name:             trip.Name,
		Destination:      trip.Destination,
		StartDate:        trip.StartDate,
		EndDate:          trip.EndDate,
		OwnerID:          trip.OwnerID,
		Grouped:          trip.Grouped,
		LegacyOwnerAlias: trip.LegacyOwnerAlias,
		Budget:           trip.Budget,
		Currency:         trip.Currency,
		Participants:     toAPIParticipants(ps),
		CreatedAt:        trip.CreatedAt,
		UpdatedAt:        trip.UpdatedAt,
	}
}

func toAPITransaction(rec *models.TransactionRecord) *api.Transaction {
	return &api.Transaction{
		ID:            rec.ID,
		TripID:        rec.TripID,
		Type:          string(rec.Type),
		Description:   rec.Description,
		Amount:        rec.Amount,
		PaidBy:        rec.PaidBy,
		Beneficiaries: rec.Beneficiaries,
		SplitType:     string(rec.SplitType),
		SplitAmounts:  rec.SplitAmounts,
		Category:      rec.Category,
		Date:          rec.Date,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}

// fromAPITransaction copies the client-editable fields. An empty split
// type defaults to equal.
func fromAPITransaction(tx api.Transaction) *models.TransactionRecord {
	splitType := models.SplitType(tx.SplitType)
	if splitType == "" {
		splitType = models.SplitEqual
	}
	return &models.TransactionRecord{
		ID:            tx.ID,
		TripID:        tx.TripID,
		Type:          models.TransactionType(tx.Type),
		Description:   tx.Description,
		Amount:        tx.Amount,
		PaidBy:        tx.PaidBy,
		Beneficiaries: tx.Beneficiaries,
		SplitType:     splitType,
		SplitAmounts:  tx.SplitAmounts,
		Category:      tx.Category,
		Date:          tx.Date,
	}
}
