// Package models defines the persisted shapes of a trip.
//
// # Models
//
//   - Trip: dates, budget, owner and grouping settings
//   - Participant: a traveler, optionally part of a family group
//   - TransactionRecord: an expense, income or transfer as stored
//
// Records keep amounts as decimal strings exactly as they were entered.
// Parsing into numeric values happens in the ledger package, so a malformed
// historical record never prevents a trip from loading.
//
// # Design Principles
//
// 1. **Store what was entered**: no coercion on the way in
// 2. **Avoid circular references**: use ID strings instead of pointers for relationships
// 3. **Flat records**: type-specific rules live in the ledger, not here
package models
