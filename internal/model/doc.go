// Package model defines shared data types used across the settlement engine.
//
// Conventions:
//   - Money: shopspring/decimal fixed-point, truncated to 4 fractional digits
//     at ingest and never re-rounded afterwards
//   - Client IDs: uint16; transaction IDs: uint32, globally unique per run
//   - Transaction kinds: lowercase wire names (deposit, withdrawal, dispute,
//     resolve, chargeback)
package model
