// Package models defines the registry's domain types.
//
// Invariants (hold after every committed mutation):
//   - every minted token has exactly one metadata record, one status record,
//     and a tag list (possibly empty)
//   - an area identifier backs at most one live token
//   - the last-issued token id is never reused; tokens are never burned
//   - royalty is within [0, 10000] basis points
//   - goal lists hold 1–5 entries; tag lists at most 10
package models

// Identity is an opaque external principal: a wallet-style address, not an
// internal uuid. The empty string is never a valid identity.
type Identity = string

// StatusActive is the label every token starts with at mint.
const StatusActive = "active"

// Metadata is the per-token record created at mint and mutable thereafter.
// Coordinates are micro-degrees so the record stays integer-only.
type Metadata struct {
	AreaID           uint64   `json:"area_id"`
	LatitudeE6       int64    `json:"latitude_e6"`
	LongitudeE6      int64    `json:"longitude_e6"`
	Description      string   `json:"description"`
	ImageRef         string   `json:"image_ref"`
	Goals            []string `json:"goals"`
	MintedAt         uint64   `json:"minted_at"`
	RoyaltyBps       uint16   `json:"royalty_bps"`
	RoyaltyRecipient Identity `json:"royalty_recipient"`
}

// Status tracks a token's lifecycle label and the logical-clock value of its
// last update.
type Status struct {
	Label     string `json:"label"`
	UpdatedAt uint64 `json:"updated_at"`
}

// MinterRecord is a minter-allowlist entry. Entries are created on admin
// approval and soft-disabled on revocation, never deleted.
type MinterRecord struct {
	Identity Identity `json:"identity"`
	Active   bool     `json:"active"`
}
