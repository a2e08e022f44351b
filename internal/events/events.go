// Package events carries the registry's emitted events and the sinks that
// fan them out. Emission is best-effort observability for off-core indexers;
// it is not part of the consistency contract, so sinks log failures instead
// of failing the mutation that produced the event.
package events

import (
	"time"

	"steward/internal/registry/models"
)

// Type names an emitted registry event.
type Type string

const (
	TypeMinted          Type = "nft-minted"
	TypeTransferred     Type = "nft-transferred"
	TypeMetadataUpdated Type = "metadata-updated"
	TypeGoalsUpdated    Type = "goals-updated"
	TypeStatusUpdated   Type = "status-updated"
)

// Event is the envelope published after a successful mutation. Only the
// fields relevant to the event type are set.
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	TokenID   uint64          `json:"token_id"`
	AreaID    uint64          `json:"area_id,omitempty"`
	Minter    models.Identity `json:"minter,omitempty"`
	Recipient models.Identity `json:"recipient,omitempty"`
	From      models.Identity `json:"from,omitempty"`
	To        models.Identity `json:"to,omitempty"`
	Owner     models.Identity `json:"owner,omitempty"`
	Status    string          `json:"status,omitempty"`
}
