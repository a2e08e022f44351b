// Package store holds the registry state: five persistent maps (ownership,
// metadata, area index, tag sets, status) plus the minter allowlist and the
// scalar state (administrator, pause flag, last-issued token id, logical
// clock). All mutations pass through closure-scoped transactions so a failed
// operation never leaves partial writes behind.
package store

import (
	"context"

	"steward/internal/registry/models"
)

// ReadTx is a consistent read view over registry state. Lookups report
// absence with a false second return; errors are reserved for backend I/O.
type ReadTx interface {
	Owner(tokenID uint64) (models.Identity, bool, error)
	Metadata(tokenID uint64) (*models.Metadata, bool, error)
	AreaToken(areaID uint64) (uint64, bool, error)
	Tags(tokenID uint64) ([]string, bool, error)
	Status(tokenID uint64) (*models.Status, bool, error)
	Minter(identity models.Identity) (*models.MinterRecord, bool, error)
	Administrator() (models.Identity, error)
	Paused() (bool, error)
	LastTokenID() (uint64, error)
	Clock() (uint64, error)
}

// Tx extends the read view with writes. Writes are visible to subsequent
// reads within the same transaction and commit only if the Update closure
// returns nil.
type Tx interface {
	ReadTx
	SetOwner(tokenID uint64, owner models.Identity) error
	PutMetadata(tokenID uint64, md models.Metadata) error
	PutAreaIndex(areaID, tokenID uint64) error
	PutTags(tokenID uint64, tags []string) error
	PutStatus(tokenID uint64, st models.Status) error
	PutMinter(rec models.MinterRecord) error
	SetAdministrator(identity models.Identity) error
	SetPaused(paused bool) error
	SetLastTokenID(tokenID uint64) error
	SetClock(value uint64) error
}

// Store serializes mutations: no two Update closures interleave their reads
// and writes, and a closure that returns an error commits nothing.
type Store interface {
	Update(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx ReadTx) error) error
}
