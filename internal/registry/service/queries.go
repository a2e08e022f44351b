package service

import (
	"context"

	"steward/internal/registry/access"
	"steward/internal/registry/models"
	"steward/internal/registry/store"
	dErrors "steward/pkg/domain-errors"
)

// Query operations are read-only projections. Absence is reported with a
// false second return, never as an error; errors are reserved for backend
// failures.

// GetOwner returns the current owner of tokenID.
func (s *Service) GetOwner(ctx context.Context, tokenID uint64) (models.Identity, bool, error) {
	var (
		owner models.Identity
		ok    bool
	)
	err := s.store.View(ctx, func(tx store.ReadTx) error {
		var err error
		owner, ok, err = tx.Owner(tokenID)
		return err
	})
	if err != nil {
		return "", false, dErrors.Wrap(err, dErrors.CodeInternal, "read owner")
	}
	return owner, ok, nil
}

// GetMetadata returns the metadata record for tokenID, consulting the
// cache first when one is wired.
func (s *Service) GetMetadata(ctx context.Context, tokenID uint64) (*models.Metadata, bool, error) {
	if s.cache != nil {
		if md, ok := s.cache.Get(ctx, tokenID); ok {
			return md, true, nil
		}
	}
	var (
		md *models.Metadata
		ok bool
	)
	err := s.store.View(ctx, func(tx store.ReadTx) error {
		var err error
		md, ok, err = tx.Metadata(tokenID)
		return err
	})
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "read metadata")
	}
	if ok && s.cache != nil {
		s.cache.Set(ctx, tokenID, md)
	}
	return md, ok, nil
}

// GetStatus returns the status record for tokenID.
func (s *Service) GetStatus(ctx context.Context, tokenID uint64) (*models.Status, bool, error) {
	var (
		st *models.Status
		ok bool
	)
	err := s.store.View(ctx, func(tx store.ReadTx) error {
		var err error
		st, ok, err = tx.Status(tokenID)
		return err
	})
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "read status")
	}
	return st, ok, nil
}

// GetTags returns the tag list for tokenID.
func (s *Service) GetTags(ctx context.Context, tokenID uint64) ([]string, bool, error) {
	var (
		tags []string
		ok   bool
	)
	err := s.store.View(ctx, func(tx store.ReadTx) error {
		var err error
		tags, ok, err = tx.Tags(tokenID)
		return err
	})
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "read tags")
	}
	return tags, ok, nil
}

// GetAdministrator returns the current administrator identity.
func (s *Service) GetAdministrator(ctx context.Context) (models.Identity, error) {
	var admin models.Identity
	err := s.store.View(ctx, func(tx store.ReadTx) error {
		var err error
		admin, err = tx.Administrator()
		return err
	})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "read administrator")
	}
	return admin, nil
}

// IsPaused reports the pause flag.
func (s *Service) IsPaused(ctx context.Context) (bool, error) {
	var paused bool
	err := s.store.View(ctx, func(tx store.ReadTx) error {
		var err error
		paused, err = tx.Paused()
		return err
	})
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "read pause flag")
	}
	return paused, nil
}

// IsActiveMinter reports whether identity is on the allowlist with the
// active flag set.
func (s *Service) IsActiveMinter(ctx context.Context, identity models.Identity) (bool, error) {
	var active bool
	err := s.store.View(ctx, func(tx store.ReadTx) error {
		var err error
		active, err = access.IsActiveMinter(tx, identity)
		return err
	})
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "read minter")
	}
	return active, nil
}

// LastTokenID returns the highest token id ever minted.
func (s *Service) LastTokenID(ctx context.Context) (uint64, error) {
	var last uint64
	err := s.store.View(ctx, func(tx store.ReadTx) error {
		var err error
		last, err = tx.LastTokenID()
		return err
	})
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "read last token id")
	}
	return last, nil
}
