package service

import (
	"context"
	"time"

	"steward/internal/registry/access"
	"steward/internal/registry/models"
	"steward/internal/registry/store"
	dErrors "steward/pkg/domain-errors"
)

// Administrative operations. These bypass the pause gate: the pause switch
// exists so the administrator can still steer a halted registry.

// SetAdministrator hands the administrator role to newAdmin. Only the
// current administrator may call it.
func (s *Service) SetAdministrator(ctx context.Context, caller, newAdmin models.Identity) error {
	start := time.Now()
	err := s.store.Update(ctx, func(tx store.Tx) error {
		if err := access.RequireAdministrator(tx, caller); err != nil {
			return err
		}
		if newAdmin == "" {
			return dErrors.New(dErrors.CodeInvalidRecipient, "new administrator identity is required")
		}
		if err := tx.SetAdministrator(newAdmin); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "write administrator")
		}
		return nil
	})
	s.observe("set_administrator", start, err)
	if err == nil {
		s.logger.InfoContext(ctx, "administrator changed", "new_admin", newAdmin)
	}
	return err
}

// Pause sets the global pause flag; every non-administrative mutation fails
// with ContractPaused until Unpause.
func (s *Service) Pause(ctx context.Context, caller models.Identity) error {
	return s.setPaused(ctx, caller, true)
}

// Unpause clears the global pause flag.
func (s *Service) Unpause(ctx context.Context, caller models.Identity) error {
	return s.setPaused(ctx, caller, false)
}

func (s *Service) setPaused(ctx context.Context, caller models.Identity, paused bool) error {
	start := time.Now()
	err := s.store.Update(ctx, func(tx store.Tx) error {
		if err := access.RequireAdministrator(tx, caller); err != nil {
			return err
		}
		if err := tx.SetPaused(paused); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "write pause flag")
		}
		return nil
	})
	op := "pause"
	if !paused {
		op = "unpause"
	}
	s.observe(op, start, err)
	if err == nil {
		s.logger.InfoContext(ctx, "pause flag changed", "paused", paused)
	}
	return err
}

// AddMinter registers identity on the minter allowlist. Re-adding a known
// identity fails AlreadyRegistered even if it is currently inactive: once
// registered, entries are never forgotten, only toggled.
func (s *Service) AddMinter(ctx context.Context, caller, identity models.Identity) error {
	start := time.Now()
	err := s.store.Update(ctx, func(tx store.Tx) error {
		if err := access.RequireAdministrator(tx, caller); err != nil {
			return err
		}
		if identity == "" {
			return dErrors.New(dErrors.CodeInvalidMinter, "minter identity is required")
		}
		if _, ok, err := tx.Minter(identity); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "read minter")
		} else if ok {
			return dErrors.New(dErrors.CodeAlreadyRegistered, "identity already has a minter entry")
		}
		if err := tx.PutMinter(models.MinterRecord{Identity: identity, Active: true}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "write minter")
		}
		return nil
	})
	s.observe("add_minter", start, err)
	if err == nil {
		s.logger.InfoContext(ctx, "minter approved", "minter", identity)
	}
	return err
}

// RemoveMinter soft-disables identity's minter entry. The entry itself is
// kept so the registration history survives.
func (s *Service) RemoveMinter(ctx context.Context, caller, identity models.Identity) error {
	start := time.Now()
	err := s.store.Update(ctx, func(tx store.Tx) error {
		if err := access.RequireAdministrator(tx, caller); err != nil {
			return err
		}
		rec, ok, err := tx.Minter(identity)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "read minter")
		}
		if !ok {
			return dErrors.New(dErrors.CodeInvalidMinter, "identity has no minter entry")
		}
		rec.Active = false
		if err := tx.PutMinter(*rec); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "write minter")
		}
		return nil
	})
	s.observe("remove_minter", start, err)
	if err == nil {
		s.logger.InfoContext(ctx, "minter revoked", "minter", identity)
	}
	return err
}
