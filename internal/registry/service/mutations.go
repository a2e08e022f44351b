package service

import (
	"context"
	"time"

	"steward/internal/events"
	"steward/internal/registry/access"
	"steward/internal/registry/models"
	"steward/internal/registry/store"
	dErrors "steward/pkg/domain-errors"
)

// MintParams carries everything a mint needs besides the caller.
type MintParams struct {
	AreaID           uint64
	LatitudeE6       int64
	LongitudeE6      int64
	Description      string
	ImageRef         string
	Goals            []string
	RoyaltyBps       uint16
	RoyaltyRecipient models.Identity
	Recipient        models.Identity
	Tags             []string
}

// Mint issues a new certificate for a protected area and returns its token
// id. Precondition order: pause gate, caller is active minter, area id
// positive, area unused, recipient is not the administrator, GPS, goals,
// text lengths, royalty, tag budget.
func (s *Service) Mint(ctx context.Context, caller models.Identity, p MintParams) (uint64, error) {
	ctx, span := s.tracer.Start(ctx, "registry.mint")
	defer span.End()
	start := time.Now()

	var (
		tokenID uint64
		ev      events.Event
	)
	err := s.store.Update(ctx, func(tx store.Tx) error {
		if err := requireNotPaused(tx); err != nil {
			return err
		}
		if err := access.RequireActiveMinter(tx, caller); err != nil {
			return err
		}
		if p.AreaID == 0 {
			return dErrors.New(dErrors.CodeInvalidAreaID, "area identifier must be positive")
		}
		if _, used, err := tx.AreaToken(p.AreaID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "read area index")
		} else if used {
			return dErrors.New(dErrors.CodeDuplicateArea, "area already has a live certificate")
		}
		admin, err := tx.Administrator()
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "read administrator")
		}
		if p.Recipient == "" || p.Recipient == admin {
			return dErrors.New(dErrors.CodeInvalidRecipient, "recipient must be a non-administrator identity")
		}
		if !models.ValidGPS(p.LatitudeE6, p.LongitudeE6) {
			return dErrors.New(dErrors.CodeInvalidGPS, "coordinates out of range")
		}
		if !models.ValidGoals(p.Goals) {
			return dErrors.New(dErrors.CodeInvalidGoals, "conservation goals must hold 1 to 5 entries")
		}
		if !models.ValidMetadataText(p.Description, p.ImageRef) {
			return dErrors.New(dErrors.CodeInvalidMetadata, "description or image reference too long")
		}
		if !models.ValidRoyalty(p.RoyaltyBps) {
			return dErrors.New(dErrors.CodeInvalidRoyalty, "royalty exceeds 10000 basis points")
		}
		if !models.ValidTagBudget(0, len(p.Tags)) {
			return dErrors.New(dErrors.CodeInvalidMetadata, "too many tags")
		}

		last, err := tx.LastTokenID()
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "read last token id")
		}
		clock, err := tx.Clock()
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "read clock")
		}
		tokenID = last + 1
		clock++

		md := models.Metadata{
			AreaID:           p.AreaID,
			LatitudeE6:       p.LatitudeE6,
			LongitudeE6:      p.LongitudeE6,
			Description:      p.Description,
			ImageRef:         p.ImageRef,
			Goals:            p.Goals,
			MintedAt:         clock,
			RoyaltyBps:       p.RoyaltyBps,
			RoyaltyRecipient: p.RoyaltyRecipient,
		}
		if err := tx.SetOwner(tokenID, p.Recipient); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "write owner")
		}
		if err := tx.PutMetadata(tokenID, md); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "write metadata")
		}
		if err := tx.PutAreaIndex(p.AreaID, tokenID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "write area index")
		}
		if err := tx.PutTags(tokenID, p.Tags); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "write tags")
		}
		if err := tx.PutStatus(tokenID, models.Status{Label: models.StatusActive, UpdatedAt: clock}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "write status")
		}
		if err := tx.SetLastTokenID(tokenID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "write last token id")
		}
		if err := tx.SetClock(clock); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "write clock")
		}
		ev = events.Event{
			Type:      events.TypeMinted,
			TokenID:   tokenID,
			AreaID:    p.AreaID,
			Minter:    caller,
			Recipient: p.Recipient,
		}
		return nil
	})
	s.observe("mint", start, err)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.MintsTotal.Inc()
	}
	s.emit(ctx, ev)
	return tokenID, nil
}

// Transfer reassigns ownership of tokenID from sender to recipient. The
// caller must be the sender, and the sender must currently own the token.
func (s *Service) Transfer(ctx context.Context, caller models.Identity, tokenID uint64, sender, recipient models.Identity) error {
	ctx, span := s.tracer.Start(ctx, "registry.transfer")
	defer span.End()
	start := time.Now()

	err := s.store.Update(ctx, func(tx store.Tx) error {
		if err := requireNotPaused(tx); err != nil {
			return err
		}
		if caller != sender {
			return dErrors.New(dErrors.CodeUnauthorized, "caller must be the sender")
		}
		owner, ok, err := tx.Owner(tokenID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "read owner")
		}
		if !ok {
			return dErrors.New(dErrors.CodeNotFound, "token does not exist")
		}
		if owner != sender {
			return dErrors.New(dErrors.CodeNotOwner, "sender does not own this token")
		}
		if err := tx.SetOwner(tokenID, recipient); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "write owner")
		}
		return nil
	})
	s.observe("transfer", start, err)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if s.metrics != nil {
		s.metrics.TransfersTotal.Inc()
	}
	s.emit(ctx, events.Event{
		Type:    events.TypeTransferred,
		TokenID: tokenID,
		From:    sender,
		To:      recipient,
	})
	return nil
}

// UpdateMetadata replaces a token's description and image reference,
// leaving the rest of the record untouched, and refreshes the status
// timestamp.
func (s *Service) UpdateMetadata(ctx context.Context, caller models.Identity, tokenID uint64, description, imageRef string) error {
	ctx, span := s.tracer.Start(ctx, "registry.update_metadata")
	defer span.End()
	start := time.Now()

	err := s.store.Update(ctx, func(tx store.Tx) error {
		if err := requireNotPaused(tx); err != nil {
			return err
		}
		if err := access.RequireOwner(tx, tokenID, caller); err != nil {
			return err
		}
		if !models.ValidMetadataText(description, imageRef) {
			return dErrors.New(dErrors.CodeInvalidMetadata, "description or image reference too long")
		}
		md, _, err := tx.Metadata(tokenID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "read metadata")
		}
		md.Description = description
		md.ImageRef = imageRef
		return s.touch(tx, tokenID, *md)
	})
	s.observe("update_metadata", start, err)
	if err != nil {
		span.RecordError(err)
		return err
	}
	s.invalidate(ctx, tokenID)
	s.emit(ctx, events.Event{
		Type:    events.TypeMetadataUpdated,
		TokenID: tokenID,
		Owner:   caller,
	})
	return nil
}

// UpdateGoals replaces a token's conservation-goal list and refreshes the
// status timestamp.
func (s *Service) UpdateGoals(ctx context.Context, caller models.Identity, tokenID uint64, goals []string) error {
	ctx, span := s.tracer.Start(ctx, "registry.update_goals")
	defer span.End()
	start := time.Now()

	err := s.store.Update(ctx, func(tx store.Tx) error {
		if err := requireNotPaused(tx); err != nil {
			return err
		}
		if err := access.RequireOwner(tx, tokenID, caller); err != nil {
			return err
		}
		if !models.ValidGoals(goals) {
			return dErrors.New(dErrors.CodeInvalidGoals, "conservation goals must hold 1 to 5 entries")
		}
		md, _, err := tx.Metadata(tokenID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "read metadata")
		}
		md.Goals = goals
		return s.touch(tx, tokenID, *md)
	})
	s.observe("update_goals", start, err)
	if err != nil {
		span.RecordError(err)
		return err
	}
	s.invalidate(ctx, tokenID)
	s.emit(ctx, events.Event{
		Type:    events.TypeGoalsUpdated,
		TokenID: tokenID,
		Owner:   caller,
	})
	return nil
}

// UpdateStatus overwrites a token's lifecycle label. Permitted for the
// owner or any active minter (the oracle bridge drives status through the
// minter path).
func (s *Service) UpdateStatus(ctx context.Context, caller models.Identity, tokenID uint64, label string) error {
	ctx, span := s.tracer.Start(ctx, "registry.update_status")
	defer span.End()
	start := time.Now()

	err := s.store.Update(ctx, func(tx store.Tx) error {
		if err := requireNotPaused(tx); err != nil {
			return err
		}
		if err := access.RequireOwnerOrMinter(tx, tokenID, caller); err != nil {
			return err
		}
		if !models.ValidStatusLabel(label) {
			return dErrors.New(dErrors.CodeInvalidStatus, "status label too long")
		}
		clock, err := tx.Clock()
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "read clock")
		}
		clock++
		if err := tx.PutStatus(tokenID, models.Status{Label: label, UpdatedAt: clock}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "write status")
		}
		if err := tx.SetClock(clock); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "write clock")
		}
		return nil
	})
	s.observe("update_status", start, err)
	if err != nil {
		span.RecordError(err)
		return err
	}
	s.emit(ctx, events.Event{
		Type:    events.TypeStatusUpdated,
		TokenID: tokenID,
		Status:  label,
	})
	return nil
}

// AddTags appends tags to a token, preserving existing order. Tag appends
// are not timestamped: the logical clock does not advance.
func (s *Service) AddTags(ctx context.Context, caller models.Identity, tokenID uint64, tags []string) error {
	ctx, span := s.tracer.Start(ctx, "registry.add_tags")
	defer span.End()
	start := time.Now()

	err := s.store.Update(ctx, func(tx store.Tx) error {
		if err := requireNotPaused(tx); err != nil {
			return err
		}
		if err := access.RequireOwner(tx, tokenID, caller); err != nil {
			return err
		}
		existing, _, err := tx.Tags(tokenID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "read tags")
		}
		if !models.ValidTagBudget(len(existing), len(tags)) {
			return dErrors.New(dErrors.CodeInvalidMetadata, "tag budget exceeded")
		}
		if err := tx.PutTags(tokenID, append(existing, tags...)); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "write tags")
		}
		return nil
	})
	s.observe("add_tags", start, err)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// touch writes an updated metadata record, advances the logical clock and
// refreshes the status timestamp. Shared by the metadata and goal updates.
func (s *Service) touch(tx store.Tx, tokenID uint64, md models.Metadata) error {
	clock, err := tx.Clock()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "read clock")
	}
	clock++
	if err := tx.PutMetadata(tokenID, md); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "write metadata")
	}
	st, ok, err := tx.Status(tokenID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "read status")
	}
	if !ok {
		// Every minted token has a status record.
		return dErrors.New(dErrors.CodeInternal, "status record missing")
	}
	st.UpdatedAt = clock
	if err := tx.PutStatus(tokenID, *st); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "write status")
	}
	if err := tx.SetClock(clock); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "write clock")
	}
	return nil
}

// invalidate drops the cached metadata entry, if a cache is wired.
func (s *Service) invalidate(ctx context.Context, tokenID uint64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, tokenID)
	}
}
