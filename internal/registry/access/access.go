// Package access resolves caller capabilities against registry state.
//
// The three primitives (administrator, active minter, owner) are pure reads
// over a store transaction. Mutation operations compose them through the
// Require helpers instead of re-deriving authorization per operation.
package access

import (
	"errors"

	"steward/internal/registry/models"
	"steward/internal/registry/store"
	dErrors "steward/pkg/domain-errors"
	"steward/pkg/platform/sentinel"
)

// IsAdministrator reports whether identity is the stored administrator.
func IsAdministrator(tx store.ReadTx, identity models.Identity) (bool, error) {
	admin, err := tx.Administrator()
	if err != nil {
		return false, err
	}
	return identity != "" && identity == admin, nil
}

// IsActiveMinter reports whether identity has a minter entry with the
// active flag set.
func IsActiveMinter(tx store.ReadTx, identity models.Identity) (bool, error) {
	rec, ok, err := tx.Minter(identity)
	if err != nil {
		return false, err
	}
	return ok && rec.Active, nil
}

// IsOwner reports whether identity owns tokenID. Returns
// sentinel.ErrNotFound when the token has no owner at all.
func IsOwner(tx store.ReadTx, tokenID uint64, identity models.Identity) (bool, error) {
	owner, ok, err := tx.Owner(tokenID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, sentinel.ErrNotFound
	}
	return owner == identity, nil
}

// RequireAdministrator fails with Unauthorized unless caller is the
// administrator.
func RequireAdministrator(tx store.ReadTx, caller models.Identity) error {
	ok, err := IsAdministrator(tx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "resolve administrator")
	}
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the administrator")
	}
	return nil
}

// RequireActiveMinter fails with InvalidMinter unless caller is an active
// minter.
func RequireActiveMinter(tx store.ReadTx, caller models.Identity) error {
	ok, err := IsActiveMinter(tx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "resolve minter")
	}
	if !ok {
		return dErrors.New(dErrors.CodeInvalidMinter, "caller is not an active minter")
	}
	return nil
}

// RequireOwner fails with NotFound if the token does not exist and NotOwner
// if caller is not its current owner.
func RequireOwner(tx store.ReadTx, tokenID uint64, caller models.Identity) error {
	ok, err := IsOwner(tx, tokenID, caller)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "token does not exist")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "resolve owner")
	}
	if !ok {
		return dErrors.New(dErrors.CodeNotOwner, "caller does not own this token")
	}
	return nil
}

// RequireOwnerOrMinter fails with NotFound if the token does not exist and
// Unauthorized if caller is neither the owner nor an active minter.
func RequireOwnerOrMinter(tx store.ReadTx, tokenID uint64, caller models.Identity) error {
	owns, err := IsOwner(tx, tokenID, caller)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "token does not exist")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "resolve owner")
	}
	if owns {
		return nil
	}
	mints, err := IsActiveMinter(tx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "resolve minter")
	}
	if !mints {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is neither owner nor active minter")
	}
	return nil
}
