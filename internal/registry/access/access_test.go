package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"steward/internal/registry/models"
	"steward/internal/registry/store"
	dErrors "steward/pkg/domain-errors"
)

func newState(t *testing.T) *store.InMemory {
	t.Helper()
	st := store.NewInMemory("deployer")
	err := st.Update(context.Background(), func(tx store.Tx) error {
		if err := tx.SetOwner(1, "alice"); err != nil {
			return err
		}
		if err := tx.PutMinter(models.MinterRecord{Identity: "ranger", Active: true}); err != nil {
			return err
		}
		return tx.PutMinter(models.MinterRecord{Identity: "retired", Active: false})
	})
	require.NoError(t, err)
	return st
}

func view(t *testing.T, st *store.InMemory, fn func(tx store.ReadTx)) {
	t.Helper()
	err := st.View(context.Background(), func(tx store.ReadTx) error {
		fn(tx)
		return nil
	})
	require.NoError(t, err)
}

func TestRequireAdministrator(t *testing.T) {
	st := newState(t)
	view(t, st, func(tx store.ReadTx) {
		require.NoError(t, RequireAdministrator(tx, "deployer"))

		err := RequireAdministrator(tx, "alice")
		require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

		err = RequireAdministrator(tx, "")
		require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func TestRequireActiveMinter(t *testing.T) {
	st := newState(t)
	view(t, st, func(tx store.ReadTx) {
		require.NoError(t, RequireActiveMinter(tx, "ranger"))

		err := RequireActiveMinter(tx, "retired")
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidMinter))

		err = RequireActiveMinter(tx, "stranger")
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidMinter))
	})
}

func TestRequireOwner(t *testing.T) {
	st := newState(t)
	view(t, st, func(tx store.ReadTx) {
		require.NoError(t, RequireOwner(tx, 1, "alice"))

		err := RequireOwner(tx, 1, "bob")
		require.True(t, dErrors.HasCode(err, dErrors.CodeNotOwner))

		err = RequireOwner(tx, 99, "alice")
		require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestRequireOwnerOrMinter(t *testing.T) {
	st := newState(t)
	view(t, st, func(tx store.ReadTx) {
		require.NoError(t, RequireOwnerOrMinter(tx, 1, "alice"))
		require.NoError(t, RequireOwnerOrMinter(tx, 1, "ranger"))

		err := RequireOwnerOrMinter(tx, 1, "retired")
		require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

		err = RequireOwnerOrMinter(tx, 1, "stranger")
		require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

		err = RequireOwnerOrMinter(tx, 99, "ranger")
		require.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
