//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"steward/internal/registry/models"
	"steward/internal/registry/store"
	"steward/pkg/testutil/containers"
)

const testAdmin = "deployer"

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.postgres = containers.NewPostgresContainer(s.T())
	s.Require().NoError(store.EnsureSchema(s.ctx, s.postgres.DB, testAdmin))
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(s.ctx,
		"registry_owners", "registry_metadata", "registry_area_index",
		"registry_tags", "registry_status", "registry_minters", "registry_scalars")
	s.Require().NoError(err)
	// Re-seed the singleton scalar row.
	s.Require().NoError(store.EnsureSchema(s.ctx, s.postgres.DB, testAdmin))
}

func (s *PostgresStoreSuite) TestSeededScalars() {
	err := s.store.View(s.ctx, func(tx store.ReadTx) error {
		admin, err := tx.Administrator()
		s.Require().NoError(err)
		s.Equal(models.Identity(testAdmin), admin)

		paused, err := tx.Paused()
		s.Require().NoError(err)
		s.False(paused)

		last, err := tx.LastTokenID()
		s.Require().NoError(err)
		s.Zero(last)

		clock, err := tx.Clock()
		s.Require().NoError(err)
		s.Zero(clock)
		return nil
	})
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestTokenRoundTrip() {
	md := models.Metadata{
		AreaID:           42,
		LatitudeE6:       -2_333_333,
		LongitudeE6:      34_833_333,
		Description:      "Western corridor",
		ImageRef:         "ipfs://bafyexample",
		Goals:            []string{"anti-poaching patrols", "wildlife corridor"},
		MintedAt:         1,
		RoyaltyBps:       250,
		RoyaltyRecipient: "conservation-fund",
	}
	err := s.store.Update(s.ctx, func(tx store.Tx) error {
		s.Require().NoError(tx.SetOwner(1, "alice"))
		s.Require().NoError(tx.PutMetadata(1, md))
		s.Require().NoError(tx.PutAreaIndex(42, 1))
		s.Require().NoError(tx.PutTags(1, []string{"savanna", "unesco"}))
		s.Require().NoError(tx.PutStatus(1, models.Status{Label: models.StatusActive, UpdatedAt: 1}))
		s.Require().NoError(tx.SetLastTokenID(1))
		return tx.SetClock(1)
	})
	s.Require().NoError(err)

	err = s.store.View(s.ctx, func(tx store.ReadTx) error {
		owner, ok, err := tx.Owner(1)
		s.Require().NoError(err)
		s.Require().True(ok)
		s.Equal(models.Identity("alice"), owner)

		got, ok, err := tx.Metadata(1)
		s.Require().NoError(err)
		s.Require().True(ok)
		s.Equal(md, *got)

		tokenID, ok, err := tx.AreaToken(42)
		s.Require().NoError(err)
		s.Require().True(ok)
		s.Equal(uint64(1), tokenID)

		tags, ok, err := tx.Tags(1)
		s.Require().NoError(err)
		s.Require().True(ok)
		s.Equal([]string{"savanna", "unesco"}, tags)

		st, ok, err := tx.Status(1)
		s.Require().NoError(err)
		s.Require().True(ok)
		s.Equal(models.StatusActive, st.Label)
		return nil
	})
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestAbsenceReads() {
	err := s.store.View(s.ctx, func(tx store.ReadTx) error {
		_, ok, err := tx.Owner(99)
		s.Require().NoError(err)
		s.False(ok)

		md, ok, err := tx.Metadata(99)
		s.Require().NoError(err)
		s.False(ok)
		s.Nil(md)

		_, ok, err = tx.AreaToken(99)
		s.Require().NoError(err)
		s.False(ok)

		_, ok, err = tx.Minter("stranger")
		s.Require().NoError(err)
		s.False(ok)
		return nil
	})
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestUpdateRollsBackOnError() {
	boom := errors.New("validation failed")

	err := s.store.Update(s.ctx, func(tx store.Tx) error {
		s.Require().NoError(tx.SetOwner(1, "alice"))
		s.Require().NoError(tx.SetLastTokenID(7))
		s.Require().NoError(tx.SetPaused(true))
		return boom
	})
	s.Require().ErrorIs(err, boom)

	err = s.store.View(s.ctx, func(tx store.ReadTx) error {
		_, ok, err := tx.Owner(1)
		s.Require().NoError(err)
		s.False(ok)

		last, err := tx.LastTokenID()
		s.Require().NoError(err)
		s.Zero(last)

		paused, err := tx.Paused()
		s.Require().NoError(err)
		s.False(paused)
		return nil
	})
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestMinterUpsert() {
	err := s.store.Update(s.ctx, func(tx store.Tx) error {
		return tx.PutMinter(models.MinterRecord{Identity: "ranger", Active: true})
	})
	s.Require().NoError(err)

	err = s.store.Update(s.ctx, func(tx store.Tx) error {
		return tx.PutMinter(models.MinterRecord{Identity: "ranger", Active: false})
	})
	s.Require().NoError(err)

	err = s.store.View(s.ctx, func(tx store.ReadTx) error {
		rec, ok, err := tx.Minter("ranger")
		s.Require().NoError(err)
		s.Require().True(ok)
		s.False(rec.Active)
		return nil
	})
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestMetadataUpsertReplacesGoals() {
	md := models.Metadata{AreaID: 7, Goals: []string{"one", "two"}, MintedAt: 1}
	err := s.store.Update(s.ctx, func(tx store.Tx) error {
		return tx.PutMetadata(1, md)
	})
	s.Require().NoError(err)

	md.Goals = []string{"replacement"}
	md.Description = "revised"
	err = s.store.Update(s.ctx, func(tx store.Tx) error {
		return tx.PutMetadata(1, md)
	})
	s.Require().NoError(err)

	err = s.store.View(s.ctx, func(tx store.ReadTx) error {
		got, ok, err := tx.Metadata(1)
		s.Require().NoError(err)
		s.Require().True(ok)
		s.Equal([]string{"replacement"}, got.Goals)
		s.Equal("revised", got.Description)
		return nil
	})
	s.Require().NoError(err)
}
