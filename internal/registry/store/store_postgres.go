package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"steward/internal/registry/models"
)

// Postgres persists registry state in PostgreSQL, one table per map plus a
// singleton row for the scalars. Update runs the closure inside a single SQL
// transaction and takes a row lock on the scalars row, which serializes
// mutations the same way the in-memory mutex does.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed store. Call EnsureSchema before
// first use.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the registry tables if they do not exist and seeds
// the scalar row with the given administrator. An already-seeded registry
// keeps its stored administrator.
func EnsureSchema(ctx context.Context, db *sql.DB, administrator models.Identity) error {
	const schema = `
CREATE TABLE IF NOT EXISTS registry_scalars (
	id                SMALLINT PRIMARY KEY CHECK (id = 1),
	administrator     TEXT     NOT NULL,
	paused            BOOLEAN  NOT NULL DEFAULT FALSE,
	last_token_id     BIGINT   NOT NULL DEFAULT 0,
	clock             BIGINT   NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS registry_owners (
	token_id BIGINT PRIMARY KEY,
	owner    TEXT   NOT NULL
);
CREATE TABLE IF NOT EXISTS registry_metadata (
	token_id          BIGINT PRIMARY KEY,
	area_id           BIGINT NOT NULL,
	latitude_e6       BIGINT NOT NULL,
	longitude_e6      BIGINT NOT NULL,
	description       TEXT   NOT NULL,
	image_ref         TEXT   NOT NULL,
	goals             TEXT[] NOT NULL,
	minted_at         BIGINT NOT NULL,
	royalty_bps       INT    NOT NULL,
	royalty_recipient TEXT   NOT NULL
);
CREATE TABLE IF NOT EXISTS registry_area_index (
	area_id  BIGINT PRIMARY KEY,
	token_id BIGINT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS registry_tags (
	token_id BIGINT PRIMARY KEY,
	tags     TEXT[] NOT NULL
);
CREATE TABLE IF NOT EXISTS registry_status (
	token_id   BIGINT PRIMARY KEY,
	label      TEXT   NOT NULL,
	updated_at BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS registry_minters (
	identity TEXT    PRIMARY KEY,
	active   BOOLEAN NOT NULL
);`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create registry schema: %w", err)
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO registry_scalars (id, administrator) VALUES (1, $1) ON CONFLICT (id) DO NOTHING`,
		string(administrator))
	if err != nil {
		return fmt.Errorf("seed registry scalars: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin registry tx: %w", err)
	}
	// Serializes concurrent mutations; released at commit/rollback.
	if _, err := tx.ExecContext(ctx, `SELECT id FROM registry_scalars WHERE id = 1 FOR UPDATE`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("lock registry scalars: %w", err)
	}
	if err := fn(&pgTx{ctx: ctx, q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit registry tx: %w", err)
	}
	return nil
}

func (s *Postgres) View(ctx context.Context, fn func(tx ReadTx) error) error {
	return fn(&pgTx{ctx: ctx, q: s.db})
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type pgTx struct {
	ctx context.Context
	q   querier
}

func (t *pgTx) Owner(tokenID uint64) (models.Identity, bool, error) {
	var owner string
	err := t.q.QueryRowContext(t.ctx,
		`SELECT owner FROM registry_owners WHERE token_id = $1`, int64(tokenID)).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read owner: %w", err)
	}
	return models.Identity(owner), true, nil
}

func (t *pgTx) Metadata(tokenID uint64) (*models.Metadata, bool, error) {
	var (
		md         models.Metadata
		areaID     int64
		royaltyBps int32
	)
	err := t.q.QueryRowContext(t.ctx,
		`SELECT area_id, latitude_e6, longitude_e6, description, image_ref, goals, minted_at, royalty_bps, royalty_recipient
		   FROM registry_metadata WHERE token_id = $1`, int64(tokenID)).
		Scan(&areaID, &md.LatitudeE6, &md.LongitudeE6, &md.Description, &md.ImageRef,
			pq.Array(&md.Goals), &md.MintedAt, &royaltyBps, &md.RoyaltyRecipient)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read metadata: %w", err)
	}
	md.AreaID = uint64(areaID)
	md.RoyaltyBps = uint16(royaltyBps)
	return &md, true, nil
}

func (t *pgTx) AreaToken(areaID uint64) (uint64, bool, error) {
	var tokenID int64
	err := t.q.QueryRowContext(t.ctx,
		`SELECT token_id FROM registry_area_index WHERE area_id = $1`, int64(areaID)).Scan(&tokenID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read area index: %w", err)
	}
	return uint64(tokenID), true, nil
}

func (t *pgTx) Tags(tokenID uint64) ([]string, bool, error) {
	var tags []string
	err := t.q.QueryRowContext(t.ctx,
		`SELECT tags FROM registry_tags WHERE token_id = $1`, int64(tokenID)).Scan(pq.Array(&tags))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read tags: %w", err)
	}
	return tags, true, nil
}

func (t *pgTx) Status(tokenID uint64) (*models.Status, bool, error) {
	var st models.Status
	err := t.q.QueryRowContext(t.ctx,
		`SELECT label, updated_at FROM registry_status WHERE token_id = $1`, int64(tokenID)).
		Scan(&st.Label, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read status: %w", err)
	}
	return &st, true, nil
}

func (t *pgTx) Minter(identity models.Identity) (*models.MinterRecord, bool, error) {
	rec := models.MinterRecord{Identity: identity}
	err := t.q.QueryRowContext(t.ctx,
		`SELECT active FROM registry_minters WHERE identity = $1`, string(identity)).Scan(&rec.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read minter: %w", err)
	}
	return &rec, true, nil
}

func (t *pgTx) Administrator() (models.Identity, error) {
	var admin string
	if err := t.q.QueryRowContext(t.ctx,
		`SELECT administrator FROM registry_scalars WHERE id = 1`).Scan(&admin); err != nil {
		return "", fmt.Errorf("read administrator: %w", err)
	}
	return models.Identity(admin), nil
}

func (t *pgTx) Paused() (bool, error) {
	var paused bool
	if err := t.q.QueryRowContext(t.ctx,
		`SELECT paused FROM registry_scalars WHERE id = 1`).Scan(&paused); err != nil {
		return false, fmt.Errorf("read pause flag: %w", err)
	}
	return paused, nil
}

func (t *pgTx) LastTokenID() (uint64, error) {
	var last int64
	if err := t.q.QueryRowContext(t.ctx,
		`SELECT last_token_id FROM registry_scalars WHERE id = 1`).Scan(&last); err != nil {
		return 0, fmt.Errorf("read last token id: %w", err)
	}
	return uint64(last), nil
}

func (t *pgTx) Clock() (uint64, error) {
	var clock int64
	if err := t.q.QueryRowContext(t.ctx,
		`SELECT clock FROM registry_scalars WHERE id = 1`).Scan(&clock); err != nil {
		return 0, fmt.Errorf("read clock: %w", err)
	}
	return uint64(clock), nil
}

func (t *pgTx) SetOwner(tokenID uint64, owner models.Identity) error {
	_, err := t.q.ExecContext(t.ctx,
		`INSERT INTO registry_owners (token_id, owner) VALUES ($1, $2)
		 ON CONFLICT (token_id) DO UPDATE SET owner = EXCLUDED.owner`,
		int64(tokenID), string(owner))
	if err != nil {
		return fmt.Errorf("write owner: %w", err)
	}
	return nil
}

func (t *pgTx) PutMetadata(tokenID uint64, md models.Metadata) error {
	_, err := t.q.ExecContext(t.ctx,
		`INSERT INTO registry_metadata
		   (token_id, area_id, latitude_e6, longitude_e6, description, image_ref, goals, minted_at, royalty_bps, royalty_recipient)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (token_id) DO UPDATE SET
		   area_id = EXCLUDED.area_id,
		   latitude_e6 = EXCLUDED.latitude_e6,
		   longitude_e6 = EXCLUDED.longitude_e6,
		   description = EXCLUDED.description,
		   image_ref = EXCLUDED.image_ref,
		   goals = EXCLUDED.goals,
		   minted_at = EXCLUDED.minted_at,
		   royalty_bps = EXCLUDED.royalty_bps,
		   royalty_recipient = EXCLUDED.royalty_recipient`,
		int64(tokenID), int64(md.AreaID), md.LatitudeE6, md.LongitudeE6,
		md.Description, md.ImageRef, pq.Array(md.Goals), int64(md.MintedAt),
		int32(md.RoyaltyBps), string(md.RoyaltyRecipient))
	if err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

func (t *pgTx) PutAreaIndex(areaID, tokenID uint64) error {
	_, err := t.q.ExecContext(t.ctx,
		`INSERT INTO registry_area_index (area_id, token_id) VALUES ($1, $2)
		 ON CONFLICT (area_id) DO UPDATE SET token_id = EXCLUDED.token_id`,
		int64(areaID), int64(tokenID))
	if err != nil {
		return fmt.Errorf("write area index: %w", err)
	}
	return nil
}

func (t *pgTx) PutTags(tokenID uint64, tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	_, err := t.q.ExecContext(t.ctx,
		`INSERT INTO registry_tags (token_id, tags) VALUES ($1, $2)
		 ON CONFLICT (token_id) DO UPDATE SET tags = EXCLUDED.tags`,
		int64(tokenID), pq.Array(tags))
	if err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	return nil
}

func (t *pgTx) PutStatus(tokenID uint64, st models.Status) error {
	_, err := t.q.ExecContext(t.ctx,
		`INSERT INTO registry_status (token_id, label, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (token_id) DO UPDATE SET label = EXCLUDED.label, updated_at = EXCLUDED.updated_at`,
		int64(tokenID), st.Label, int64(st.UpdatedAt))
	if err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	return nil
}

func (t *pgTx) PutMinter(rec models.MinterRecord) error {
	_, err := t.q.ExecContext(t.ctx,
		`INSERT INTO registry_minters (identity, active) VALUES ($1, $2)
		 ON CONFLICT (identity) DO UPDATE SET active = EXCLUDED.active`,
		string(rec.Identity), rec.Active)
	if err != nil {
		return fmt.Errorf("write minter: %w", err)
	}
	return nil
}

func (t *pgTx) SetAdministrator(identity models.Identity) error {
	_, err := t.q.ExecContext(t.ctx,
		`UPDATE registry_scalars SET administrator = $1 WHERE id = 1`, string(identity))
	if err != nil {
		return fmt.Errorf("write administrator: %w", err)
	}
	return nil
}

func (t *pgTx) SetPaused(paused bool) error {
	_, err := t.q.ExecContext(t.ctx,
		`UPDATE registry_scalars SET paused = $1 WHERE id = 1`, paused)
	if err != nil {
		return fmt.Errorf("write pause flag: %w", err)
	}
	return nil
}

func (t *pgTx) SetLastTokenID(tokenID uint64) error {
	_, err := t.q.ExecContext(t.ctx,
		`UPDATE registry_scalars SET last_token_id = $1 WHERE id = 1`, int64(tokenID))
	if err != nil {
		return fmt.Errorf("write last token id: %w", err)
	}
	return nil
}

func (t *pgTx) SetClock(value uint64) error {
	_, err := t.q.ExecContext(t.ctx,
		`UPDATE registry_scalars SET clock = $1 WHERE id = 1`, int64(value))
	if err != nil {
		return fmt.Errorf("write clock: %w", err)
	}
	return nil
}
