package store

import (
	"context"
	"sync"

	"steward/internal/registry/models"
)

// InMemory keeps the whole registry state in process memory. A single mutex
// serializes Update closures; writes are staged in an overlay and applied to
// the live maps only when the closure succeeds, so validation failures never
// leave partial state.
type InMemory struct {
	mu    sync.RWMutex
	state memState
}

type memState struct {
	owners    map[uint64]models.Identity
	metadata  map[uint64]models.Metadata
	areaIndex map[uint64]uint64
	tags      map[uint64][]string
	status    map[uint64]models.Status
	minters   map[models.Identity]models.MinterRecord

	administrator models.Identity
	paused        bool
	lastTokenID   uint64
	clock         uint64
}

// NewInMemory creates an empty registry owned by the given administrator.
func NewInMemory(administrator models.Identity) *InMemory {
	return &InMemory{
		state: memState{
			owners:        make(map[uint64]models.Identity),
			metadata:      make(map[uint64]models.Metadata),
			areaIndex:     make(map[uint64]uint64),
			tags:          make(map[uint64][]string),
			status:        make(map[uint64]models.Status),
			minters:       make(map[models.Identity]models.MinterRecord),
			administrator: administrator,
		},
	}
}

func (s *InMemory) Update(_ context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := newMemTx(&s.state)
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *InMemory) View(_ context.Context, fn func(tx ReadTx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(newMemTx(&s.state))
}

// Snapshot returns a deep copy of the full state. Tests use it to verify
// that failed mutations leave every map and scalar untouched.
func (s *InMemory) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Owners:        make(map[uint64]models.Identity, len(s.state.owners)),
		Metadata:      make(map[uint64]models.Metadata, len(s.state.metadata)),
		AreaIndex:     make(map[uint64]uint64, len(s.state.areaIndex)),
		Tags:          make(map[uint64][]string, len(s.state.tags)),
		Status:        make(map[uint64]models.Status, len(s.state.status)),
		Minters:       make(map[models.Identity]models.MinterRecord, len(s.state.minters)),
		Administrator: s.state.administrator,
		Paused:        s.state.paused,
		LastTokenID:   s.state.lastTokenID,
		Clock:         s.state.clock,
	}
	for k, v := range s.state.owners {
		snap.Owners[k] = v
	}
	for k, v := range s.state.metadata {
		v.Goals = append([]string(nil), v.Goals...)
		snap.Metadata[k] = v
	}
	for k, v := range s.state.areaIndex {
		snap.AreaIndex[k] = v
	}
	for k, v := range s.state.tags {
		snap.Tags[k] = append([]string(nil), v...)
	}
	for k, v := range s.state.status {
		snap.Status[k] = v
	}
	for k, v := range s.state.minters {
		snap.Minters[k] = v
	}
	return snap
}

// Snapshot is a deep copy of registry state at a point in time.
type Snapshot struct {
	Owners        map[uint64]models.Identity
	Metadata      map[uint64]models.Metadata
	AreaIndex     map[uint64]uint64
	Tags          map[uint64][]string
	Status        map[uint64]models.Status
	Minters       map[models.Identity]models.MinterRecord
	Administrator models.Identity
	Paused        bool
	LastTokenID   uint64
	Clock         uint64
}

// memTx overlays staged writes on the live state. Reads consult the overlay
// first so a transaction sees its own writes.
type memTx struct {
	base *memState

	owners    map[uint64]models.Identity
	metadata  map[uint64]models.Metadata
	areaIndex map[uint64]uint64
	tags      map[uint64][]string
	status    map[uint64]models.Status
	minters   map[models.Identity]models.MinterRecord

	administrator *models.Identity
	paused        *bool
	lastTokenID   *uint64
	clock         *uint64
}

func newMemTx(base *memState) *memTx {
	return &memTx{
		base:      base,
		owners:    make(map[uint64]models.Identity),
		metadata:  make(map[uint64]models.Metadata),
		areaIndex: make(map[uint64]uint64),
		tags:      make(map[uint64][]string),
		status:    make(map[uint64]models.Status),
		minters:   make(map[models.Identity]models.MinterRecord),
	}
}

func (t *memTx) commit() {
	for k, v := range t.owners {
		t.base.owners[k] = v
	}
	for k, v := range t.metadata {
		t.base.metadata[k] = v
	}
	for k, v := range t.areaIndex {
		t.base.areaIndex[k] = v
	}
	for k, v := range t.tags {
		t.base.tags[k] = v
	}
	for k, v := range t.status {
		t.base.status[k] = v
	}
	for k, v := range t.minters {
		t.base.minters[k] = v
	}
	if t.administrator != nil {
		t.base.administrator = *t.administrator
	}
	if t.paused != nil {
		t.base.paused = *t.paused
	}
	if t.lastTokenID != nil {
		t.base.lastTokenID = *t.lastTokenID
	}
	if t.clock != nil {
		t.base.clock = *t.clock
	}
}

func (t *memTx) Owner(tokenID uint64) (models.Identity, bool, error) {
	if owner, ok := t.owners[tokenID]; ok {
		return owner, true, nil
	}
	owner, ok := t.base.owners[tokenID]
	return owner, ok, nil
}

func (t *memTx) Metadata(tokenID uint64) (*models.Metadata, bool, error) {
	md, ok := t.metadata[tokenID]
	if !ok {
		md, ok = t.base.metadata[tokenID]
		if !ok {
			return nil, false, nil
		}
	}
	md.Goals = append([]string(nil), md.Goals...)
	return &md, true, nil
}

func (t *memTx) AreaToken(areaID uint64) (uint64, bool, error) {
	if tokenID, ok := t.areaIndex[areaID]; ok {
		return tokenID, true, nil
	}
	tokenID, ok := t.base.areaIndex[areaID]
	return tokenID, ok, nil
}

func (t *memTx) Tags(tokenID uint64) ([]string, bool, error) {
	tags, ok := t.tags[tokenID]
	if !ok {
		tags, ok = t.base.tags[tokenID]
		if !ok {
			return nil, false, nil
		}
	}
	return append([]string(nil), tags...), true, nil
}

func (t *memTx) Status(tokenID uint64) (*models.Status, bool, error) {
	st, ok := t.status[tokenID]
	if !ok {
		st, ok = t.base.status[tokenID]
		if !ok {
			return nil, false, nil
		}
	}
	return &st, true, nil
}

func (t *memTx) Minter(identity models.Identity) (*models.MinterRecord, bool, error) {
	rec, ok := t.minters[identity]
	if !ok {
		rec, ok = t.base.minters[identity]
		if !ok {
			return nil, false, nil
		}
	}
	return &rec, true, nil
}

func (t *memTx) Administrator() (models.Identity, error) {
	if t.administrator != nil {
		return *t.administrator, nil
	}
	return t.base.administrator, nil
}

func (t *memTx) Paused() (bool, error) {
	if t.paused != nil {
		return *t.paused, nil
	}
	return t.base.paused, nil
}

func (t *memTx) LastTokenID() (uint64, error) {
	if t.lastTokenID != nil {
		return *t.lastTokenID, nil
	}
	return t.base.lastTokenID, nil
}

func (t *memTx) Clock() (uint64, error) {
	if t.clock != nil {
		return *t.clock, nil
	}
	return t.base.clock, nil
}

func (t *memTx) SetOwner(tokenID uint64, owner models.Identity) error {
	t.owners[tokenID] = owner
	return nil
}

func (t *memTx) PutMetadata(tokenID uint64, md models.Metadata) error {
	md.Goals = append([]string(nil), md.Goals...)
	t.metadata[tokenID] = md
	return nil
}

func (t *memTx) PutAreaIndex(areaID, tokenID uint64) error {
	t.areaIndex[areaID] = tokenID
	return nil
}

func (t *memTx) PutTags(tokenID uint64, tags []string) error {
	t.tags[tokenID] = append([]string(nil), tags...)
	return nil
}

func (t *memTx) PutStatus(tokenID uint64, st models.Status) error {
	t.status[tokenID] = st
	return nil
}

func (t *memTx) PutMinter(rec models.MinterRecord) error {
	t.minters[rec.Identity] = rec
	return nil
}

func (t *memTx) SetAdministrator(identity models.Identity) error {
	t.administrator = &identity
	return nil
}

func (t *memTx) SetPaused(paused bool) error {
	t.paused = &paused
	return nil
}

func (t *memTx) SetLastTokenID(tokenID uint64) error {
	t.lastTokenID = &tokenID
	return nil
}

func (t *memTx) SetClock(value uint64) error {
	t.clock = &value
	return nil
}
