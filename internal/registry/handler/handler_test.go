package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"steward/internal/registry/service"
	"steward/internal/registry/store"
	"steward/pkg/testutil"
)

const (
	testAdmin  = "deployer"
	testMinter = "ranger"
	testOwner  = "alice"
)

func newRegistryRouter(t *testing.T) http.Handler {
	t.Helper()
	st := store.NewInMemory(testAdmin)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(st, service.WithLogger(logger))

	h := New(svc, logger)
	r := chi.NewRouter()
	h.RegisterQueries(r)
	h.RegisterMutations(r)
	return r
}

func do(t *testing.T, router http.Handler, method, path, caller string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if caller != "" {
		req = testutil.WithCaller(req, caller)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func mintToken(t *testing.T, router http.Handler, areaID uint64) uint64 {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/administrator/minters", testAdmin,
		AddMinterRequest{Identity: testMinter})
	if rec.Code != http.StatusCreated && rec.Code != http.StatusConflict {
		t.Fatalf("expected minter to be registered, got %d: %s", rec.Code, rec.Body)
	}

	rec = do(t, router, http.MethodPost, "/tokens", testMinter, MintRequest{
		AreaID:      areaID,
		LatitudeE6:  -2_333_333,
		LongitudeE6: 34_833_333,
		Description: "Western corridor",
		ImageRef:    "ipfs://bafyexample",
		Goals:       []string{"anti-poaching patrols"},
		RoyaltyBps:  250,
		Recipient:   testOwner,
		Tags:        []string{"savanna"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 minting, got %d: %s", rec.Code, rec.Body)
	}
	var resp MintResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode mint response: %v", err)
	}
	if resp.TokenID == 0 {
		t.Fatalf("expected a token id in the response")
	}
	return resp.TokenID
}

func TestMintAndQueryViaHandlers(t *testing.T) {
	router := newRegistryRouter(t)
	id := mintToken(t, router, 42)

	rec := do(t, router, http.MethodGet, "/tokens/1/owner", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching owner, got %d", rec.Code)
	}
	var ownerResp OwnerResponse
	if err := json.NewDecoder(rec.Body).Decode(&ownerResp); err != nil {
		t.Fatalf("decode owner response: %v", err)
	}
	if ownerResp.TokenID != id || ownerResp.Owner != testOwner {
		t.Fatalf("unexpected owner response: %+v", ownerResp)
	}

	rec = do(t, router, http.MethodGet, "/tokens/1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching metadata, got %d", rec.Code)
	}
	var md struct {
		AreaID uint64   `json:"area_id"`
		Goals  []string `json:"goals"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&md); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if md.AreaID != 42 || len(md.Goals) != 1 {
		t.Fatalf("unexpected metadata: %+v", md)
	}
}

func TestMintRequiresCaller(t *testing.T) {
	router := newRegistryRouter(t)
	// Mutation routes rely on the auth middleware having injected a caller;
	// with none present the handler answers an internal error, never panics.
	rec := do(t, router, http.MethodPost, "/tokens", "", MintRequest{})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without caller context, got %d", rec.Code)
	}
}

func TestQueryAbsentTokenAnswers404(t *testing.T) {
	router := newRegistryRouter(t)
	for _, path := range []string{"/tokens/99", "/tokens/99/owner", "/tokens/99/status", "/tokens/99/tags"} {
		rec := do(t, router, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for %s, got %d", path, rec.Code)
		}
	}
}

func TestMalformedTokenIDRejected(t *testing.T) {
	router := newRegistryRouter(t)
	rec := do(t, router, http.MethodGet, "/tokens/not-a-number/owner", "", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for malformed id, got %d", rec.Code)
	}
}

func TestTransferViaHandlers(t *testing.T) {
	router := newRegistryRouter(t)
	id := mintToken(t, router, 42)

	rec := do(t, router, http.MethodPost, "/tokens/1/transfer", testOwner,
		TransferRequest{Sender: testOwner, Recipient: "bob"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 transferring, got %d: %s", rec.Code, rec.Body)
	}

	rec = do(t, router, http.MethodGet, "/tokens/1/owner", "", nil)
	var ownerResp OwnerResponse
	if err := json.NewDecoder(rec.Body).Decode(&ownerResp); err != nil {
		t.Fatalf("decode owner response: %v", err)
	}
	if ownerResp.TokenID != id || ownerResp.Owner != "bob" {
		t.Fatalf("unexpected owner after transfer: %+v", ownerResp)
	}
}

func TestTransferByNonOwnerForbidden(t *testing.T) {
	router := newRegistryRouter(t)
	mintToken(t, router, 42)

	rec := do(t, router, http.MethodPost, "/tokens/1/transfer", "mallory",
		TransferRequest{Sender: "mallory", Recipient: "mallory"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner transfer, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error != "not_owner" {
		t.Fatalf("expected not_owner code, got %q", resp.Error)
	}
}

func TestDuplicateAreaConflicts(t *testing.T) {
	router := newRegistryRouter(t)
	mintToken(t, router, 42)

	rec := do(t, router, http.MethodPost, "/tokens", testMinter, MintRequest{
		AreaID:      42,
		LatitudeE6:  1,
		LongitudeE6: 1,
		Goals:       []string{"x"},
		Recipient:   "carol",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 re-minting an area, got %d", rec.Code)
	}
}

func TestPausedRegistryAnswers503(t *testing.T) {
	router := newRegistryRouter(t)
	mintToken(t, router, 42)

	rec := do(t, router, http.MethodPost, "/administrator/pause", testAdmin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 pausing, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodPut, "/tokens/1/metadata", testOwner,
		UpdateMetadataRequest{Description: "d", ImageRef: "i"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while paused, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/paused", "", nil)
	var paused PausedResponse
	if err := json.NewDecoder(rec.Body).Decode(&paused); err != nil {
		t.Fatalf("decode paused response: %v", err)
	}
	if !paused.Paused {
		t.Fatalf("expected paused flag to read true")
	}
}

func TestMinterAdministrationViaHandlers(t *testing.T) {
	router := newRegistryRouter(t)

	rec := do(t, router, http.MethodPost, "/administrator/minters", testAdmin,
		AddMinterRequest{Identity: testMinter})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 adding minter, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/minters/"+testMinter, "", nil)
	var minterResp MinterResponse
	if err := json.NewDecoder(rec.Body).Decode(&minterResp); err != nil {
		t.Fatalf("decode minter response: %v", err)
	}
	if !minterResp.Active {
		t.Fatalf("expected minter to be active")
	}

	rec = do(t, router, http.MethodDelete, "/administrator/minters/"+testMinter, testAdmin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 removing minter, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/minters/"+testMinter, "", nil)
	if err := json.NewDecoder(rec.Body).Decode(&minterResp); err != nil {
		t.Fatalf("decode minter response: %v", err)
	}
	if minterResp.Active {
		t.Fatalf("expected minter to be inactive after removal")
	}
}

func TestUpdateStatusViaHandlers(t *testing.T) {
	router := newRegistryRouter(t)
	mintToken(t, router, 42)

	rec := do(t, router, http.MethodPut, "/tokens/1/status", testMinter,
		UpdateStatusRequest{Label: "endangered"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 updating status, got %d: %s", rec.Code, rec.Body)
	}

	rec = do(t, router, http.MethodGet, "/tokens/1/status", "", nil)
	var status struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Label != "endangered" {
		t.Fatalf("expected endangered label, got %q", status.Label)
	}
}
