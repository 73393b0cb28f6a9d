// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/starledger/stard/node/ledger"
	"gitlab.com/starledger/stard/node/verification"
	"gitlab.com/starledger/stard/starutil"
)

type fakeTimeSource struct {
	now time.Time
}

func (ts *fakeTimeSource) Now() time.Time { return ts.now }

func newTestRouter(t *testing.T) (*mux.Router, *ledger.Chain, *fakeTimeSource) {
	t.Helper()

	ts := &fakeTimeSource{now: time.Unix(1700000000, 0)}
	chain, err := ledger.New(&ledger.Config{TimeSource: ts})
	require.NoError(t, err)

	flow, err := verification.New(&verification.Config{Chain: chain, TimeSource: ts})
	require.NoError(t, err)

	server := NewServer(&Config{}, zerolog.Nop(), chain, flow)
	return server.Router(), chain, ts
}

func doRequest(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

// TestStarRegistryScenario drives the full registration flow through the
// HTTP API: initialize, request a challenge, sign it, submit the star, then
// query and validate.
func TestStarRegistryScenario(t *testing.T) {
	router, _, ts := newTestRouter(t)
	kd, err := starutil.GenerateKeyData()
	require.NoError(t, err)
	address := kd.Address.EncodeAddress()

	// Initialize the chain.
	rec := doRequest(t, router, http.MethodPost, "/chain", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var heightResp struct {
		Height int32 `json:"height"`
	}
	decodeBody(t, rec, &heightResp)
	assert.Equal(t, int32(0), heightResp.Height)

	// Request a challenge message.
	rec = doRequest(t, router, http.MethodPost, "/requestValidation",
		map[string]string{"address": address})
	require.Equal(t, http.StatusOK, rec.Code)
	var challengeResp struct {
		Message string `json:"message"`
	}
	decodeBody(t, rec, &challengeResp)
	assert.Equal(t, fmt.Sprintf("%s:%d:starRegistry", address, ts.now.Unix()),
		challengeResp.Message)

	// Sign and submit within the window.
	signature, err := starutil.SignMessage(kd.PrivateKey, challengeResp.Message)
	require.NoError(t, err)
	ts.now = ts.now.Add(60 * time.Second)

	rec = doRequest(t, router, http.MethodPost, "/submitStar", map[string]interface{}{
		"address":   address,
		"message":   challengeResp.Message,
		"signature": signature,
		"star":      json.RawMessage(`{"dec":"1","ra":"2"}`),
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	var committed BlockResult
	decodeBody(t, rec, &committed)
	assert.Equal(t, int32(1), committed.Height)

	// The committed block links to genesis.
	rec = doRequest(t, router, http.MethodGet, "/block/height/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var genesis BlockResult
	decodeBody(t, rec, &genesis)
	assert.Equal(t, genesis.Hash, committed.PreviousBlockHash)
	assert.Empty(t, genesis.PreviousBlockHash)

	// Lookup by hash returns the same block.
	rec = doRequest(t, router, http.MethodGet, "/block/hash/"+committed.Hash, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var byHash BlockResult
	decodeBody(t, rec, &byHash)
	assert.Equal(t, committed.Height, byHash.Height)

	// The star shows up under its owner.
	rec = doRequest(t, router, http.MethodGet, "/stars/"+address, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stars []ledger.OwnedStar
	decodeBody(t, rec, &stars)
	require.Len(t, stars, 1)
	assert.Equal(t, address, stars[0].Owner)

	// The chain validates clean.
	rec = doRequest(t, router, http.MethodGet, "/chain/validate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report struct {
		Valid         bool    `json:"valid"`
		FaultyIndices []int32 `json:"faultyIndices"`
	}
	decodeBody(t, rec, &report)
	assert.True(t, report.Valid)
	assert.Empty(t, report.FaultyIndices)
}

func TestHandlersRejectBadInput(t *testing.T) {
	router, chain, _ := newTestRouter(t)
	require.NoError(t, chain.Initialize())

	// Missing address on validation request.
	rec := doRequest(t, router, http.MethodPost, "/requestValidation",
		map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed challenge message.
	rec = doRequest(t, router, http.MethodPost, "/submitStar", map[string]interface{}{
		"address":   "addr1",
		"message":   "no-timestamp-here",
		"signature": "sig",
		"star":      json.RawMessage(`{}`),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Non-numeric height.
	rec = doRequest(t, router, http.MethodGet, "/block/height/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown height and hash.
	rec = doRequest(t, router, http.MethodGet, "/block/height/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodGet,
		"/block/hash/0000000000000000000000000000000000000000000000000000000000000042", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Oversized hash string.
	rec = doRequest(t, router, http.MethodGet,
		"/block/hash/"+string(bytes.Repeat([]byte{'a'}, 70)), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExpiredSubmissionOverHTTP(t *testing.T) {
	router, chain, ts := newTestRouter(t)
	require.NoError(t, chain.Initialize())

	kd, err := starutil.GenerateKeyData()
	require.NoError(t, err)
	address := kd.Address.EncodeAddress()
	message := fmt.Sprintf("%s:%d:starRegistry", address, ts.now.Unix())
	signature, err := starutil.SignMessage(kd.PrivateKey, message)
	require.NoError(t, err)

	ts.now = ts.now.Add(300 * time.Second)
	rec := doRequest(t, router, http.MethodPost, "/submitStar", map[string]interface{}{
		"address":   address,
		"message":   message,
		"signature": signature,
		"star":      json.RawMessage(`{"dec":"1","ra":"2"}`),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
	assert.Equal(t, int32(0), chain.Height())
}
