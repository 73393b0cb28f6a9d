// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verification

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/starledger/stard/node/ledger"
	"gitlab.com/starledger/stard/starutil"
)

type fakeTimeSource struct {
	now time.Time
}

func (ts *fakeTimeSource) Now() time.Time { return ts.now }

var testStar = json.RawMessage(`{"dec":"68 52 56.9","ra":"16h 29m 1.0s","story":"found it"}`)

func newTestFlow(t *testing.T) (*Flow, *ledger.Chain, *fakeTimeSource) {
	t.Helper()

	ts := &fakeTimeSource{now: time.Unix(1700000000, 0)}
	chain, err := ledger.New(&ledger.Config{TimeSource: ts})
	require.NoError(t, err)
	require.NoError(t, chain.Initialize())

	flow, err := New(&Config{Chain: chain, TimeSource: ts})
	require.NoError(t, err)
	return flow, chain, ts
}

func signedChallenge(t *testing.T, flow *Flow, kd *starutil.KeyData) (address, message, signature string) {
	t.Helper()

	address = kd.Address.EncodeAddress()
	message = flow.IssueChallenge(address)

	var err error
	signature, err = starutil.SignMessage(kd.PrivateKey, message)
	require.NoError(t, err)
	return address, message, signature
}

func TestIssueChallengeFormat(t *testing.T) {
	flow, _, ts := newTestFlow(t)

	message := flow.IssueChallenge("addr1")
	assert.Equal(t, fmt.Sprintf("addr1:%d:starRegistry", ts.now.Unix()), message)
}

func TestSubmitClaimHappyPath(t *testing.T) {
	flow, chain, ts := newTestFlow(t)
	kd, err := starutil.GenerateKeyData()
	require.NoError(t, err)

	address, message, signature := signedChallenge(t, flow, kd)
	ts.now = ts.now.Add(30 * time.Second)

	block, err := flow.SubmitClaim(address, message, signature, testStar)
	require.NoError(t, err)

	assert.Equal(t, int32(1), block.Height)
	assert.Equal(t, int32(1), chain.Height())
	genesis := chain.BlockByHeight(0)
	require.NotNil(t, block.PrevHash)
	assert.True(t, block.PrevHash.IsEqual(&genesis.Hash))

	stars, err := chain.StarsByAddress(address)
	require.NoError(t, err)
	require.Len(t, stars, 1)
	assert.JSONEq(t, string(testStar), string(stars[0].Star))

	assert.Empty(t, chain.ValidateChain())
}

func TestSubmitClaimExpiryBoundary(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr bool
	}{
		{"one second inside the window", 299 * time.Second, false},
		{"exactly at the threshold", 300 * time.Second, true},
		{"past the threshold", 301 * time.Second, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			flow, chain, ts := newTestFlow(t)
			kd, err := starutil.GenerateKeyData()
			require.NoError(t, err)

			address, message, signature := signedChallenge(t, flow, kd)
			ts.now = ts.now.Add(test.elapsed)

			_, err = flow.SubmitClaim(address, message, signature, testStar)
			if test.wantErr {
				require.Error(t, err)
				assert.True(t, ledger.IsErrorCode(err, ledger.ErrExpired),
					"want ErrExpired, got %v", err)
				assert.Equal(t, int32(0), chain.Height())
			} else {
				require.NoError(t, err)
				assert.Equal(t, int32(1), chain.Height())
			}
		})
	}
}

func TestSubmitClaimInvalidSignature(t *testing.T) {
	flow, chain, ts := newTestFlow(t)
	kd, err := starutil.GenerateKeyData()
	require.NoError(t, err)
	otherKd, err := starutil.GenerateKeyData()
	require.NoError(t, err)

	address, message, _ := signedChallenge(t, flow, kd)

	// Syntactically valid signature produced by the wrong key.
	wrongSignature, err := starutil.SignMessage(otherKd.PrivateKey, message)
	require.NoError(t, err)

	ts.now = ts.now.Add(time.Second)
	_, err = flow.SubmitClaim(address, message, wrongSignature, testStar)
	require.Error(t, err)
	assert.True(t, ledger.IsErrorCode(err, ledger.ErrInvalidSignature),
		"want ErrInvalidSignature, got %v", err)
	assert.Equal(t, int32(0), chain.Height(), "rejected claim must not grow the chain")

	// Garbage that is not even base64 is rejected the same way.
	_, err = flow.SubmitClaim(address, message, "not base64!!!", testStar)
	require.Error(t, err)
	assert.True(t, ledger.IsErrorCode(err, ledger.ErrInvalidSignature))
}

// A fault in the verifier itself is not the claimant's fault and must not be
// reported as a bad signature.
func TestSubmitClaimVerifierFault(t *testing.T) {
	ts := &fakeTimeSource{now: time.Unix(1700000000, 0)}
	chain, err := ledger.New(&ledger.Config{TimeSource: ts})
	require.NoError(t, err)
	require.NoError(t, chain.Initialize())

	flow, err := New(&Config{
		Chain:      chain,
		TimeSource: ts,
		VerifyMessage: func(address, signature, message string) (bool, error) {
			return false, fmt.Errorf("wallet backend unreachable")
		},
	})
	require.NoError(t, err)

	message := flow.IssueChallenge("addr1")
	_, err = flow.SubmitClaim("addr1", message, "c2lnbmF0dXJl", testStar)
	require.Error(t, err)
	assert.True(t, ledger.IsErrorCode(err, ledger.ErrInternal),
		"want ErrInternal, got %v", err)
	assert.Equal(t, int32(0), chain.Height(), "faulted claim must not grow the chain")
}

func TestSubmitClaimMalformedMessage(t *testing.T) {
	flow, _, _ := newTestFlow(t)

	tests := []struct {
		name    string
		message string
	}{
		{"no separators", "addr1"},
		{"timestamp not numeric", "addr1:yesterday:starRegistry"},
		{"empty", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := flow.SubmitClaim("addr1", test.message, "sig", testStar)
			require.Error(t, err)
			assert.True(t, ledger.IsErrorCode(err, ledger.ErrMalformedMessage),
				"want ErrMalformedMessage, got %v", err)
		})
	}
}

// A valid signature resubmitted within the window is accepted again.  The
// protocol keeps no per-challenge state; replay protection ends at the expiry
// window.
func TestSubmitClaimReplayWithinWindow(t *testing.T) {
	flow, chain, ts := newTestFlow(t)
	kd, err := starutil.GenerateKeyData()
	require.NoError(t, err)

	address, message, signature := signedChallenge(t, flow, kd)
	ts.now = ts.now.Add(10 * time.Second)

	_, err = flow.SubmitClaim(address, message, signature, testStar)
	require.NoError(t, err)
	_, err = flow.SubmitClaim(address, message, signature, testStar)
	require.NoError(t, err)

	assert.Equal(t, int32(2), chain.Height())
}

func TestChallengeTagPresent(t *testing.T) {
	flow, _, _ := newTestFlow(t)
	message := flow.IssueChallenge("addr1")
	assert.True(t, strings.HasSuffix(message, ":"+ChallengeTag))
}
