// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package verification implements the challenge/response protocol guarding
// who may append a star claim.  A caller requests a challenge message for its
// wallet address, signs it out-of-band, and submits the claim; the flow
// checks the elapsed time against the expiry threshold and verifies the
// signature before handing the block to the chain.
//
// There is no state kept between the two phases: the issue timestamp travels
// inside the challenge message itself, so a submission is judged purely from
// the message contents and the current time.  Within the expiry window a
// valid signature can therefore be replayed; that is an accepted property of
// the protocol, not a defect.
package verification

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gitlab.com/starledger/stard/node/ledger"
	"gitlab.com/starledger/stard/starutil"
)

const (
	// ChallengeTag is the fixed trailing field of every challenge
	// message.
	ChallengeTag = "starRegistry"

	// DefaultThreshold is the default maximum age of a challenge.  The
	// comparison is strict: a submission whose elapsed time equals the
	// threshold is already expired.
	DefaultThreshold = 5 * time.Minute
)

// MessageVerifier checks that signature authenticates address over message.
type MessageVerifier func(address, signature, message string) (bool, error)

// Config is a descriptor which specifies the verification flow configuration.
type Config struct {
	// Chain is the ledger claims are committed to.
	//
	// This field is required.
	Chain *ledger.Chain

	// TimeSource defines the clock used to stamp challenges and judge
	// expiry.
	//
	// This field is required.
	TimeSource ledger.TimeSource

	// Threshold overrides DefaultThreshold when positive.
	Threshold time.Duration

	// VerifyMessage overrides the wallet signed-message verifier.  Leave
	// nil to use starutil.VerifyMessage.
	VerifyMessage MessageVerifier
}

// Flow issues ownership challenges and turns verified claims into committed
// blocks.
type Flow struct {
	chain      *ledger.Chain
	timeSource ledger.TimeSource
	threshold  time.Duration
	verify     MessageVerifier
}

// New returns a Flow instance using the provided configuration details.
func New(config *Config) (*Flow, error) {
	if config.Chain == nil {
		return nil, ledger.AssertError("verification.New chain is nil")
	}
	if config.TimeSource == nil {
		return nil, ledger.AssertError("verification.New timesource is nil")
	}

	threshold := config.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	verify := config.VerifyMessage
	if verify == nil {
		verify = walletVerifier
	}

	return &Flow{
		chain:      config.Chain,
		timeSource: config.TimeSource,
		threshold:  threshold,
		verify:     verify,
	}, nil
}

// IssueChallenge builds the challenge message the wallet behind address must
// sign.  It has no side effects beyond reading the clock.
func (f *Flow) IssueChallenge(address string) string {
	return fmt.Sprintf("%s:%d:%s", address, f.timeSource.Now().Unix(), ChallengeTag)
}

// SubmitClaim checks the challenge timing and the wallet signature, then
// builds a star claim block and appends it to the chain.  The returned block
// is sealed and committed.  Failures surface as RuleErrors carrying
// ErrMalformedMessage, ErrExpired, ErrInvalidSignature or ErrChainInvalid;
// a fault in the verifier itself carries ErrInternal.
func (f *Flow) SubmitClaim(address, message, signature string, star json.RawMessage) (*ledger.Block, error) {
	issuedAt, err := parseChallengeTime(message)
	if err != nil {
		return nil, err
	}

	elapsed := f.timeSource.Now().Unix() - issuedAt
	if elapsed >= int64(f.threshold/time.Second) {
		str := fmt.Sprintf("challenge expired: elapsed %ds, threshold %ds",
			elapsed, int64(f.threshold/time.Second))
		return nil, ledger.NewRuleError(ledger.ErrExpired, str)
	}

	ok, err := f.verify(address, signature, message)
	if err != nil {
		return nil, ledger.NewRuleError(ledger.ErrInternal,
			fmt.Sprintf("signature verifier failed: %v", err))
	}
	if !ok {
		return nil, ledger.NewRuleError(ledger.ErrInvalidSignature,
			fmt.Sprintf("signature does not authenticate address %s", address))
	}

	block, err := ledger.NewStarClaimBlock(ledger.StarClaim{
		Address:   address,
		Message:   message,
		Signature: signature,
		Star:      star,
	})
	if err != nil {
		return nil, ledger.NewRuleError(ledger.ErrInternal, err.Error())
	}

	return f.chain.Append(block)
}

// walletVerifier adapts starutil.VerifyMessage to the flow.  The wallet
// scheme reports a signature it cannot even decode as an error, but to the
// flow such a signature is simply one that does not authenticate; an error
// from a MessageVerifier is reserved for verifier faults.
func walletVerifier(address, signature, message string) (bool, error) {
	ok, err := starutil.VerifyMessage(address, signature, message)
	if err != nil {
		return false, nil
	}
	return ok, nil
}

// parseChallengeTime extracts the issue timestamp embedded as the second
// colon-delimited field of a challenge message.
func parseChallengeTime(message string) (int64, error) {
	fields := strings.Split(message, ":")
	if len(fields) < 2 {
		return 0, ledger.NewRuleError(ledger.ErrMalformedMessage,
			"challenge message has no timestamp field")
	}

	issuedAt, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, ledger.NewRuleError(ledger.ErrMalformedMessage,
			fmt.Sprintf("challenge timestamp %q is not numeric", fields[1]))
	}
	return issuedAt, nil
}
