// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"gitlab.com/starledger/stard/node/ledger"
	"gitlab.com/starledger/stard/types/chainhash"
)

// BlockResult is the JSON form of a block.  It round-trips every block field.
type BlockResult struct {
	Hash              string            `json:"hash"`
	Height            int32             `json:"height"`
	Tag               ledger.PayloadTag `json:"tag"`
	Body              string            `json:"body"`
	Time              int64             `json:"time"`
	PreviousBlockHash string            `json:"previousBlockHash,omitempty"`
}

func newBlockResult(block *ledger.Block) BlockResult {
	result := BlockResult{
		Hash:   block.Hash.String(),
		Height: block.Height,
		Tag:    block.Tag,
		Body:   block.Body,
		Time:   block.Timestamp,
	}
	if block.PrevHash != nil {
		result.PreviousBlockHash = block.PrevHash.String()
	}
	return result
}

type errorResult struct {
	Error string `json:"error"`
}

func (server *Server) handleInitializeChain(w http.ResponseWriter, r *http.Request) {
	if err := server.chain.Initialize(); err != nil {
		server.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"height": server.chain.Height()})
}

func (server *Server) handleChainHeight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int32{"height": server.chain.Height()})
}

func (server *Server) handleValidateChain(w http.ResponseWriter, r *http.Request) {
	faulty := server.chain.ValidateChain()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":         len(faulty) == 0,
		"faultyIndices": faulty,
	})
}

func (server *Server) handleRequestValidation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Address == "" {
		writeJSON(w, http.StatusBadRequest, errorResult{Error: "address is required"})
		return
	}

	message := server.flow.IssueChallenge(req.Address)
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (server *Server) handleSubmitStar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address   string          `json:"address"`
		Message   string          `json:"message"`
		Signature string          `json:"signature"`
		Star      json.RawMessage `json:"star"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResult{Error: "malformed request body"})
		return
	}

	block, err := server.flow.SubmitClaim(req.Address, req.Message, req.Signature, req.Star)
	if err != nil {
		server.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newBlockResult(block))
}

func (server *Server) handleBlockByHeight(w http.ResponseWriter, r *http.Request) {
	height, err := strconv.ParseInt(mux.Vars(r)["height"], 10, 32)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResult{Error: "height is not numeric"})
		return
	}

	block := server.chain.BlockByHeight(int32(height))
	if block == nil {
		writeJSON(w, http.StatusNotFound, errorResult{Error: "block not found"})
		return
	}
	writeJSON(w, http.StatusOK, newBlockResult(block))
}

func (server *Server) handleBlockByHash(w http.ResponseWriter, r *http.Request) {
	hash, err := chainhash.NewHashFromStr(mux.Vars(r)["hash"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResult{Error: "malformed block hash"})
		return
	}

	block := server.chain.BlockByHash(hash)
	if block == nil {
		writeJSON(w, http.StatusNotFound, errorResult{Error: "block not found"})
		return
	}
	writeJSON(w, http.StatusOK, newBlockResult(block))
}

func (server *Server) handleStarsByAddress(w http.ResponseWriter, r *http.Request) {
	stars, err := server.chain.StarsByAddress(mux.Vars(r)["address"])
	if err != nil {
		server.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stars)
}

// writeError maps typed ledger errors onto HTTP statuses, keeping the stable
// reason string in the body.
func (server *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var ruleErr ledger.RuleError
	if errors.As(err, &ruleErr) {
		switch ruleErr.ErrorCode {
		case ledger.ErrMalformedMessage, ledger.ErrDecode,
			ledger.ErrExpired, ledger.ErrInvalidSignature:
			status = http.StatusBadRequest
		case ledger.ErrChainInvalid:
			status = http.StatusConflict
		}
	}

	if status == http.StatusInternalServerError {
		server.logger.Error().Err(err).Msg("internal error")
	}
	writeJSON(w, status, errorResult{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
