// Copyright (c) 2026 The StarLedger developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
)

// apiClient is a small typed wrapper over the stard HTTP API.
type apiClient struct {
	baseURL string
	client  *http.Client
}

func newClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// blockResult mirrors the block JSON served by the API.
type blockResult struct {
	Hash              string `json:"hash"`
	Height            int32  `json:"height"`
	Tag               byte   `json:"tag"`
	Body              string `json:"body"`
	Time              int64  `json:"time"`
	PreviousBlockHash string `json:"previousBlockHash,omitempty"`
}

type ownedStar struct {
	Star  json.RawMessage `json:"star"`
	Owner string          `json:"owner"`
}

type validationReport struct {
	Valid         bool    `json:"valid"`
	FaultyIndices []int32 `json:"faultyIndices"`
}

func (c *apiClient) RequestValidation(address string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	err := c.post("/requestValidation", map[string]string{"address": address}, &resp)
	return resp.Message, err
}

func (c *apiClient) SubmitStar(address, message, signature, star string) (*blockResult, error) {
	if !json.Valid([]byte(star)) {
		return nil, errors.New("star descriptor is not valid JSON")
	}

	req := map[string]interface{}{
		"address":   address,
		"message":   message,
		"signature": signature,
		"star":      json.RawMessage(star),
	}
	block := &blockResult{}
	if err := c.post("/submitStar", req, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (c *apiClient) BlockByHeight(height int64) (*blockResult, error) {
	block := &blockResult{}
	if err := c.get(fmt.Sprintf("/block/height/%d", height), block); err != nil {
		return nil, err
	}
	return block, nil
}

func (c *apiClient) BlockByHash(hash string) (*blockResult, error) {
	block := &blockResult{}
	if err := c.get("/block/hash/"+hash, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (c *apiClient) StarsByAddress(address string) ([]ownedStar, error) {
	var stars []ownedStar
	if err := c.get("/stars/"+address, &stars); err != nil {
		return nil, err
	}
	return stars, nil
}

func (c *apiClient) ChainHeight() (int32, error) {
	var resp struct {
		Height int32 `json:"height"`
	}
	err := c.get("/chain/height", &resp)
	return resp.Height, err
}

func (c *apiClient) ValidateChain() (*validationReport, error) {
	report := &validationReport{}
	if err := c.get("/chain/validate", report); err != nil {
		return nil, err
	}
	return report, nil
}

func (c *apiClient) get(path string, result interface{}) error {
	resp, err := c.client.Get(c.baseURL + path)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	return decodeResponse(resp, result)
}

func (c *apiClient) post(path string, body, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "unable to encode request")
	}

	resp, err := c.client.Post(c.baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	return decodeResponse(resp, result)
}

func decodeResponse(resp *http.Response, result interface{}) error {
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return errors.Errorf("%s: %s", resp.Status, apiErr.Error)
		}
		return errors.Errorf("request failed: %s", resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
