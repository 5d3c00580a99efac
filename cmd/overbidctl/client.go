package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shinyyama/overbid-backend/internal/signing"
)

// apiError is the server's error envelope.
type apiError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Number  int    `json:"number"`
}

func (e *apiError) Error() string {
	if e.Number != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Code, e.Number, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type client struct {
	base string
	hc   *http.Client
	key  *keypair
}

func newClient(base string, timeout time.Duration, key *keypair) *client {
	return &client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: timeout},
		key:  key,
	}
}

// do sends body as JSON, signing it when the client holds a key, and decodes the reply into out.
func (c *client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var raw []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		raw = b
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.key != nil {
		ts := signing.Timestamp(time.Now())
		req.Header.Set(signing.HeaderSigner, c.key.Address)
		req.Header.Set(signing.HeaderTimestamp, ts)
		req.Header.Set(signing.HeaderSignature, signing.Sign(c.key.Private, method, req.URL.Path, ts, raw))
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var env struct {
			Error apiError `json:"error"`
		}
		if err := json.Unmarshal(data, &env); err != nil || env.Error.Code == "" {
			return &apiError{Status: resp.StatusCode, Code: http.StatusText(resp.StatusCode), Message: strings.TrimSpace(string(data))}
		}
		env.Error.Status = resp.StatusCode
		return &env.Error
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}
