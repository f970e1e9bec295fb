package storage

import (
	"bytes"
	"context"
	"errors"
	"time"
)

// probeKey is where the connectivity probe object is written
const probeKey = "diagnostics/probe.txt"

// RoundTrip writes a small probe object, reads it back, verifies the
// contents, and deletes it. Used by the /test_s3 diagnostic endpoint.
func (c *Client) RoundTrip(ctx context.Context) error {
	payload := []byte("probe " + time.Now().UTC().Format(time.RFC3339))

	if err := c.PutObject(ctx, probeKey, payload, "text/plain"); err != nil {
		return err
	}

	data, err := c.GetObject(ctx, probeKey)
	if err != nil {
		return err
	}
	if !bytes.Equal(data, payload) {
		return errors.New("storage: probe object read back with different contents")
	}

	return c.DeleteObject(ctx, probeKey)
}
