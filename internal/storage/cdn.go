package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/reclutador/staffing-api/internal/model"
)

// CDN talks to the object-store HTTP API: PUT to store, DELETE to remove.
// Objects become publicly reachable under the configured public base URL.
type CDN struct {
	Logger *slog.Logger

	client    *http.Client
	uploadURL string
	publicURL string
	authToken string
}

func NewCDN(logger *slog.Logger, uploadURL, publicURL, authToken string) *CDN {
	return &CDN{
		Logger:    logger.With("module", "cdn"),
		client:    &http.Client{},
		uploadURL: strings.TrimSuffix(uploadURL, "/"),
		publicURL: strings.TrimSuffix(publicURL, "/"),
		authToken: authToken,
	}
}

func (c *CDN) Save(ctx context.Context, path string, contentType string, data []byte) (string, error) {
	logger := c.Logger.With("op", "save", "path", path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.uploadURL+"/"+path, bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", contentType)
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("failed request", "error", err)
		return "", model.NewError("storage", model.ErrUpload)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("failed request", "status", resp.StatusCode)
		return "", fmt.Errorf("storage: status %d: %w", resp.StatusCode, model.ErrUpload)
	}

	url := c.publicURL + "/" + path

	logger.Debug("stored object", "url", url, "size", len(data))

	return url, nil
}

func (c *CDN) Remove(ctx context.Context, path string) error {
	logger := c.Logger.With("op", "remove", "path", path)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.uploadURL+"/"+path, nil)
	if err != nil {
		return err
	}

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("failed request", "error", err)
		return err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		logger.Warn("failed request", "status", resp.StatusCode)
		return fmt.Errorf("storage: status %d", resp.StatusCode)
	}

	return nil
}

func drainAndClose(body io.ReadCloser) {
	io.Copy(io.Discard, body)
	body.Close()
}
