package blobstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	apperrors "github.com/custodia-labs/custodia/internal/errors"
)

// WalrusConfig configures a WalrusStore.
type WalrusConfig struct {
	PublisherURL  string
	AggregatorURL string
	Epochs        int
	MaxRetries    int
	RetryWaitMin  time.Duration
	RetryWaitMax  time.Duration
}

// WalrusStore talks to a Walrus publisher (writes) and aggregator (reads) over HTTP.
//
// Writes are PUT {publisher}/v1/store?epochs=N with the raw bytes as the body; reads
// are GET {aggregator}/v1/{blobId}. Connection errors and 5xx responses are retried
// with exponential backoff.
type WalrusStore struct {
	client        *retryablehttp.Client
	publisherURL  string
	aggregatorURL string
	epochs        int
}

// storeResponse is the publisher reply. Exactly one of the two fields is set.
type storeResponse struct {
	NewlyCreated *struct {
		BlobObject struct {
			BlobID string `json:"blobId"`
		} `json:"blobObject"`
	} `json:"newlyCreated"`
	AlreadyCertified *struct {
		BlobID string `json:"blobId"`
	} `json:"alreadyCertified"`
}

// NewWalrusStore creates a WalrusStore.
func NewWalrusStore(cfg WalrusConfig, logger *slog.Logger) *WalrusStore {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.MaxRetries
	if cfg.RetryWaitMin > 0 {
		client.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		client.RetryWaitMax = cfg.RetryWaitMax
	}
	client.Logger = nil
	if logger != nil {
		client.Logger = logger
	}

	epochs := cfg.Epochs
	if epochs < 1 {
		epochs = 1
	}

	return &WalrusStore{
		client:        client,
		publisherURL:  strings.TrimRight(cfg.PublisherURL, "/"),
		aggregatorURL: strings.TrimRight(cfg.AggregatorURL, "/"),
		epochs:        epochs,
	}
}

// Put uploads data and returns its blob id.
func (w *WalrusStore) Put(ctx context.Context, data []byte) (string, error) {
	endpoint := w.publisherURL + "/v1/store?epochs=" + strconv.Itoa(w.epochs)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPut, endpoint, data)
	if err != nil {
		return "", fmt.Errorf("failed to build walrus request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := w.client.Do(req)
	if err != nil {
		return "", apperrors.Unavailable(err, "walrus store")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.Unavailable(statusError(resp), "walrus store")
	}

	var body storeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", apperrors.Unavailable(err, "walrus store: decode response")
	}

	switch {
	case body.NewlyCreated != nil && body.NewlyCreated.BlobObject.BlobID != "":
		return body.NewlyCreated.BlobObject.BlobID, nil
	case body.AlreadyCertified != nil && body.AlreadyCertified.BlobID != "":
		return body.AlreadyCertified.BlobID, nil
	default:
		return "", apperrors.Unavailable(fmt.Errorf("response carries no blob id"), "walrus store")
	}
}

// Get downloads the blob stored under blobID.
func (w *WalrusStore) Get(ctx context.Context, blobID string) ([]byte, error) {
	endpoint := w.aggregatorURL + "/v1/" + url.PathEscape(blobID)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build walrus request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, apperrors.Unavailable(err, "walrus read")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrBlobNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, apperrors.Unavailable(statusError(resp), "walrus read")
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, apperrors.Unavailable(err, "walrus read")
	}
	return buf.Bytes(), nil
}

func statusError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
}
