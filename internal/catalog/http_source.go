package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"gallery-be/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultCatalogURL = "https://closet-recruiting-api.azurewebsites.net/api/data"

	// maxPayloadBytes caps how much of the response body is read.
	maxPayloadBytes = 16 << 20
)

type httpSource struct {
	url        string
	httpClient *http.Client
}

// ----------------- Constructor -----------------

func NewHTTPSource(url string, timeout time.Duration) Source {
	if url == "" {
		url = DefaultCatalogURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &httpSource{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ----------------- Fetch -----------------

func (s *httpSource) Fetch(ctx context.Context) ([]Item, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "source"),
		zap.String("method", "HTTPFetch"),
		zap.String("url", s.url),
	)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return nil, NewFetchError(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error("catalog request failed", zap.Error(err))
		return nil, NewFetchError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPayloadBytes))
		log.Warn("catalog responded with error status", zap.Int("status", resp.StatusCode))
		return nil, NewFetchError(fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
	}

	items, err := DecodeItems(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		log.Error("failed to decode catalog", zap.Error(err))
		return nil, NewFetchError(err)
	}

	log.Info("catalog fetched",
		zap.Int("count", len(items)),
		zap.Duration("duration", time.Since(start)),
	)
	return items, nil
}
