package calendar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultHolidayURL  = "https://raw.githubusercontent.com/lanceliao/china-holiday-calender/master/holidayAPI.json"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
	userAgent          = "fished-holiday-updater"
)

// HTTPSource fetches the holiday dataset over HTTP and caches it for cacheTTL
type HTTPSource struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
	cacheTTL   time.Duration
	cacheMu    sync.RWMutex
	cached     *cachedDataset
}

type cachedDataset struct {
	raw       []byte
	data      *Dataset
	fetchedAt time.Time
}

// NewHTTPSource creates a new HTTPSource instance
func NewHTTPSource(url string, cacheTTL time.Duration, logger *zap.Logger) *HTTPSource {
	if url == "" {
		url = DefaultHolidayURL
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// Fetch returns the dataset, from cache while it is fresh
func (hs *HTTPSource) Fetch(ctx context.Context) (*Dataset, error) {
	entry, err := hs.get(ctx)
	if err != nil {
		return nil, err
	}
	return entry.data, nil
}

// FetchRaw returns the document bytes exactly as served upstream. The bytes
// are only returned once they decoded successfully.
func (hs *HTTPSource) FetchRaw(ctx context.Context) ([]byte, error) {
	entry, err := hs.get(ctx)
	if err != nil {
		return nil, err
	}
	return entry.raw, nil
}

func (hs *HTTPSource) get(ctx context.Context) (*cachedDataset, error) {
	hs.cacheMu.RLock()
	if cached := hs.cached; cached != nil {
		if time.Since(cached.fetchedAt) < hs.cacheTTL {
			hs.cacheMu.RUnlock()
			hs.logger.Debug("Using cached holiday data",
				zap.String("url", hs.url))
			return cached, nil
		}
	}
	hs.cacheMu.RUnlock()

	raw, err := hs.download(ctx)
	if err != nil {
		return nil, err
	}

	ds, err := DecodeDataset(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	entry := &cachedDataset{
		raw:       raw,
		data:      ds,
		fetchedAt: time.Now(),
	}

	hs.cacheMu.Lock()
	hs.cached = entry
	hs.cacheMu.Unlock()

	hs.logger.Info("Holiday data downloaded",
		zap.String("url", hs.url),
		zap.Int("years", len(ds.Years)),
		zap.Int("bytes", len(raw)))

	return entry, nil
}

func (hs *HTTPSource) download(ctx context.Context) ([]byte, error) {
	hs.logger.Debug("Fetching holiday data",
		zap.String("url", hs.url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, hs.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := hs.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holiday data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}

// ClearCache clears the cache
func (hs *HTTPSource) ClearCache() {
	hs.cacheMu.Lock()
	defer hs.cacheMu.Unlock()

	hs.cached = nil
	hs.logger.Info("Holiday cache cleared")
}
