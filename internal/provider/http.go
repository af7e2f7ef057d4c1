package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/patrickmn/go-cache"

	"github.com/harborview/maya/pkg"
)

// HTTPProvider pulls room data from the booking system over HTTP with a
// bounded timeout and a short-lived snapshot cache in front, so a slow
// collaborator can't stall reply generation on every turn.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
}

// NewHTTPProvider creates a provider against the given base URL.
func NewHTTPProvider(baseURL string, timeout, cacheTTL time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		cache:   cache.New(cacheTTL, 2*cacheTTL),
	}
}

func fetchJSON[T any](ctx context.Context, p *HTTPProvider, path, cacheKey string) ([]T, error) {
	if cached, ok := p.cache.Get(cacheKey); ok {
		return cached.([]T), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	var items []T
	if err := sonic.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	p.cache.Set(cacheKey, items, cache.DefaultExpiration)
	return items, nil
}

func (p *HTTPProvider) Rooms(ctx context.Context) ([]pkg.Room, error) {
	return fetchJSON[pkg.Room](ctx, p, "/rooms", "rooms")
}

func (p *HTTPProvider) Pricing(ctx context.Context) ([]pkg.RateInfo, error) {
	return fetchJSON[pkg.RateInfo](ctx, p, "/pricing", "rates")
}

func (p *HTTPProvider) Availability(ctx context.Context) ([]pkg.AvailabilityInfo, error) {
	return fetchJSON[pkg.AvailabilityInfo](ctx, p, "/availability", "availability")
}
