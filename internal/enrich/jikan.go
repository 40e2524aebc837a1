// Aniora - Hybrid Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/aniora

package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/aniora/internal/metrics"
)

// breakerName labels the Jikan circuit breaker in metrics and logs.
const breakerName = "jikan-api"

// maxBodyBytes bounds a decoded response.
const maxBodyBytes = 1 << 20

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("jikan %s: unexpected status %d", e.URL, e.Code)
}

// jikanAnime is the subset of the Jikan anime resource we read.
type jikanAnime struct {
	MalID  int    `json:"mal_id"`
	Title  string `json:"title"`
	Images struct {
		JPG struct {
			ImageURL      string `json:"image_url"`
			LargeImageURL string `json:"large_image_url"`
		} `json:"jpg"`
	} `json:"images"`
}

func (a *jikanAnime) artwork() Artwork {
	img := a.Images.JPG.LargeImageURL
	if img == "" {
		img = a.Images.JPG.ImageURL
	}
	id := a.MalID
	return Artwork{ImageURL: img, Title: a.Title, MalID: &id}
}

// JikanClient looks up artwork on the Jikan API.
//
// Requests are paced by a token bucket and wrapped by a circuit breaker:
// - Max 1 probe request in half-open state
// - 1 minute measurement window
// - 30 second timeout before attempting recovery
// - Opens after 5 consecutive failures
// A 404 is an answer, not a failure, and does not count against the breaker.
type JikanClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
	logger  zerolog.Logger
}

// NewJikanClient creates a client from cfg. A nil httpClient uses a default
// client with cfg.Timeout.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewJikanClient(cfg Config, httpClient *http.Client, logger zerolog.Logger) *JikanClient {
	cfg.applyDefaults()
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger = logger.With().Str("component", "jikan").Logger()

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var status *StatusError
			return err == nil || (errors.As(err, &status) && status.Code == http.StatusNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logger.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &JikanClient{
		baseURL: cfg.BaseURL,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		cb:      cb,
		logger:  logger,
	}
}

// Lookup fetches artwork by MyAnimeList id, then by name search when the id
// lookup fails or id is not positive.
func (c *JikanClient) Lookup(ctx context.Context, id int, name string) (Artwork, error) {
	var idErr error
	if id > 0 {
		art, err := c.byID(ctx, id)
		if err == nil {
			return art, nil
		}
		idErr = err
		if ctx.Err() != nil || errors.Is(err, gobreaker.ErrOpenState) {
			return Artwork{}, err
		}
	}
	if name == "" {
		if idErr != nil {
			return Artwork{}, idErr
		}
		return Artwork{}, ErrNoArtwork
	}
	return c.search(ctx, name)
}

func (c *JikanClient) byID(ctx context.Context, id int) (Artwork, error) {
	body, err := c.get(ctx, c.baseURL+"/anime/"+strconv.Itoa(id))
	if err != nil {
		return Artwork{}, err
	}
	var resp struct {
		Data *jikanAnime `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return Artwork{}, fmt.Errorf("decode anime %d: %w", id, err)
	}
	if resp.Data == nil {
		return Artwork{}, ErrNoArtwork
	}
	return resp.Data.artwork(), nil
}

func (c *JikanClient) search(ctx context.Context, name string) (Artwork, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("limit", "1")

	body, err := c.get(ctx, c.baseURL+"/anime?"+q.Encode())
	if err != nil {
		return Artwork{}, err
	}
	var resp struct {
		Data []jikanAnime `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return Artwork{}, fmt.Errorf("decode search %q: %w", name, err)
	}
	if len(resp.Data) == 0 {
		return Artwork{}, ErrNoArtwork
	}
	return resp.Data[0].artwork(), nil
}

// get waits for a rate limit token and performs one request through the
// circuit breaker.
func (c *JikanClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		start := time.Now()
		defer func() { metrics.EnrichmentDuration.Observe(time.Since(start).Seconds()) }()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close() //nolint:errcheck // body fully read below

		if resp.StatusCode != http.StatusOK {
			return nil, &StatusError{Code: resp.StatusCode, URL: endpoint}
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	})

	c.recordBreakerResult(err)
	return body, err
}

func (c *JikanClient) recordBreakerResult(err error) {
	var status *StatusError
	switch {
	case err == nil, errors.As(err, &status) && status.Code == http.StatusNotFound:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		c.logger.Debug().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		counts := c.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(float64(counts.ConsecutiveFailures))
	}
}

// State returns the breaker state as a string.
func (c *JikanClient) State() string {
	return stateToString(c.cb.State())
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
