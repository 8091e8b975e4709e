// Package itinerary reads a user's trip plans from the itinerary service.
// The feed treats it as optional: every failure degrades to no itineraries.
package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/trailtales/trailtales-api/models"
)

// DefaultTimeout bounds one itinerary fetch
const DefaultTimeout = 3 * time.Second

const maxBodyBytes = 1 << 20

var errUnsuccessful = errors.New("itinerary service reported failure")

// FailureFunc is told why a fetch degraded: transport, status, decode or open
type FailureFunc func(cause string)

// Settings configures a Client
type Settings struct {
	BaseURL          string
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
	OnFailure        FailureFunc
}

// Client fetches itineraries over HTTP behind a circuit breaker
type Client struct {
	baseURL   string
	timeout   time.Duration
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker[[]models.Itinerary]
	onFailure FailureFunc
	logger    *zap.SugaredLogger
}

// NewClient builds a client. An empty BaseURL yields a client that always
// returns no itineraries.
func NewClient(s Settings, logger *zap.SugaredLogger) *Client {
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.FailureThreshold == 0 {
		s.FailureThreshold = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.S()
	}

	c := &Client{
		baseURL:   strings.TrimRight(s.BaseURL, "/"),
		timeout:   s.Timeout,
		http:      &http.Client{Timeout: s.Timeout},
		onFailure: s.OnFailure,
		logger:    logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]models.Itinerary](gobreaker.Settings{
		Name:        "itinerary-service",
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

// FetchUserItineraries returns the user's itineraries, or an empty list on any failure
func (c *Client) FetchUserItineraries(ctx context.Context, userID, credential string) []models.Itinerary {
	if c.baseURL == "" || userID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	itineraries, err := c.breaker.Execute(func() ([]models.Itinerary, error) {
		return c.fetch(ctx, userID, credential)
	})
	if err != nil {
		cause := "transport"
		var fe *fetchError
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			cause = "open"
		case errors.As(err, &fe):
			cause = fe.cause
		}
		c.logger.Warnw("itinerary fetch failed, ranking without itineraries",
			"userId", userID,
			"cause", cause,
			"error", err)
		if c.onFailure != nil {
			c.onFailure(cause)
		}
		return nil
	}
	return itineraries
}

type fetchError struct {
	cause string
	err   error
}

func (e *fetchError) Error() string { return e.cause + ": " + e.err.Error() }

func (e *fetchError) Unwrap() error { return e.err }

func (c *Client) fetch(ctx context.Context, userID, credential string) ([]models.Itinerary, error) {
	endpoint := fmt.Sprintf("%s/api/itineraries/user/%s", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &fetchError{cause: "transport", err: err}
	}
	req.Header.Set("Accept", "application/json")
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &fetchError{cause: "transport", err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &fetchError{cause: "status", err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var body models.ItineraryListResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, &fetchError{cause: "decode", err: err}
	}
	if !body.Success {
		return nil, &fetchError{cause: "status", err: errUnsuccessful}
	}
	return body.Data, nil
}
