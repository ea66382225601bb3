package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// SensorClient reads one sensor endpoint answering {"data": <number>}.
type SensorClient struct {
	name    string
	url     string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewSensorClient creates a client for the sensor at rawURL. A sensor gets no
// retries; a failed read simply drops out of the current poll cycle.
func NewSensorClient(client *http.Client, rawURL string) *SensorClient {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		name = u.Host
	}

	return &SensorClient{
		name: name,
		url:  rawURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      0,
				InitialInterval: 500 * time.Millisecond,
			},
		},
		circuit: newCircuitBreaker("sensor:" + name),
	}
}

func (c *SensorClient) Name() string {
	return c.name
}

func (c *SensorClient) Read(ctx context.Context) (float64, error) {
	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, getRequest(c.url))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var payload struct {
		Data *float64 `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if payload.Data == nil {
		return 0, fmt.Errorf("%w: missing data field", errMalformed)
	}
	return *payload.Data, nil
}
