package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"media-fetch-bot/internal/domain"
)

// StatusError is returned for non-2xx provider responses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d", e.StatusCode)
}

// Client implements domain.Provider for one configured endpoint.
type Client struct {
	desc       Descriptor
	normalizer Normalizer
	fallback   Normalizer
	client     *resty.Client
	cb         *gobreaker.CircuitBreaker[*resty.Response]
	logger     *zap.Logger
}

// New creates a provider client. The generic normalizer is applied whenever
// the kind-specific one finds no media.
func New(desc Descriptor, normalizer Normalizer, cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = desc.Timeout
	}

	return &Client{
		desc:       desc,
		normalizer: normalizer,
		fallback:   GenericNormalizer{},
		client:     NewRestyClient(cfg),
		cb:         NewCircuitBreaker[*resty.Response](desc.Name, cfg.CB, logger),
		logger:     logger,
	}
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.desc.Name
}

// BreakerState returns the circuit breaker state name.
func (c *Client) BreakerState() string {
	return c.cb.State().String()
}

// Fetch calls the provider for sourceURL and normalizes the response.
func (c *Client) Fetch(ctx context.Context, sourceURL string) (*domain.MediaResult, error) {
	req := BuildRequest(c.desc, sourceURL)

	if c.desc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.desc.Timeout)
		defer cancel()
	}

	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := c.client.R().
			SetContext(ctx).
			SetHeaders(req.Headers).
			Execute(req.Method, req.URL)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return r, &StatusError{StatusCode: r.StatusCode()}
		}

		return r, nil
	})
	if err != nil {
		err = redactURL(err, c.desc.Name)

		status := 0
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			status = statusErr.StatusCode
		}

		c.logger.Warn("provider fetch failed",
			zap.String("provider", c.desc.Name),
			zap.Int("status", status),
			zap.String("state", c.cb.State().String()),
			zap.Error(err),
		)

		return nil, domain.NewProviderCallError(c.desc.Name, status, err)
	}

	result, err := c.normalize(resp.Body())
	if err != nil {
		c.logger.Warn("provider response unusable",
			zap.String("provider", c.desc.Name),
			zap.Error(err),
		)

		return nil, domain.NewProviderCallError(c.desc.Name, 0, err)
	}

	c.logger.Debug("provider fetch completed",
		zap.String("provider", c.desc.Name),
		zap.String("kind", string(result.Kind)),
	)

	return result, nil
}

func (c *Client) normalize(body []byte) (*domain.MediaResult, error) {
	if !json.Valid(body) {
		return nil, errors.New("decoding response: body is not valid JSON")
	}

	// A kind-specific decode error means the body has another shape, which
	// the generic parser may still understand.
	result, ok, err := c.normalizer.Normalize(body)
	if err == nil && ok && result.Validate() == nil {
		return result, nil
	}
	if err != nil {
		c.logger.Debug("provider response shape mismatch",
			zap.String("provider", c.desc.Name),
			zap.Error(err),
		)
	}

	result, ok, err = c.fallback.Normalize(body)
	if err == nil && ok && result.Validate() == nil {
		return result, nil
	}

	return nil, domain.ErrNoMedia
}

// redactURL replaces the request URL in transport errors with the provider
// name. Request URLs may carry API keys.
func redactURL(err error, name string) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = name
	}

	return err
}
