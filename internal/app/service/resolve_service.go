// Package service provides application use cases.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"media-fetch-bot/internal/domain"
	"media-fetch-bot/internal/metrics"
)

const outcomeSuccess = "success"

// ResolveService drives the provider fallback chain for a single URL.
type ResolveService struct {
	table    domain.ProviderTable
	cooldown time.Duration
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewResolveService creates a new ResolveService. cooldown is waited after
// every successful provider call before the result is returned.
func NewResolveService(table domain.ProviderTable, cooldown time.Duration, m *metrics.Metrics, logger *zap.Logger) *ResolveService {
	return &ResolveService{
		table:    table,
		cooldown: cooldown,
		metrics:  m,
		logger:   logger,
	}
}

// Resolve classifies rawURL and tries each candidate provider in order until
// one yields media.
//
// Unsupported or unrecognized links fail before any provider is called. When
// every provider fails the error is an *domain.AllProvidersFailedError holding
// each attempt.
func (s *ResolveService) Resolve(ctx context.Context, rawURL string) (*domain.Resolution, error) {
	req, err := domain.Classify(rawURL)
	if err != nil {
		s.logger.Debug("link rejected",
			zap.String("url", rawURL),
			zap.String("platform", string(req.Platform)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("classifying link: %w", err)
	}

	providers := s.table.ProvidersFor(req.Platform, req.ContentType)
	if len(providers) == 0 {
		return nil, &domain.NoProviderConfiguredError{Platform: req.Platform, ContentType: req.ContentType}
	}

	s.logger.Debug("resolving",
		zap.String("url", req.SourceURL),
		zap.String("platform", string(req.Platform)),
		zap.String("content_type", string(req.ContentType)),
		zap.Int("candidates", len(providers)),
	)

	var failures []error
	for _, p := range providers {
		if ctx.Err() != nil {
			failures = append(failures, ctx.Err())
			break
		}

		result, err := s.attempt(ctx, p, req.SourceURL)
		if err != nil {
			failures = append(failures, err)
			continue
		}

		s.wait(ctx)

		s.logger.Info("resolved",
			zap.String("url", req.SourceURL),
			zap.String("provider", p.Name()),
			zap.String("kind", string(result.Kind)),
			zap.Int("failed_attempts", len(failures)),
		)

		return &domain.Resolution{
			ID:       uuid.New().String(),
			Request:  req,
			Result:   result,
			Provider: p.Name(),
			Failures: failures,
		}, nil
	}

	err = &domain.AllProvidersFailedError{Platform: req.Platform, Failures: failures}
	s.logger.Warn("all providers failed",
		zap.String("url", req.SourceURL),
		zap.String("platform", string(req.Platform)),
		zap.Error(err),
	)

	return nil, err
}

// attempt calls one provider. A result that fails validation counts as no media.
func (s *ResolveService) attempt(ctx context.Context, p domain.Provider, sourceURL string) (*domain.MediaResult, error) {
	result, err := p.Fetch(ctx, sourceURL)
	if err == nil {
		if verr := result.Validate(); verr != nil {
			err = domain.NewProviderCallError(p.Name(), 0, fmt.Errorf("%w: %v", domain.ErrNoMedia, verr))
		}
	}

	if err != nil {
		s.metrics.IncProviderCalls(p.Name(), failureLabel(err))
		s.logger.Warn("provider attempt failed",
			zap.String("provider", p.Name()),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.IncProviderCalls(p.Name(), outcomeSuccess)

	return result, nil
}

// wait pauses for the cooldown or until ctx is done.
func (s *ResolveService) wait(ctx context.Context) {
	if s.cooldown <= 0 {
		return
	}

	timer := time.NewTimer(s.cooldown)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func failureLabel(err error) string {
	var callErr *domain.ProviderCallError
	if errors.As(err, &callErr) {
		return string(callErr.Kind)
	}

	return string(domain.FailureUpstream)
}
