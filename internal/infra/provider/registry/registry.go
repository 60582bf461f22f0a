// Package registry builds the configured provider clients and the strategy
// table that orders them per platform and content type.
package registry

import (
	"go.uber.org/zap"

	"media-fetch-bot/internal/config"
	"media-fetch-bot/internal/domain"
	"media-fetch-bot/internal/infra/provider"
	"media-fetch-bot/internal/infra/provider/facebook"
	"media-fetch-bot/internal/infra/provider/instagram"
	"media-fetch-bot/internal/infra/provider/tiklydown"
	"media-fetch-bot/internal/infra/provider/tikwm"
	"media-fetch-bot/internal/infra/provider/vishavideo"
)

// Strategy lists candidate provider kinds in priority order.
type Strategy map[domain.Platform]map[domain.ContentType][]provider.Kind

// DefaultStrategy is the built-in provider order.
// TikTok videos prefer Tiklydown, photo slides prefer Tikwm and stories prefer Vishavideo.
var DefaultStrategy = Strategy{
	domain.PlatformTikTok: {
		domain.ContentTypeVideo: {provider.KindTiklydown, provider.KindTikwm, provider.KindVishavideo},
		domain.ContentTypeSlide: {provider.KindTikwm, provider.KindTiklydown, provider.KindVishavideo},
		domain.ContentTypeStory: {provider.KindVishavideo, provider.KindTiklydown, provider.KindTikwm},
	},
	domain.PlatformInstagram: {
		domain.ContentTypeVideo: {provider.KindInstagramReel},
		domain.ContentTypeSlide: {provider.KindInstagramPost},
	},
	domain.PlatformFacebook: {
		domain.ContentTypeVideo: {provider.KindFacebook},
	},
}

// Normalizers maps each provider kind to its response normalizer.
var Normalizers = map[provider.Kind]provider.Normalizer{
	provider.KindTiklydown:     tiklydown.Normalizer{},
	provider.KindTikwm:         tikwm.Normalizer{},
	provider.KindVishavideo:    vishavideo.Normalizer{},
	provider.KindInstagramPost: instagram.PostNormalizer{},
	provider.KindInstagramReel: instagram.ReelNormalizer{},
	provider.KindFacebook:      facebook.Normalizer{},
}

// ProviderStatus describes one provider for the admin listing.
type ProviderStatus struct {
	Name         string
	Kind         provider.Kind
	Configured   bool
	Timeout      string
	BreakerState string
}

// Table implements domain.ProviderTable.
type Table struct {
	strategy    Strategy
	descriptors []provider.Descriptor
	providers   map[provider.Kind]domain.Provider
}

// NewTable creates a table over already built providers. Kinds missing from
// providers are treated as not configured.
func NewTable(strategy Strategy, providers map[provider.Kind]domain.Provider) *Table {
	return &Table{strategy: strategy, providers: providers}
}

// ProvidersFor returns the configured candidates for a platform and content
// type in priority order.
func (t *Table) ProvidersFor(platform domain.Platform, contentType domain.ContentType) []domain.Provider {
	kinds := t.strategy[platform][contentType]

	out := make([]domain.Provider, 0, len(kinds))
	for _, kind := range kinds {
		if p, ok := t.providers[kind]; ok {
			out = append(out, p)
		}
	}

	return out
}

// Status reports every known descriptor, configured or not.
func (t *Table) Status() []ProviderStatus {
	out := make([]ProviderStatus, 0, len(t.descriptors))
	for _, d := range t.descriptors {
		status := ProviderStatus{
			Name:       d.Name,
			Kind:       d.Kind,
			Configured: d.Configured(),
			Timeout:    d.Timeout.String(),
		}
		if c, ok := t.providers[d.Kind].(*provider.Client); ok {
			status.BreakerState = c.BreakerState()
		}
		out = append(out, status)
	}

	return out
}

// Descriptors builds the immutable descriptor list from configuration.
func Descriptors(cfg config.ProviderConfig) []provider.Descriptor {
	endpoints := []struct {
		kind provider.Kind
		ep   config.ProviderEndpoint
	}{
		{provider.KindTiklydown, cfg.Tiklydown},
		{provider.KindTikwm, cfg.Tikwm},
		{provider.KindVishavideo, cfg.Vishavideo},
		{provider.KindInstagramPost, cfg.IGPost},
		{provider.KindInstagramReel, cfg.IGReel},
		{provider.KindFacebook, cfg.Facebook},
	}

	out := make([]provider.Descriptor, 0, len(endpoints))
	for _, e := range endpoints {
		out = append(out, provider.Descriptor{
			Name:    string(e.kind),
			Kind:    e.kind,
			BaseURL: e.ep.BaseURL,
			APIKey:  e.ep.APIKey,
			Timeout: e.ep.Timeout,
		})
	}

	return out
}

// New creates a client for every configured provider and returns the
// strategy table over them.
func New(cfg config.ProviderConfig, logger *zap.Logger) *Table {
	descriptors := Descriptors(cfg)
	endpoints := map[provider.Kind]config.ProviderEndpoint{
		provider.KindTiklydown:     cfg.Tiklydown,
		provider.KindTikwm:         cfg.Tikwm,
		provider.KindVishavideo:    cfg.Vishavideo,
		provider.KindInstagramPost: cfg.IGPost,
		provider.KindInstagramReel: cfg.IGReel,
		provider.KindFacebook:      cfg.Facebook,
	}

	providers := make(map[provider.Kind]domain.Provider, len(descriptors))
	for _, d := range descriptors {
		if !d.Configured() {
			logger.Info("provider not configured, skipping", zap.String("provider", d.Name))
			continue
		}

		providers[d.Kind] = provider.New(d, Normalizers[d.Kind], clientConfig(endpoints[d.Kind]), logger)
	}

	logger.Info("providers initialized", zap.Int("count", len(providers)))

	t := NewTable(DefaultStrategy, providers)
	t.descriptors = descriptors

	return t
}

func clientConfig(ep config.ProviderEndpoint) provider.ClientConfig {
	return provider.ClientConfig{
		Timeout: ep.Timeout,
		Retry: provider.RetryConfig{
			MaxAttempts: ep.Retry.MaxAttempts,
			WaitTime:    ep.Retry.WaitTime,
			MaxWaitTime: ep.Retry.MaxWaitTime,
		},
		CB: provider.CBConfig{
			MaxRequests:  ep.CB.MaxRequests,
			Interval:     ep.CB.Interval,
			Timeout:      ep.CB.Timeout,
			FailureRatio: ep.CB.FailureRatio,
		},
	}
}
