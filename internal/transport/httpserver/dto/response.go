package dto

import (
	"time"

	"media-fetch-bot/internal/app/service"
	"media-fetch-bot/internal/domain"
	"media-fetch-bot/internal/infra/provider/registry"
	"media-fetch-bot/internal/infra/sysinfo"
)

// MediaResponse is the flattened MediaResult.
type MediaResponse struct {
	Kind     string          `json:"kind"`
	VideoURL string          `json:"video_url,omitempty"`
	AudioURL string          `json:"audio_url,omitempty"`
	Title    string          `json:"title,omitempty"`
	Images   []ImageResponse `json:"images,omitempty"`
}

// ImageResponse is one slide item.
type ImageResponse struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// FromMediaResult converts a domain.MediaResult to MediaResponse.
func FromMediaResult(m *domain.MediaResult) MediaResponse {
	if m == nil {
		return MediaResponse{}
	}

	resp := MediaResponse{
		Kind:     string(m.Kind),
		VideoURL: m.VideoURL(),
		AudioURL: m.AudioURL(),
	}

	if m.IsVideo() {
		resp.Title = m.Video.Title
	}
	if m.IsSlide() {
		resp.Images = make([]ImageResponse, len(m.Slide.Images))
		for i, item := range m.Slide.Images {
			resp.Images[i] = ImageResponse{URL: item.URL, Type: string(item.Type)}
		}
	}

	return resp
}

// ResolveResponse is returned by the resolve and cache endpoints.
type ResolveResponse struct {
	ID             string        `json:"id,omitempty"`
	SourceURL      string        `json:"source_url"`
	Platform       string        `json:"platform"`
	Provider       string        `json:"provider,omitempty"`
	Cached         bool          `json:"cached"`
	Caption        string        `json:"caption"`
	Media          MediaResponse `json:"media"`
	FailedAttempts []string      `json:"failed_attempts,omitempty"`
	CreatedAt      string        `json:"created_at"`
}

// FromCacheEntry converts a cache entry to ResolveResponse.
func FromCacheEntry(e *domain.CacheEntry, cached bool) ResolveResponse {
	media := FromMediaResult(e.Media)
	if e.Media == nil {
		media.VideoURL = e.VideoURL
		media.AudioURL = e.AudioURL
	}

	return ResolveResponse{
		SourceURL: e.SourceURL,
		Platform:  string(e.Platform),
		Cached:    cached,
		Caption:   e.Caption,
		Media:     media,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}

// FromFetchResult converts service.FetchResult to ResolveResponse.
func FromFetchResult(r *service.FetchResult) ResolveResponse {
	resp := FromCacheEntry(r.Entry, r.Cached)

	if res := r.Resolution; res != nil {
		resp.ID = res.ID
		resp.Provider = res.Provider
		for _, f := range res.Failures {
			resp.FailedAttempts = append(resp.FailedAttempts, f.Error())
		}
	}

	return resp
}

// PlatformStats is one row of the usage report.
type PlatformStats struct {
	Platform string `json:"platform"`
	Total    int64  `json:"total"`
	Window   int64  `json:"window"`
}

// StatsResponse represents the usage report.
type StatsResponse struct {
	Since     string          `json:"since"`
	Window    string          `json:"window"`
	Platforms []PlatformStats `json:"platforms"`
}

// FromUsageReport converts service.UsageReport to StatsResponse.
func FromUsageReport(r *service.UsageReport, window time.Duration) StatsResponse {
	resp := StatsResponse{
		Since:     r.Since.Format(time.RFC3339),
		Window:    window.String(),
		Platforms: make([]PlatformStats, len(r.Platforms)),
	}

	for i, p := range r.Platforms {
		resp.Platforms[i] = PlatformStats{
			Platform: string(p.Platform),
			Total:    p.Total,
			Window:   p.Window,
		}
	}

	return resp
}

// ProviderResponse describes one extraction API.
type ProviderResponse struct {
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	Configured   bool   `json:"configured"`
	Timeout      string `json:"timeout"`
	BreakerState string `json:"breaker_state,omitempty"`
}

// ProvidersResponse represents the provider listing.
type ProvidersResponse struct {
	Providers  []ProviderResponse `json:"providers"`
	Configured int                `json:"configured"`
}

// FromProviderStatus converts the registry listing to ProvidersResponse.
func FromProviderStatus(statuses []registry.ProviderStatus) ProvidersResponse {
	resp := ProvidersResponse{Providers: make([]ProviderResponse, len(statuses))}

	for i, s := range statuses {
		resp.Providers[i] = ProviderResponse{
			Name:         s.Name,
			Kind:         string(s.Kind),
			Configured:   s.Configured,
			Timeout:      s.Timeout,
			BreakerState: s.BreakerState,
		}
		if s.Configured {
			resp.Configured++
		}
	}

	return resp
}

// SystemResponse is a host and process snapshot.
type SystemResponse struct {
	Hostname      string  `json:"hostname,omitempty"`
	OS            string  `json:"os,omitempty"`
	HostUptime    string  `json:"host_uptime"`
	ProcessUptime string  `json:"process_uptime"`
	CPUCores      int     `json:"cpu_cores"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemTotal      uint64  `json:"mem_total"`
	MemUsed       uint64  `json:"mem_used"`
	MemPercent    float64 `json:"mem_percent"`
	Goroutines    int     `json:"goroutines"`
}

// FromSnapshot converts a sysinfo.Snapshot to SystemResponse.
func FromSnapshot(s *sysinfo.Snapshot) SystemResponse {
	return SystemResponse{
		Hostname:      s.Hostname,
		OS:            s.OS,
		HostUptime:    s.HostUptime.String(),
		ProcessUptime: s.ProcessUptime.Round(time.Second).String(),
		CPUCores:      s.CPUCores,
		CPUPercent:    s.CPUPercent,
		MemTotal:      s.MemTotal,
		MemUsed:       s.MemUsed,
		MemPercent:    s.MemPercent,
		Goroutines:    s.Goroutines,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}
