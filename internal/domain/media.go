// Package domain contains the core business logic and entities.
// This package has no external dependencies (only stdlib).
package domain

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Platform identifies the social network a source URL belongs to.
type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
)

// Platforms lists every supported platform, in reporting order.
var Platforms = []Platform{PlatformTikTok, PlatformInstagram, PlatformFacebook}

// ContentType is the sub-type of content behind a URL.
type ContentType string

const (
	ContentTypeVideo ContentType = "video"
	ContentTypeSlide ContentType = "slide"
	ContentTypeStory ContentType = "story"
)

// MediaKind tags the active variant of a MediaResult.
type MediaKind string

const (
	MediaKindVideo MediaKind = "video"
	MediaKindSlide MediaKind = "slide"
)

// ItemType describes a single entry in a slide.
type ItemType string

const (
	ItemTypePhoto ItemType = "photo"
	ItemTypeVideo ItemType = "video"
)

// MediaItem is one image (or clip, for mixed carousel posts) of a slide.
type MediaItem struct {
	URL  string   `json:"url"`
	Type ItemType `json:"type"`
}

// Video is a single playable media file.
type Video struct {
	URL      string `json:"url"`
	AudioURL string `json:"audio_url,omitempty"`
	Title    string `json:"title,omitempty"`
}

// Slide is a photo post made of one or more images.
type Slide struct {
	Images   []MediaItem `json:"images"`
	AudioURL string      `json:"audio_url,omitempty"`
}

// MediaResult is the unified output of every provider.
// Exactly one of Video or Slide is set, matching Kind.
type MediaResult struct {
	Kind  MediaKind `json:"kind"`
	Video *Video    `json:"video,omitempty"`
	Slide *Slide    `json:"slide,omitempty"`
}

var (
	errInvalidKind     = errors.New("media result: unknown kind")
	errEmptySlide      = errors.New("media result: slide has no images")
	errInvalidVideoURL = errors.New("media result: video url is not absolute http(s)")
	errVariantMismatch = errors.New("media result: variant does not match kind")
)

// NewVideo builds a video result.
func NewVideo(videoURL, audioURL, title string) *MediaResult {
	return &MediaResult{
		Kind:  MediaKindVideo,
		Video: &Video{URL: videoURL, AudioURL: audioURL, Title: title},
	}
}

// NewSlide builds a slide result from image URLs.
func NewSlide(imageURLs []string, audioURL string) *MediaResult {
	items := make([]MediaItem, len(imageURLs))
	for i, u := range imageURLs {
		items[i] = MediaItem{URL: u, Type: ItemTypePhoto}
	}

	return NewSlideItems(items, audioURL)
}

// NewSlideItems builds a slide result from typed items.
func NewSlideItems(items []MediaItem, audioURL string) *MediaResult {
	return &MediaResult{
		Kind:  MediaKindSlide,
		Slide: &Slide{Images: items, AudioURL: audioURL},
	}
}

// IsVideo returns true if the result is a single video.
func (m *MediaResult) IsVideo() bool {
	return m != nil && m.Kind == MediaKindVideo
}

// IsSlide returns true if the result is a photo slide.
func (m *MediaResult) IsSlide() bool {
	return m != nil && m.Kind == MediaKindSlide
}

// Validate checks the variant invariants.
func (m *MediaResult) Validate() error {
	if m == nil {
		return errInvalidKind
	}

	switch m.Kind {
	case MediaKindVideo:
		if m.Video == nil || m.Slide != nil {
			return errVariantMismatch
		}
		if !IsAbsoluteHTTPURL(m.Video.URL) {
			return errInvalidVideoURL
		}
	case MediaKindSlide:
		if m.Slide == nil || m.Video != nil {
			return errVariantMismatch
		}
		if len(m.Slide.Images) == 0 {
			return errEmptySlide
		}
	default:
		return errInvalidKind
	}

	return nil
}

// AudioURL returns the audio track of either variant.
func (m *MediaResult) AudioURL() string {
	switch {
	case m.IsVideo():
		return m.Video.AudioURL
	case m.IsSlide():
		return m.Slide.AudioURL
	default:
		return ""
	}
}

// VideoURL returns the video URL, or "" for slides.
func (m *MediaResult) VideoURL() string {
	if m.IsVideo() {
		return m.Video.URL
	}

	return ""
}

// IsAbsoluteHTTPURL reports whether s parses as an absolute http or https URL.
func IsAbsoluteHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ResolutionRequest is the classified form of an incoming URL.
type ResolutionRequest struct {
	SourceURL   string
	Platform    Platform
	ContentType ContentType
}

// Resolution is a successful orchestrator outcome.
type Resolution struct {
	ID       string
	Request  ResolutionRequest
	Result   *MediaResult
	Provider string
	// Failures holds the provider attempts that failed before the successful one.
	Failures []error
}

// CacheEntry is the last successful resolution stored for a source URL.
type CacheEntry struct {
	SourceURL string       `json:"source_url"`
	Platform  Platform     `json:"platform"`
	VideoURL  string       `json:"video_url,omitempty"`
	AudioURL  string       `json:"audio_url,omitempty"`
	Caption   string       `json:"caption"`
	Media     *MediaResult `json:"media"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewCacheEntry derives a cache entry from a resolved result.
func NewCacheEntry(sourceURL string, platform Platform, result *MediaResult, caption string) *CacheEntry {
	return &CacheEntry{
		SourceURL: sourceURL,
		Platform:  platform,
		VideoURL:  result.VideoURL(),
		AudioURL:  result.AudioURL(),
		Caption:   caption,
		Media:     result,
		CreatedAt: time.Now().UTC(),
	}
}

// UsageCounter is the running total of successful resolutions per platform.
type UsageCounter struct {
	Platform Platform `json:"platform"`
	Count    int64    `json:"count"`
}

// RequestLogEntry is one successful resolution, kept for time-windowed counts.
type RequestLogEntry struct {
	ID        string    `json:"id"`
	Platform  Platform  `json:"platform"`
	SourceURL string    `json:"source_url"`
	Timestamp time.Time `json:"timestamp"`
}
