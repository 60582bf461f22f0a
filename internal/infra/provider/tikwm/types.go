// Package tikwm normalizes responses from the Tikwm TikTok API.
package tikwm

import (
	"encoding/json"
	"strings"
)

// Response represents the JSON envelope from Tikwm.
type Response struct {
	Code *int   `json:"code"`
	Msg  string `json:"msg"`
	Data *Data  `json:"data"`
}

// Data holds the post details. Duration is a pointer because a missing
// duration and a zero duration mean different things.
type Data struct {
	Play      string          `json:"play"`
	WMPlay    string          `json:"wmplay"`
	Cover     string          `json:"cover"`
	Title     string          `json:"title"`
	Duration  *float64        `json:"duration"`
	Images    []any           `json:"images"`
	Music     any             `json:"music"`
	MusicInfo json.RawMessage `json:"music_info"`
}

// MusicInfo holds the soundtrack metadata. It is decoded lazily; any other
// shape means no audio.
type MusicInfo struct {
	Play string `json:"play"`
}

func (d *Data) audioURL() string {
	if s, ok := d.Music.(string); ok && s != "" {
		return s
	}
	var info MusicInfo
	if json.Unmarshal(d.MusicInfo, &info) == nil {
		return info.Play
	}

	return ""
}

// imageURLs returns the images that are strings starting with http.
func (d *Data) imageURLs() []string {
	urls := make([]string, 0, len(d.Images))
	for _, img := range d.Images {
		if s, ok := img.(string); ok && strings.HasPrefix(s, "http") {
			urls = append(urls, s)
		}
	}

	return urls
}

func (d *Data) durationIs(pred func(float64) bool) bool {
	return d.Duration != nil && pred(*d.Duration)
}
