// Package tiklydown normalizes responses from the Tiklydown TikTok API.
package tiklydown

import "encoding/json"

// Response represents the JSON response from Tiklydown.
type Response struct {
	Video  *Video            `json:"video"`
	Images []json.RawMessage `json:"images"`
	Music  *Music            `json:"music"`
	Title  string            `json:"title"`
}

// Video holds the playable variants.
type Video struct {
	NoWatermark string `json:"noWatermark"`
	Watermark   string `json:"watermark"`
}

// Music holds the soundtrack.
type Music struct {
	PlayURL string `json:"play_url"`
}

// Image is one slide entry. Tiklydown sends either an object or a bare string.
type Image struct {
	URL string `json:"url"`
}

// imageURL extracts the URL of a raw image entry.
func imageURL(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var img Image
	if err := json.Unmarshal(raw, &img); err == nil {
		return img.URL
	}

	return ""
}

func (r *Response) audioURL() string {
	if r.Music == nil {
		return ""
	}

	return r.Music.PlayURL
}
