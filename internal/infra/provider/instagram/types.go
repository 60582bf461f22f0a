// Package instagram normalizes responses from the Instagram post and reel APIs.
// Both endpoints share one envelope: data.media is a list of typed links.
package instagram

import (
	"encoding/json"

	"media-fetch-bot/internal/domain"
)

// Response represents the JSON envelope from both Instagram endpoints.
type Response struct {
	Data *Data `json:"data"`
}

// Data holds the media list. Entries are decoded one by one so a malformed
// entry or a non-list value does not reject the whole response.
type Data struct {
	Media json.RawMessage `json:"media"`
}

// Media is one photo or clip of a post.
type Media struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// ToDomain converts the entry to a slide item.
func (m Media) ToDomain() domain.MediaItem {
	if m.Type == "video" {
		return domain.MediaItem{URL: m.URL, Type: domain.ItemTypeVideo}
	}

	return domain.MediaItem{URL: m.URL, Type: domain.ItemTypePhoto}
}

func (r *Response) media() []Media {
	if r.Data == nil {
		return nil
	}

	var raw []json.RawMessage
	if json.Unmarshal(r.Data.Media, &raw) != nil {
		return nil
	}

	out := make([]Media, 0, len(raw))
	for _, entry := range raw {
		var m Media
		if json.Unmarshal(entry, &m) == nil && m.URL != "" {
			out = append(out, m)
		}
	}

	return out
}
