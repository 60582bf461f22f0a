package provider

import (
	"bytes"
	"encoding/json"
	"strings"

	"media-fetch-bot/internal/domain"
)

// Normalizer turns a raw provider response into a MediaResult.
//
// ok is false when the response holds no usable media; the caller then tries
// the next provider. A non-nil error means the body could not be read at all.
type Normalizer interface {
	Normalize(body []byte) (result *domain.MediaResult, ok bool, err error)
}

// NormalizerFunc adapts a function to the Normalizer interface.
type NormalizerFunc func(body []byte) (*domain.MediaResult, bool, error)

// Normalize calls f(body).
func (f NormalizerFunc) Normalize(body []byte) (*domain.MediaResult, bool, error) {
	return f(body)
}

// ArrayItem is an entry of the titled link lists some providers return.
type ArrayItem struct {
	Title string `json:"title"`
	Href  string `json:"href"`
}

// TitleContains reports whether the item title contains needle, ignoring case.
func (i ArrayItem) TitleContains(needle string) bool {
	return i.Title != "" && strings.Contains(strings.ToLower(i.Title), needle)
}

// FindItem returns the first item matching pred.
func FindItem(items []ArrayItem, pred func(ArrayItem) bool) (ArrayItem, bool) {
	for _, it := range items {
		if pred(it) {
			return it, true
		}
	}

	return ArrayItem{}, false
}

// DecodeItemArray decodes raw into items only when raw is a JSON array.
func DecodeItemArray(raw json.RawMessage) ([]ArrayItem, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}

	var items []ArrayItem
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, false
	}

	return items, true
}

// GenericNormalizer is the last-resort parser applied to any provider response
// whose kind-specific normalizer found nothing: a "data" array yields the
// slide-titled item, or the first one, as a video.
type GenericNormalizer struct{}

type genericEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// Normalize implements Normalizer.
func (GenericNormalizer) Normalize(body []byte) (*domain.MediaResult, bool, error) {
	var env genericEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, false, err
	}

	items, ok := DecodeItemArray(env.Data)
	if !ok || len(items) == 0 {
		return nil, false, nil
	}

	video, found := FindItem(items, func(it ArrayItem) bool { return it.TitleContains("slide") })
	if !found {
		video = items[0]
	}
	if video.Href == "" {
		return nil, false, nil
	}

	audio, _ := FindItem(items, func(it ArrayItem) bool { return it.TitleContains("mp3") })

	return domain.NewVideo(video.Href, audio.Href, ""), true, nil
}
