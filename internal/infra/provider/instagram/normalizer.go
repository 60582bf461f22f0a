package instagram

import (
	"encoding/json"

	"media-fetch-bot/internal/domain"
)

// PostNormalizer implements provider.Normalizer for the post endpoint.
// A lone video becomes a Video; anything else is a Slide of every item.
type PostNormalizer struct{}

// Normalize implements provider.Normalizer.
func (PostNormalizer) Normalize(body []byte) (*domain.MediaResult, bool, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false, err
	}

	media := resp.media()
	if len(media) == 0 {
		return nil, false, nil
	}

	if len(media) == 1 && media[0].Type == "video" {
		return domain.NewVideo(media[0].URL, "", ""), true, nil
	}

	items := make([]domain.MediaItem, len(media))
	for i, m := range media {
		items[i] = m.ToDomain()
	}

	return domain.NewSlideItems(items, ""), true, nil
}

// ReelNormalizer implements provider.Normalizer for the reel endpoint.
// The first video item is the result.
type ReelNormalizer struct{}

// Normalize implements provider.Normalizer.
func (ReelNormalizer) Normalize(body []byte) (*domain.MediaResult, bool, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false, err
	}

	for _, m := range resp.media() {
		if m.Type == "video" {
			return domain.NewVideo(m.URL, "", ""), true, nil
		}
	}

	return nil, false, nil
}
