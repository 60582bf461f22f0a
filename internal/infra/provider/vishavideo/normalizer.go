package vishavideo

import (
	"encoding/json"
	"net/http"

	"media-fetch-bot/internal/domain"
	"media-fetch-bot/internal/infra/provider"
)

// Normalizer implements provider.Normalizer for Vishavideo.
type Normalizer struct{}

// Normalize maps a Vishavideo response. Two or more slide links form a slide;
// a single slide link is delivered as a video. Otherwise the first
// video-titled link, or the first link of all, is the video.
func (Normalizer) Normalize(body []byte) (*domain.MediaResult, bool, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false, err
	}

	if resp.Code != http.StatusOK {
		return nil, false, nil
	}
	items, ok := resp.items()
	if !ok || len(items) == 0 {
		return nil, false, nil
	}

	audio, _ := provider.FindItem(items, isAudio)

	slides := make([]string, 0, len(items))
	for _, it := range items {
		if isSlide(it) {
			slides = append(slides, it.Href)
		}
	}

	switch {
	case len(slides) > 1:
		return domain.NewSlide(slides, audio.Href), true, nil
	case len(slides) == 1:
		return domain.NewVideo(slides[0], audio.Href, ""), true, nil
	}

	video, found := provider.FindItem(items, isVideo)
	if !found {
		video = items[0]
	}
	if video.Href == "" {
		return nil, false, nil
	}

	return domain.NewVideo(video.Href, audio.Href, ""), true, nil
}
