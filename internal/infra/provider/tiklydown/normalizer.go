package tiklydown

import (
	"encoding/json"

	"media-fetch-bot/internal/domain"
)

// Normalizer implements provider.Normalizer for Tiklydown.
type Normalizer struct{}

// Normalize maps a Tiklydown response. Responses without a video object carry
// no media. Images win over the video; entries without a URL are skipped.
func (Normalizer) Normalize(body []byte) (*domain.MediaResult, bool, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false, err
	}

	if resp.Video == nil {
		return nil, false, nil
	}

	images := make([]string, 0, len(resp.Images))
	for _, raw := range resp.Images {
		if u := imageURL(raw); u != "" {
			images = append(images, u)
		}
	}
	if len(images) > 0 {
		return domain.NewSlide(images, resp.audioURL()), true, nil
	}

	videoURL := resp.Video.NoWatermark
	if videoURL == "" {
		videoURL = resp.Video.Watermark
	}
	if videoURL == "" {
		return nil, false, nil
	}

	return domain.NewVideo(videoURL, resp.audioURL(), resp.Title), true, nil
}
