package facebook

import (
	"encoding/json"

	"media-fetch-bot/internal/domain"
)

// Normalizer implements provider.Normalizer for the Facebook API.
type Normalizer struct{}

// Normalize implements provider.Normalizer.
func (Normalizer) Normalize(body []byte) (*domain.MediaResult, bool, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false, err
	}

	if resp.Status != StatusSuccess {
		return nil, false, nil
	}

	best, ok := resp.bestDownload()
	if !ok {
		return nil, false, nil
	}

	title := resp.Title
	if title == "" {
		title = DefaultTitle
	}

	return domain.NewVideo(best.URL, "", title), true, nil
}
