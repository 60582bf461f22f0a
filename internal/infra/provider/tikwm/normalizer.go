package tikwm

import (
	"encoding/json"

	"media-fetch-bot/internal/domain"
)

// Normalizer implements provider.Normalizer for Tikwm.
type Normalizer struct{}

// Normalize maps a Tikwm response. Only code 0 responses with data are
// considered. Rules apply in order: image list, single-cover slide (zero
// duration, no play URL), play URL, watermarked play URL.
func (Normalizer) Normalize(body []byte) (*domain.MediaResult, bool, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, false, err
	}

	if resp.Code == nil || *resp.Code != 0 || resp.Data == nil {
		return nil, false, nil
	}
	d := resp.Data

	if images := d.imageURLs(); len(images) > 0 {
		return domain.NewSlide(images, d.audioURL()), true, nil
	}

	isZero := func(v float64) bool { return v == 0 }
	isPositive := func(v float64) bool { return v > 0 }

	switch {
	case d.durationIs(isZero) && d.Cover != "" && d.Play == "":
		return domain.NewSlide([]string{d.Cover}, d.audioURL()), true, nil
	case d.Play != "" && d.durationIs(isPositive):
		return domain.NewVideo(d.Play, d.audioURL(), d.Title), true, nil
	case d.WMPlay != "" && d.durationIs(isPositive):
		return domain.NewVideo(d.WMPlay, d.audioURL(), d.Title), true, nil
	}

	return nil, false, nil
}
