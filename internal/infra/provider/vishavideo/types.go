// Package vishavideo normalizes responses from the Vishavideo TikTok API.
package vishavideo

import (
	"encoding/json"

	"media-fetch-bot/internal/infra/provider"
)

// Response represents the JSON envelope from Vishavideo. Data is a list of
// titled download links on success and an arbitrary value otherwise.
type Response struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

func (r *Response) items() ([]provider.ArrayItem, bool) {
	return provider.DecodeItemArray(r.Data)
}

func isSlide(it provider.ArrayItem) bool {
	return it.TitleContains("slide") && it.Href != ""
}

func isVideo(it provider.ArrayItem) bool {
	return it.TitleContains("video") && it.Href != ""
}

func isAudio(it provider.ArrayItem) bool {
	return it.TitleContains("mp3")
}
