// Package facebook normalizes responses from the Facebook video API.
package facebook

import "strings"

// DefaultTitle is used when the response carries no title.
const DefaultTitle = "Video Facebook"

// StatusSuccess is the status value of a usable response.
const StatusSuccess = "success"

// Response represents the JSON response from the Facebook API.
type Response struct {
	Status    string     `json:"status"`
	Title     string     `json:"title"`
	Downloads []Download `json:"downloads"`
}

// Download is one quality variant.
type Download struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
}

// preferredQualities lists quality labels from best to worst.
var preferredQualities = []string{"HD", "SD"}

// bestDownload picks HD, then SD, then the first entry among downloads with
// an http URL.
func (r *Response) bestDownload() (Download, bool) {
	available := make([]Download, 0, len(r.Downloads))
	for _, d := range r.Downloads {
		if strings.HasPrefix(d.URL, "http") {
			available = append(available, d)
		}
	}
	if len(available) == 0 {
		return Download{}, false
	}

	for _, q := range preferredQualities {
		for _, d := range available {
			if d.Quality == q {
				return d, true
			}
		}
	}

	return available[0], true
}
