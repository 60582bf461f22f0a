package provider

import (
	"net/http"
	"net/url"
	"time"
)

// Kind identifies a provider implementation. It selects both the request shape
// and the response normalizer.
type Kind string

const (
	KindTiklydown     Kind = "tiklydown"
	KindTikwm         Kind = "tikwm"
	KindVishavideo    Kind = "vishavideo"
	KindInstagramPost Kind = "igpost"
	KindInstagramReel Kind = "igreel"
	KindFacebook      Kind = "facebook"
)

// Descriptor identifies a configured provider endpoint. It is built once at
// start-up and never mutated.
type Descriptor struct {
	Name    string
	Kind    Kind
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Configured reports whether the descriptor has an endpoint.
func (d Descriptor) Configured() bool {
	return d.BaseURL != ""
}

// RequestDescriptor is the HTTP request to issue against a provider.
type RequestDescriptor struct {
	Method  string
	URL     string
	Headers map[string]string
}

// BuildRequest produces the request for sourceURL. It performs no I/O.
//
// Every provider takes the encoded source URL appended to its base address.
// Tiklydown additionally needs its API key as a query parameter and an explicit
// JSON accept header.
func BuildRequest(d Descriptor, sourceURL string) RequestDescriptor {
	req := RequestDescriptor{
		Method:  http.MethodGet,
		URL:     d.BaseURL + url.QueryEscape(sourceURL),
		Headers: map[string]string{},
	}

	if d.Kind == KindTiklydown {
		req.URL += "&apikey=" + url.QueryEscape(d.APIKey)
		req.Headers["Accept"] = "application/json"
	}

	return req
}
