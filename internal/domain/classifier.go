package domain

import (
	"net/url"
	"strings"
)

var (
	tiktokDomains    = []string{"tiktok.com"}
	instagramDomains = []string{"instagram.com", "instagr.am"}
	facebookDomains  = []string{"facebook.com", "fb.watch", "fb.com"}

	facebookStoryMarkers = []string{"/story", "/stories/", "story_fbid"}
	instagramReelMarkers = []string{"/reel/", "/reels/"}
)

// Classify infers platform and content type from a raw URL.
// It never touches the network.
//
// Story links on Facebook are rejected with ErrUnsupportedContent; hosts that are
// not recognized yield ErrUnrecognizedLink.
func Classify(rawURL string) (ResolutionRequest, error) {
	rawURL = strings.TrimSpace(rawURL)
	req := ResolutionRequest{SourceURL: rawURL}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return req, ErrUnrecognizedLink
	}

	host := strings.ToLower(u.Hostname())
	lower := strings.ToLower(rawURL)

	switch {
	case matchDomain(host, tiktokDomains):
		req.Platform = PlatformTikTok
		// Photo slides cannot be told apart from videos by URL; the normalizer decides.
		req.ContentType = ContentTypeVideo
		if strings.Contains(lower, "story") {
			req.ContentType = ContentTypeStory
		}

	case matchDomain(host, instagramDomains):
		req.Platform = PlatformInstagram
		req.ContentType = ContentTypeSlide
		if containsAny(strings.ToLower(u.Path), instagramReelMarkers) {
			req.ContentType = ContentTypeVideo
		}

	case matchDomain(host, facebookDomains):
		req.Platform = PlatformFacebook
		req.ContentType = ContentTypeVideo
		if containsAny(lower, facebookStoryMarkers) {
			req.ContentType = ContentTypeStory
			return req, ErrUnsupportedContent
		}

	default:
		return req, ErrUnrecognizedLink
	}

	return req, nil
}

// matchDomain reports whether host equals one of domains or is a subdomain of it.
func matchDomain(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}

	return false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}

	return false
}
