package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-fetch-bot/internal/domain"
)

func TestCacheEntryModel_SlideKeepsItemTypes(t *testing.T) {
	media := domain.NewSlideItems([]domain.MediaItem{
		{URL: "https://x/1.jpg", Type: domain.ItemTypePhoto},
		{URL: "https://x/2.mp4", Type: domain.ItemTypeVideo},
	}, "https://x/a.mp3")
	entry := domain.NewCacheEntry("https://instagram.com/p/abc", domain.PlatformInstagram, media, "caption")

	model := CacheEntryFromDomain(entry)

	assert.Equal(t, "slide", model.Kind)
	assert.Empty(t, model.VideoURL)
	assert.Equal(t, []string{"https://x/1.jpg", "https://x/2.mp4"}, []string(model.ItemURLs))
	assert.Equal(t, media, model.ToDomain().Media)
}

func TestCacheEntryModel_Video(t *testing.T) {
	media := domain.NewVideo("https://x/v.mp4", "", "Video Facebook")
	entry := domain.NewCacheEntry("https://fb.watch/abc", domain.PlatformFacebook, media, "caption")

	got := CacheEntryFromDomain(entry).ToDomain()

	require.True(t, got.Media.IsVideo())
	assert.Equal(t, media, got.Media)
	assert.Equal(t, "https://x/v.mp4", got.VideoURL)
	assert.Equal(t, "caption", got.Caption)
}

func TestCacheEntryModel_MissingItemTypeDefaultsToPhoto(t *testing.T) {
	model := &CacheEntryModel{Kind: "slide", ItemURLs: []string{"https://x/1.jpg"}}

	got := model.ToDomain()

	assert.Equal(t, domain.ItemTypePhoto, got.Media.Slide.Images[0].Type)
}
