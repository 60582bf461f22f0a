package vishavideo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-fetch-bot/internal/domain"
)

func TestNormalizer_Slide(t *testing.T) {
	body := `{"code":200,"data":[{"title":"Slide 1","href":"a"},{"title":"Slide 2","href":"b"},{"title":"mp3","href":"c"}]}`

	result, ok, err := Normalizer{}.Normalize([]byte(body))

	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, result.IsSlide())
	assert.Equal(t, []domain.MediaItem{
		{URL: "a", Type: domain.ItemTypePhoto},
		{URL: "b", Type: domain.ItemTypePhoto},
	}, result.Slide.Images)
	assert.Equal(t, "c", result.AudioURL())
}

func TestNormalizer_SingleSlideIsVideo(t *testing.T) {
	body := `{"code":200,"data":[{"title":"Download Slide","href":"https://x/s.mp4"},{"title":"Download MP3","href":"https://x/a.mp3"}]}`

	result, ok, err := Normalizer{}.Normalize([]byte(body))

	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, result.IsVideo())
	assert.Equal(t, "https://x/s.mp4", result.VideoURL())
	assert.Equal(t, "https://x/a.mp3", result.AudioURL())
}

func TestNormalizer_Video(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "video titled link",
			body: `{"code":200,"data":[{"title":"Download MP3","href":"https://x/a.mp3"},{"title":"Download Video HD","href":"https://x/v.mp4"}]}`,
			want: "https://x/v.mp4",
		},
		{
			name: "first link when nothing is titled video",
			body: `{"code":200,"data":[{"title":"Server 1","href":"https://x/1.mp4"},{"title":"Server 2","href":"https://x/2.mp4"}]}`,
			want: "https://x/1.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok, err := Normalizer{}.Normalize([]byte(tt.body))
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, result.VideoURL())
		})
	}
}

func TestNormalizer_NoMedia(t *testing.T) {
	tests := map[string]string{
		"wrong code":         `{"code":0,"data":[{"title":"Video","href":"https://x/v.mp4"}]}`,
		"object data":        `{"code":200,"data":{"play":"https://x/v.mp4"}}`,
		"empty list":         `{"code":200,"data":[]}`,
		"first without href": `{"code":200,"data":[{"title":"Server"}]}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, ok, err := Normalizer{}.Normalize([]byte(body))
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}
