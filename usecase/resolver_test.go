package usecase_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentitube/domain/model"
	"sentitube/usecase"
)

func TestExtractVideoID_LongAndShortFormAgree(t *testing.T) {
	urls := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
		"https://youtu.be/dQw4w9WgXcQ",
		"http://www.youtu.be/dQw4w9WgXcQ",
	}
	for _, u := range urls {
		id, err := usecase.ExtractVideoID(u)
		require.NoError(t, err, u)
		assert.Equal(t, "dQw4w9WgXcQ", id, u)
	}
}

func TestExtractVideoID_Invalid(t *testing.T) {
	cases := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"disallowed host", "http://malicious.com/v=dQw4w9WgXcQ"},
		{"lookalike host", "https://youtube.com.evil.net/watch?v=dQw4w9WgXcQ"},
		{"missing scheme", "www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"ftp scheme", "ftp://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		{"no video id", "https://www.youtube.com/watch"},
		{"short id", "https://youtu.be/abc"},
		{"long id", "https://youtu.be/dQw4w9WgXcQextra"},
		{"bad characters", "https://www.youtube.com/watch?v=dQw4w9WgX!Q"},
		{"oversized url", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&x=" + strings.Repeat("a", 2048)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := usecase.ExtractVideoID(tc.url)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrInvalidInput), "want ErrInvalidInput, got %v", err)
			assert.Empty(t, id)
		})
	}
}

func TestExtractVideoID_LengthCapCountsRunes(t *testing.T) {
	// Multibyte query payload: under the cap in runes, over it in bytes.
	multibyte := "https://www.youtube.com/watch?v=dQw4w9WgXcQ&note=" + strings.Repeat("é", 1900)
	require.Greater(t, len(multibyte), 2048)
	id, err := usecase.ExtractVideoID(multibyte)
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", id)

	tooLong := "https://www.youtube.com/watch?v=dQw4w9WgXcQ&note=" + strings.Repeat("é", 2048)
	_, err = usecase.ExtractVideoID(tooLong)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidInput))
}

func TestExtractVideoID_ShortFormIgnoresTrailingPath(t *testing.T) {
	id, err := usecase.ExtractVideoID("https://youtu.be/dQw4w9WgXcQ/extra")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", id)
}
