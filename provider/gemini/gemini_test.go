package gemini

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mohammad-safakhou/roomfinder/provider"
)

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), "", "", "", 0, 0, time.Second, nil)
	assert.Error(t, err)
}

func TestImageMIME(t *testing.T) {
	assert.Equal(t, "image/png", imageMIME("https://cdn.example.com/a/room.PNG?w=200"))
	assert.Equal(t, "image/jpeg", imageMIME("https://cdn.example.com/a/room.jpg"))
	assert.Equal(t, "image/jpeg", imageMIME("https://cdn.example.com/a/room"))
	assert.Equal(t, "image/jpeg", imageMIME("https://cdn.example.com/a/notes.txt"))
}

func TestToPartsSkipsEmptyText(t *testing.T) {
	parts := toParts([]provider.Part{{Text: "describe"}, {}, {ImageURL: "https://cdn.example.com/r.webp"}})
	if assert.Len(t, parts, 2) {
		assert.Equal(t, "describe", parts[0].Text)
		if assert.NotNil(t, parts[1].FileData) {
			assert.Equal(t, "https://cdn.example.com/r.webp", parts[1].FileData.FileURI)
			assert.Equal(t, "image/webp", parts[1].FileData.MIMEType)
		}
	}
}
