package minio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

func TestImageExtension(t *testing.T) {
	ext, err := ImageExtension(pngHeader)
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)

	ext, err = ImageExtension([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 'J', 'F', 'I', 'F', 0})
	require.NoError(t, err)
	assert.Equal(t, ".jpg", ext)

	_, err = ImageExtension([]byte("GIF89a........"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = ImageExtension(nil)
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	tooBig := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, MaxImageSize)...)
	_, err = ImageExtension(tooBig)
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestS3Storage_ObjectKey(t *testing.T) {
	s := &S3Storage{endpoint: "http://localhost:9000", bucket: "images"}

	url := s.objectURL("vehicles/abc.png")
	assert.Equal(t, "http://localhost:9000/images/vehicles/abc.png", url)

	key, ok := s.objectKey(url)
	assert.True(t, ok)
	assert.Equal(t, "vehicles/abc.png", key)

	_, ok = s.objectKey("https://cdn.example.com/abc.png")
	assert.False(t, ok)
}
