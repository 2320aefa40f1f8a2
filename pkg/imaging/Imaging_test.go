package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for x := range width {
		for y := range height {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	buf := bytes.Buffer{}
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDimensions(t *testing.T) {
	width, height, err := Dimensions(bytes.NewReader(encodePNG(t, 30, 20)))
	require.NoError(t, err)
	assert.Equal(t, 30, width)
	assert.Equal(t, 20, height)

	_, _, err = Dimensions(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestResizeToJPEG(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		height     int
		maxSize    uint
		wantWidth  int
		wantHeight int
	}{
		{name: "landscape", width: 200, height: 100, maxSize: 50, wantWidth: 50, wantHeight: 25},
		{name: "portrait", width: 100, height: 200, maxSize: 50, wantWidth: 25, wantHeight: 50},
		{name: "already small", width: 40, height: 30, maxSize: 50, wantWidth: 40, wantHeight: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ResizeToJPEG(bytes.NewReader(encodePNG(t, tt.width, tt.height)), tt.maxSize)
			require.NoError(t, err)

			width, height, err := Dimensions(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, tt.wantWidth, width)
			assert.Equal(t, tt.wantHeight, height)
		})
	}
}
