package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"
)

const (
	ThumbnailSize  uint = 400
	HeroBannerSize uint = 1600
)

var (
	ErrUnsupportedImage = fmt.Errorf("unsupported image format")
)

/*
Dimensions reads just enough of an encoded JPEG or PNG to report its pixel
size.
*/
func Dimensions(r io.Reader) (int, int, error) {
	config, _, err := image.DecodeConfig(r)

	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnsupportedImage, err.Error())
	}

	return config.Width, config.Height, nil
}

/*
ResizeToJPEG decodes an image, shrinks it so the longest edge is maxSize, and
encodes the result as a JPEG.
*/
func ResizeToJPEG(r io.Reader, maxSize uint) ([]byte, error) {
	var (
		err error
		img image.Image
		buf bytes.Buffer
	)

	if img, _, err = image.Decode(r); err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	resizedImage := Resize(img, maxSize)

	if err = jpeg.Encode(&buf, resizedImage, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("error encoding image: %w", err)
	}

	return buf.Bytes(), nil
}

func Resize(img image.Image, maxSize uint) image.Image {
	/*
	 * Determine which dimension to resize based on the longest edge
	 */
	bounds := img.Bounds()
	width := uint(bounds.Dx())
	height := uint(bounds.Dy())

	if width <= maxSize && height <= maxSize {
		return img
	}

	var newWidth, newHeight uint
	if width > height {
		newWidth = maxSize
		newHeight = uint(float64(height) * (float64(maxSize) / float64(width)))
	} else {
		newHeight = maxSize
		newWidth = uint(float64(width) * (float64(maxSize) / float64(height)))
	}

	return resize.Resize(newWidth, newHeight, img, resize.Lanczos3)
}
