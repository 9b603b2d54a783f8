package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// ImageService normalises cover art embedded in exported episodes.
//
// Normalize shrinks artwork to fit a square bound and optionally re-encodes
// it as JPEG.
//
// Example usage:
//
//	svc := NewImageService(1000, true)
//	out, mime, changed, err := svc.Normalize(ctx, pictureBytes)
type ImageService struct {
	maxSize      int
	convertToJPG bool
}

// NewImageService creates an ImageService bounding images to maxSize pixels
// on their longest side.
func NewImageService(maxSize int, convertToJPG bool) *ImageService {
	return &ImageService{maxSize: maxSize, convertToJPG: convertToJPG}
}

// Normalize resizes data to fit within maxSize x maxSize, preserving the
// aspect ratio, and encodes it as JPEG when conversion is enabled (PNG
// otherwise).
//
// When the image already fits and needs no conversion the original bytes are
// returned with changed == false. The returned mime type describes out.
func (s *ImageService) Normalize(ctx context.Context, data []byte) (out []byte, mime string, changed bool, err error) {
	if err := ctx.Err(); err != nil {
		return nil, "", false, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", false, err
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), s.maxSize)
	resize := width != bounds.Dx() || height != bounds.Dy()
	convert := s.convertToJPG && format != "jpeg"

	if !resize && !convert {
		return data, "image/" + format, false, nil
	}

	if resize {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if s.convertToJPG || format == "jpeg" {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return nil, "", false, err
		}
		return buf.Bytes(), "image/jpeg", true, nil
	}

	if err := png.Encode(&buf, img); err != nil {
		return nil, "", false, err
	}
	return buf.Bytes(), "image/png", true, nil
}

// fitWithin scales width x height down to fit a bound x bound square.
func fitWithin(width, height, bound int) (int, int) {
	if bound <= 0 || (width <= bound && height <= bound) {
		return width, height
	}
	if width >= height {
		return bound, max(1, height*bound/width)
	}
	return max(1, width*bound/height), bound
}
