// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging decodes model-generated thumbnail data URLs and produces
// downscaled JPEG previews for storage and listing pages.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding; image models return PNG data URLs
	"strings"

	"golang.org/x/image/draw"
)

// previewQuality is the JPEG quality used for downscaled previews.
const previewQuality = 80

// DecodeDataURL parses a data URL (data:image/png;base64,...) and returns
// the raw image bytes and declared content type.
func DecodeDataURL(dataURL string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, "", fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(dataURL[len("data:"):], ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URL: missing payload")
	}

	contentType, _, _ := strings.Cut(meta, ";")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if !strings.Contains(meta, "base64") {
		return nil, "", fmt.Errorf("unsupported data URL encoding: %s", meta)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data URL payload: %w", err)
	}
	return data, contentType, nil
}

// PreviewJPEG decodes an image and re-encodes it as a JPEG no wider than
// maxWidth, preserving aspect ratio. Images already within the limit are
// re-encoded without scaling.
func PreviewJPEG(src []byte, maxWidth int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if w := bounds.Dx(); w > maxWidth {
		h := bounds.Dy() * maxWidth / w
		scaled := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
		img = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: previewQuality}); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
