// Package logo loads the company logo in the background from a file,
// an HTTP(S) URL or an S3 object.
package logo

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
)

var formats = map[string]string{
	"png":  domain.LogoFormatPNG,
	"jpeg": domain.LogoFormatJPG,
	"gif":  domain.LogoFormatGIF,
}

// Decode inspects raw image bytes and returns a logo ready for embedding.
func Decode(data []byte) (*domain.Logo, error) {
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, domain.NewValidationError("logo", "unrecognised image data")
	}

	format, ok := formats[name]
	if !ok {
		return nil, domain.NewValidationErrorWithValue("logo", "unsupported image format", name)
	}

	return &domain.Logo{
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
