package domain

// Logo image formats accepted by the exporters.
const (
	LogoFormatPNG = "PNG"
	LogoFormatJPG = "JPG"
	LogoFormatGIF = "GIF"
)

// Logo is a decoded company logo.
type Logo struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// Ratio returns height over width, or zero for a degenerate image.
func (l *Logo) Ratio() float64 {
	if l == nil || l.Width <= 0 {
		return 0
	}

	return float64(l.Height) / float64(l.Width)
}
