package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"mime"
	"net/http"
	"strings"

	"yatube/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultMaxUploadSizeMB = 10
	// MaxDimension bounds the longer side of a stored image.
	MaxDimension = 960
	WebPQuality  = 75
	// ContentType of every stored image.
	ContentType = "image/webp"
)

// Processor validates an uploaded image and re-encodes it as WebP.
type Processor struct {
	maxBytes int64
	maxDim   int
	quality  int
}

// NewProcessor accepts uploads up to maxUploadMB megabytes.
func NewProcessor(maxUploadMB int) *Processor {
	if maxUploadMB <= 0 {
		maxUploadMB = DefaultMaxUploadSizeMB
	}
	return &Processor{
		maxBytes: int64(maxUploadMB) * 1024 * 1024,
		maxDim:   MaxDimension,
		quality:  WebPQuality,
	}
}

// Process decodes content, downsizes it to fit MaxDimension and returns WebP bytes.
// Problems with the upload itself come back as validation errors on the image field.
func (p *Processor) Process(content []byte, declaredType string) ([]byte, error) {
	if len(content) == 0 {
		return nil, models.NewFieldError("image", "The submitted file is empty.")
	}
	if int64(len(content)) > p.maxBytes {
		return nil, models.NewFieldError("image", fmt.Sprintf("File too large (max %dMB).", p.maxBytes/(1024*1024)))
	}

	detected := http.DetectContentType(content)
	if !isAllowedImageMIME(detected) {
		return nil, models.NewFieldError("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}

	decoded, format, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewFieldError("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}
	if provided := normalizeContentType(declaredType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, decodedFormatToMime(format)) {
		return nil, models.NewFieldError("image", "Image content type mismatch.")
	}

	resized := resizeToFit(decoded, p.maxDim, p.maxDim)
	out, err := encodeWebP(resized, p.quality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	if provided == "image/jpg" {
		provided = "image/jpeg"
	}
	return provided == detected
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png", "gif", "webp":
		return "image/" + format
	default:
		return ""
	}
}
