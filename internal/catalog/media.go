package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// DefaultUploadsPath is where uploaded images are served on the storefront.
const DefaultUploadsPath = "/static/uploads"

// ImageView is an image ready for a template.
type ImageView struct {
	ID       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	Alt      string    `json:"alt,omitempty"`
	URL      string    `json:"url"`
}

// ResolveImage looks up id and builds its URL under base. Missing images and
// lookup errors yield nil.
func ResolveImage(ctx context.Context, images MediaRepository, base string, id *uuid.UUID) *ImageView {
	if images == nil || id == nil || *id == uuid.Nil {
		return nil
	}
	img, err := images.GetImage(ctx, *id)
	if err != nil || img == nil {
		return nil
	}
	if base == "" {
		base = DefaultUploadsPath
	}
	return &ImageView{
		ID:       img.ID,
		Filename: img.Filename,
		Alt:      img.Alt,
		URL:      strings.TrimRight(base, "/") + "/" + strings.TrimLeft(img.Filename, "/"),
	}
}
