// Package media stores uploaded product images and hands back public URLs.
package media

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Stored is an uploaded image: where shoppers fetch it and the id used to
// delete it later.
type Stored struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// ListLimit caps how many images List returns.
const ListLimit = 100

type Storage interface {
	Upload(ctx context.Context, filename string, r io.Reader) (Stored, error)
	Delete(ctx context.Context, publicID string) error
	// List returns up to ListLimit stored images.
	List(ctx context.Context) ([]Stored, error)
	// DeleteAll removes every stored image and reports how many went.
	DeleteAll(ctx context.Context) (int, error)
}

// objectName gives each upload a random name that keeps the file extension.
func objectName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return uuid.NewString() + ext
}
