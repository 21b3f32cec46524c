package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"vitrine/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cloudURL, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, filename string, r io.Reader) (Stored, error) {
	name := objectName(filename)
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID: strings.TrimSuffix(name, filepath.Ext(name)),
		Folder:   c.folder,
	})
	if err != nil {
		return Stored{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if res.Error.Message != "" {
		return Stored{}, errors.New("cloudinary upload: " + res.Error.Message)
	}
	log.Printf("uploaded cloudinary image: %s", res.PublicID)
	return Stored{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Error.Message != "" {
		return errors.New("cloudinary destroy: " + res.Error.Message)
	}
	if res.Result == "not found" {
		return models.ErrNotFound
	}
	log.Printf("deleted cloudinary image: %s", publicID)
	return nil
}

func (c *Cloudinary) List(ctx context.Context) ([]Stored, error) {
	params := admin.AssetsParams{
		AssetType:    "image",
		DeliveryType: "upload",
		MaxResults:   ListLimit,
	}
	if c.folder != "" {
		params.Prefix = c.folder + "/"
	}
	res, err := c.cld.Admin.Assets(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("cloudinary list: %w", err)
	}
	if res.Error.Message != "" {
		return nil, errors.New("cloudinary list: " + res.Error.Message)
	}

	out := make([]Stored, 0, len(res.Assets))
	for _, a := range res.Assets {
		out = append(out, Stored{URL: a.SecureURL, PublicID: a.PublicID})
	}
	return out, nil
}

// DeleteAll destroys the listed images one by one. Images beyond the list
// page stay until the next call.
func (c *Cloudinary) DeleteAll(ctx context.Context) (int, error) {
	images, err := c.List(ctx)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, img := range images {
		if err := c.Delete(ctx, img.PublicID); err != nil && !errors.Is(err, models.ErrNotFound) {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
