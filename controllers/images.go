package controllers

import (
	"net/url"

	"vitrine/media"
	"vitrine/models"

	"github.com/gofiber/fiber/v2"
)

// POST /api/admin/images (multipart, field "images")
func (h *Handler) UploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return badBody(err)
	}
	files := form.File["images"]
	if len(files) == 0 {
		return &models.ValidationError{Fields: []string{"images"}}
	}

	uploaded := make([]media.Stored, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return err
		}
		st, err := h.Media.Upload(c.UserContext(), fh.Filename, f)
		f.Close()
		if err != nil {
			return err
		}
		uploaded = append(uploaded, st)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"images": uploaded})
}

// DELETE /api/admin/images/*
func (h *Handler) DeleteImage(c *fiber.Ctx) error {
	publicID, err := url.PathUnescape(c.Params("*"))
	if err != nil || publicID == "" {
		return models.ErrNotFound
	}
	if err := h.Media.Delete(c.UserContext(), publicID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Image deleted"})
}

// GET /api/admin/images
func (h *Handler) ListImages(c *fiber.Ctx) error {
	images, err := h.Media.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"images": images})
}

// DELETE /api/admin/images
func (h *Handler) ClearImages(c *fiber.Ctx) error {
	n, err := h.Media.DeleteAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Images deleted", "deleted": n})
}
