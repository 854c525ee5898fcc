// AngelaMos | 2026
// handler.go

package uploads

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/go-chi/chi/v5"

	"github.com/desieventsleeds/go-backend/internal/core"
)

const maxUploadSize = 5 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type UploadResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type Handler struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewHandler(cld *cloudinary.Cloudinary, folder string) *Handler {
	return &Handler{cld: cld, folder: folder}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/uploads/event-image", h.UploadEventImage)
}

// UploadEventImage accepts a multipart image and returns the hosted
// URL to embed in an event submission.
func (h *Handler) UploadEventImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+4096)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		core.BadRequest(w, "file too large (max 5MB)")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		core.BadRequest(w, "file is required")
		return
	}
	defer func() {
		//nolint:errcheck
		_ = file.Close()
	}()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		core.BadRequest(w, "only jpg/jpeg/png/webp allowed")
		return
	}

	if header.Size > maxUploadSize {
		core.BadRequest(w, "file too large (max 5MB)")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	up, err := h.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         h.folder,
		ResourceType:   "image",
		UseFilename:    boolPtr(true),
		UniqueFilename: boolPtr(true),
		Overwrite:      boolPtr(false),
	})
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, UploadResponse{
		URL:      up.SecureURL,
		PublicID: up.PublicID,
	})
}

func boolPtr(b bool) *bool {
	return &b
}
