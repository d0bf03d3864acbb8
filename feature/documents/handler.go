package documents

import (
	"net/url"

	"document-manager/core/logger"
	"document-manager/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for documents.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	// Force import for Swagger
	var _ = server.ErrorBody{}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the document routes under /api/documents and at the root.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	for _, r := range []fiber.Router{app.Group("/api/documents"), app} {
		r.Get("/document/:key", h.HandleGet)
		r.Post("/document", h.HandleUpload)
		r.Delete("/document/:key", h.HandleDelete)
	}
}

// HandleGet streams a stored document.
// @Summary Get Document
// @Description Returns the raw bytes of a stored document with the content type recorded at upload.
// @Tags documents
// @Produce octet-stream
// @Param key path string true "Document key"
// @Success 200 {file} binary "Document content"
// @Failure 404 {object} server.ErrorBody "Document not found"
// @Failure 500 {object} server.ErrorBody "Internal Server Error"
// @Router /document/{key} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	key, err := pathKey(c)
	if err != nil {
		return err
	}

	doc, err := h.service.Get(c.Context(), key)
	if err != nil {
		return err
	}

	logger.WithRayID(h.logger, c).Debug("Serving document", zap.String("key", key), zap.String("content_type", doc.ContentType))
	c.Set(fiber.HeaderContentType, doc.ContentType)
	if doc.Size >= 0 {
		return c.SendStream(doc.Content, int(doc.Size))
	}
	return c.SendStream(doc.Content)
}

// HandleUpload stores the multipart "file" field under its file name.
// @Summary Upload Document
// @Description Creates or overwrites a document. The key is the uploaded file name.
// @Tags documents
// @Accept multipart/form-data
// @Produce plain
// @Param file formData file true "File to upload"
// @Success 200 {string} string "File uploaded"
// @Failure 400 {object} server.ErrorBody "Missing file"
// @Failure 500 {object} server.ErrorBody "Internal Server Error"
// @Router /document [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "A file must be provided in the 'file' form field")
	}

	f, err := fh.Open()
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to open upload", zap.Error(err))
		return err
	}
	defer f.Close()

	if err := h.service.Put(c.Context(), fh.Filename, f, fh.Size, fh.Header.Get(fiber.HeaderContentType)); err != nil {
		return err
	}
	return c.SendString("File uploaded")
}

// HandleDelete removes a stored document.
// @Summary Delete Document
// @Description Deletes a document by key.
// @Tags documents
// @Produce plain
// @Param key path string true "Document key"
// @Success 200 {string} string "File deleted"
// @Failure 404 {object} server.ErrorBody "Document not found"
// @Failure 500 {object} server.ErrorBody "Internal Server Error"
// @Router /document/{key} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	key, err := pathKey(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), key); err != nil {
		return err
	}
	return c.SendString("File deleted")
}

func pathKey(c *fiber.Ctx) (string, error) {
	key, err := url.PathUnescape(c.Params("key"))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Malformed document key")
	}
	return key, nil
}
