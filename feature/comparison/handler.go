package comparison

import (
	"bytes"
	"errors"

	"court-compare/core/logger"
	"court-compare/core/reconcile"
	"court-compare/core/staging"
	"court-compare/feature/dataset"
	"court-compare/feature/export"
	"court-compare/feature/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionHeader carries the session id in requests and responses.
const SessionHeader = "X-Session-ID"

// CompareRequest names two staged snapshots.
type CompareRequest struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// InlineRequest carries two datasets in the request body.
type InlineRequest struct {
	Old reconcile.Dataset `json:"old"`
	New reconcile.Dataset `json:"new"`
}

// CompareResponse is a result with its session and counts.
type CompareResponse struct {
	SessionID string            `json:"session_id"`
	Summary   reconcile.Summary `json:"summary"`
	*reconcile.Result
}

// Handler handles HTTP requests for comparisons.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the comparison routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/comparison")
	group.Post("/uploads", h.HandleUpload)
	group.Get("/uploads", h.HandleListUploads)
	group.Post("/compare", h.HandleCompare)
	group.Post("/compare/inline", h.HandleCompareInline)
	group.Get("/results", h.HandleResults)
	group.Get("/export", h.HandleExport)
	group.Delete("/session", h.HandleClear)
}

// sessionID returns the caller's session id, assigning a new one when absent.
func sessionID(c *fiber.Ctx) string {
	id := c.Get(SessionHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(SessionHeader, id)
	return id
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, reconcile.ErrSchema),
		errors.Is(err, dataset.ErrUnsupportedFormat),
		errors.Is(err, dataset.ErrMalformed),
		errors.Is(err, staging.ErrInvalidName),
		errors.Is(err, ErrMissingName):
		return fiber.StatusBadRequest
	case errors.Is(err, staging.ErrNotFound),
		errors.Is(err, session.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// HandleUpload stages an uploaded snapshot file.
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing form file \"file\""})
	}
	f, err := fh.Open()
	if err != nil {
		return h.fail(c, l, "Failed to open upload", err)
	}
	defer f.Close()

	name, err := h.service.Upload(c.Context(), fh.Filename, f, fh.Size)
	if err != nil {
		return h.fail(c, l, "Upload failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"name": name})
}

// HandleListUploads lists staged snapshot files.
func (h *Handler) HandleListUploads(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	names, err := h.service.ListStaged(c.Context())
	if err != nil {
		return h.fail(c, l, "Listing uploads failed", err)
	}
	return c.JSON(fiber.Map{"files": names})
}

// HandleCompare compares two staged snapshots.
func (h *Handler) HandleCompare(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := sessionID(c)

	var req CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.service.Compare(c.Context(), id, req.Old, req.New)
	if err != nil {
		return h.fail(c, l, "Comparison failed", err)
	}
	return c.JSON(CompareResponse{SessionID: id, Summary: result.Summary(), Result: result})
}

// HandleCompareInline compares two datasets sent as JSON.
func (h *Handler) HandleCompareInline(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := sessionID(c)

	var req InlineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.service.CompareInline(c.Context(), id, req.Old, req.New)
	if err != nil {
		return h.fail(c, l, "Inline comparison failed", err)
	}
	return c.JSON(CompareResponse{SessionID: id, Summary: result.Summary(), Result: result})
}

// HandleResults returns the latest result of the session.
func (h *Handler) HandleResults(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := sessionID(c)

	result, err := h.service.Results(c.Context(), id)
	if err != nil {
		return h.fail(c, l, "Loading results failed", err)
	}
	return c.JSON(CompareResponse{SessionID: id, Summary: result.Summary(), Result: result})
}

// HandleExport downloads the latest result as an xlsx workbook.
// With ?stage=true the workbook is also written into the staging area.
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := sessionID(c)

	var buf bytes.Buffer
	if err := h.service.Export(c.Context(), id, &buf); err != nil {
		return h.fail(c, l, "Export failed", err)
	}
	if c.QueryBool("stage") {
		if err := h.service.ExportToStaging(c.Context(), id); err != nil {
			return h.fail(c, l, "Staging export failed", err)
		}
	}

	c.Attachment(export.ResultsFileName)
	c.Set(fiber.HeaderContentType, export.ContentType)
	return c.Send(buf.Bytes())
}

// HandleClear forgets the session result and purges staged files.
func (h *Handler) HandleClear(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := sessionID(c)

	report, err := h.service.Clear(c.Context(), id)
	if err != nil {
		return h.fail(c, l, "Clear failed", err)
	}
	return c.JSON(report)
}
