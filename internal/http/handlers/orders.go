package handlers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"nameplate/internal/domain"
	"nameplate/internal/export"
	"nameplate/internal/infra/chrome"
	"nameplate/internal/infra/logging"
	"nameplate/internal/service"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Orders serves the export and preview endpoints.
type Orders struct {
	Exporter *service.Exporter
	// Timeout bounds one export, rendering and upload included.
	Timeout time.Duration
}

func NewOrders(e *service.Exporter, timeout time.Duration) *Orders {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Orders{Exporter: e, Timeout: timeout}
}

// parseOrder decodes the JSON body and resolves the output format. A ?format=
// query parameter wins over the body field.
func parseOrder(c *fiber.Ctx) (*domain.OrderRequest, domain.Format, error) {
	var order domain.OrderRequest
	if err := c.BodyParser(&order); err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "Invalid order: "+err.Error())
	}
	raw := order.Format
	if q := c.Query("format"); q != "" {
		raw = q
	}
	format, err := domain.ParseFormat(raw)
	if err != nil {
		return nil, "", toHTTPError(err)
	}
	order.Format = string(format)
	return &order, format, nil
}

// Export renders, uploads and announces an order.
func (h *Orders) Export(c *fiber.Ctx) error {
	order, format, err := parseOrder(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.Timeout)
	defer cancel()

	res, err := h.Exporter.Export(ctx, order, format)
	if err != nil {
		return toHTTPError(err)
	}

	logging.Info("Order exported",
		"ref_id", res.RefID,
		"total_labels", res.TotalLabels,
		"format", string(format),
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
	)
	return c.JSON(res)
}

// Preview renders one artifact and returns it directly, without upload.
// ?artifact=spreadsheet|document selects it; document is the default.
func (h *Orders) Preview(c *fiber.Ctx) error {
	order, format, err := parseOrder(c)
	if err != nil {
		return err
	}
	artifact := strings.ToLower(c.Query("artifact", string(export.KindDocument)))
	switch export.Kind(artifact) {
	case export.KindSpreadsheet:
		format = domain.FormatTabular
	case export.KindDocument:
		if format == domain.FormatTabular {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid artifact: tabular format has no document")
		}
	default:
		return fiber.NewError(fiber.StatusBadRequest, "Invalid artifact: must be 'spreadsheet' or 'document'")
	}

	if err := h.Exporter.Prepare(order); err != nil {
		return toHTTPError(err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.Timeout)
	defer cancel()

	arts, err := h.Exporter.Render(ctx, order, format)
	if err != nil {
		return toHTTPError(err)
	}
	a := arts.Document
	if format == domain.FormatTabular {
		a = arts.Spreadsheet
	}

	filename := unsafeFilenameChars.ReplaceAllString(order.RefID, "_") + "." + a.Ext
	c.Set(fiber.HeaderContentType, a.ContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Send(a.Body)
}

// toHTTPError maps domain errors onto status codes.
func toHTTPError(err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrTooLarge):
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, domain.ErrUpload):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case errors.Is(err, domain.ErrConfiguration):
		logging.Error("Service misconfigured", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		logging.Error("Export timeout", "error", err)
		return fiber.NewError(fiber.StatusRequestTimeout, "Rendering took too long")
	case chrome.IsSessionInterrupted(err):
		logging.Error("Chrome session interrupted", "error", err)
		return fiber.NewError(fiber.StatusServiceUnavailable, "Chrome session interrupted")
	}
	logging.Error("Export failed", "error", err)
	return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("Export failed: %v", err))
}
