package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cleanworks/invoicing-system/internal/api/metrics"
	"github.com/cleanworks/invoicing-system/internal/core/ports"
)

// InvoiceHandler serves persisted invoices. Normal users see their own only.
type InvoiceHandler struct {
	invoices ports.InvoiceService
}

func NewInvoiceHandler(invoices ports.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

// List returns invoice headers, newest first.
//
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   invoiceResponse
// @Failure      401  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/invoices [get]
func (h *InvoiceHandler) List(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	invoices, err := h.invoices.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	resp := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = toInvoiceResponse(inv)
	}
	return c.JSON(http.StatusOK, resp)
}

// Get returns one invoice with its entries.
//
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        number  path      int  true  "Invoice number"
// @Success      200     {object}  invoiceResponse
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /v1/invoices/{number} [get]
func (h *InvoiceHandler) Get(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	number, err := invoiceNumberParam(c)
	if err != nil {
		return err
	}

	inv, err := h.invoices.Get(c.Request().Context(), actor, number)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInvoiceResponse(inv))
}

// Document re-renders a persisted invoice as PDF.
//
// @Summary      Download an invoice
// @Tags         invoices
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        number  path      int  true  "Invoice number"
// @Success      200     {file}    file
// @Failure      404     {object}  errorResponse
// @Router       /v1/invoices/{number}/document [get]
func (h *InvoiceHandler) Document(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	number, err := invoiceNumberParam(c)
	if err != nil {
		return err
	}

	doc, err := h.invoices.Document(c.Request().Context(), actor, number)
	if err != nil {
		return err
	}

	metrics.DocumentsRenderedTotal.WithLabelValues("history").Inc()
	return sendDocument(c, doc)
}

func invoiceNumberParam(c echo.Context) (int64, error) {
	n, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil || n <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invoice number must be a positive integer")
	}
	return n, nil
}
