package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cleanworks/invoicing-system/internal/api/metrics"
	"github.com/cleanworks/invoicing-system/internal/core/domain"
	"github.com/cleanworks/invoicing-system/internal/core/ports"
)

// DraftHandler exposes the caller's invoice workflow: period, entries,
// generate and download.
type DraftHandler struct {
	workflow ports.WorkflowService
}

func NewDraftHandler(workflow ports.WorkflowService) *DraftHandler {
	return &DraftHandler{workflow: workflow}
}

// Get returns the caller's current draft.
//
// @Summary      Get the invoice draft
// @Tags         draft
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/invoice-draft [get]
func (h *DraftHandler) Get(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	view, err := h.workflow.Session(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(view))
}

// SetPeriod changes the billing period of the draft.
//
// @Summary      Set the invoice period
// @Tags         draft
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      periodRequest  true  "Dates as YYYY-MM-DD"
// @Success      200   {object}  sessionResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/invoice-draft/period [put]
func (h *DraftHandler) SetPeriod(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req periodRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.workflow.SetPeriod(c.Request().Context(), user.ID, req.StartDate, req.EndDate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(view))
}

// Candidate applies a kind or place selection to the entry being filled in
// and returns the adjusted entry.
//
// @Summary      Prepare an entry candidate
// @Tags         draft
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      candidateRequest  true  "Current candidate and the selection change"
// @Success      200   {object}  candidateResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/invoice-draft/candidate [post]
func (h *DraftHandler) Candidate(c echo.Context) error {
	if _, err := ctxUser(c); err != nil {
		return err
	}
	var req candidateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	next, err := h.workflow.PrepareCandidate(c.Request().Context(), toCandidate(req.Current), domain.EntryKind(req.Kind), req.PlaceID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCandidateResponse(next))
}

// AddEntry validates and appends a work entry.
//
// @Summary      Add a work entry
// @Tags         draft
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addEntryRequest  true  "Entry; hours and rate may be numbers or strings"
// @Success      201   {object}  addEntryResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/invoice-draft/entries [post]
func (h *DraftHandler) AddEntry(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req addEntryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, view, err := h.workflow.AddEntry(c.Request().Context(), user.ID, addEntryCandidate(req))
	if err != nil {
		return err
	}

	metrics.EntriesAddedTotal.WithLabelValues(string(entry.Kind)).Inc()
	return c.JSON(http.StatusCreated, addEntryResponse{
		Entry:   toEntryResponse(*entry),
		Session: toSessionResponse(view),
	})
}

// RemoveEntry deletes an entry. Unknown ids succeed.
//
// @Summary      Remove a work entry
// @Tags         draft
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Entry id"
// @Success      200  {object}  sessionResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/invoice-draft/entries/{id} [delete]
func (h *DraftHandler) RemoveEntry(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	view, err := h.workflow.RemoveEntry(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(view))
}

// Discard throws the draft away and starts a fresh one. Generated invoices
// stay stored.
//
// @Summary      Discard the invoice draft
// @Tags         draft
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/invoice-draft [delete]
func (h *DraftHandler) Discard(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	view, err := h.workflow.Discard(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(view))
}

// Generate persists the draft and assigns the invoice number.
//
// @Summary      Generate the invoice
// @Tags         draft
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  generateResponse
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/invoice-draft/generate [post]
func (h *DraftHandler) Generate(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := h.workflow.Generate(c.Request().Context(), user.ID)
	metrics.GenerateDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerateErrorsTotal.WithLabelValues(generateFailureReason(err)).Inc()
		return err
	}

	metrics.InvoicesGeneratedTotal.Inc()
	return c.JSON(http.StatusCreated, generateResponse{
		InvoiceNumber: res.InvoiceNumber,
		InvoiceLabel:  domain.FormatInvoiceNumber(res.InvoiceNumber),
		Total:         res.Total.StringFixed(2),
		Session:       toSessionResponse(&res.Session),
	})
}

// Document downloads the PDF of the invoice generated last.
//
// @Summary      Download the generated invoice
// @Tags         draft
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      409  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/invoice-draft/document [get]
func (h *DraftHandler) Document(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	doc, err := h.workflow.DownloadDocument(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}

	metrics.DocumentsRenderedTotal.WithLabelValues("draft").Inc()
	return sendDocument(c, doc)
}

func sendDocument(c echo.Context, doc *domain.Document) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.FileName))
	return c.Blob(http.StatusOK, doc.ContentType, doc.Content)
}

func generateFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrAlreadyInProgress):
		return "in_progress"
	case errors.Is(err, domain.ErrPartialPersistence):
		return "partial"
	case errors.Is(err, domain.ErrPersistence):
		return "persistence"
	default:
		return "internal"
	}
}
