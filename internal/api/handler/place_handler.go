package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cleanworks/invoicing-system/internal/core/ports"
)

type PlaceHandler struct {
	catalog ports.CatalogService
}

func NewPlaceHandler(catalog ports.CatalogService) *PlaceHandler {
	return &PlaceHandler{catalog: catalog}
}

// List returns the rate catalog.
//
// @Summary      List places
// @Tags         places
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   placeResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/places [get]
func (h *PlaceHandler) List(c echo.Context) error {
	places, err := h.catalog.ListPlaces(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]placeResponse, len(places))
	for i, p := range places {
		resp[i] = toPlaceResponse(p)
	}
	return c.JSON(http.StatusOK, resp)
}

// Create adds a place to the catalog.
//
// @Summary      Create a place
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPlaceRequest  true  "Place name, hourly rate and address"
// @Success      201   {object}  placeResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/places [post]
func (h *PlaceHandler) Create(c echo.Context) error {
	actor, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req createPlaceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	place, err := h.catalog.CreatePlace(c.Request().Context(), actor, ports.CreatePlaceInput{
		Name:    req.Name,
		Rate:    string(req.Rate),
		Address: req.Address,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPlaceResponse(*place))
}
