package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/space2study/ms-go-api/app/service"
)

type LocationController struct {
	locationService *service.LocationService
}

func NewLocationController(locationService *service.LocationService) *LocationController {
	return &LocationController{locationService: locationService}
}

func (c *LocationController) ListCountries(ctx echo.Context) error {
	countries, err := c.locationService.Countries(ctx.Request().Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch countries")
		return internalError(ctx)
	}
	return ctx.JSON(http.StatusOK, countries)
}

func (c *LocationController) ListCities(ctx echo.Context) error {
	iso2 := ctx.Param("iso2")
	if iso2 == "" {
		return badRequest(ctx, "country code is required")
	}

	cities, err := c.locationService.Cities(ctx.Request().Context(), iso2)
	if err != nil {
		logrus.WithError(err).WithField("country", iso2).Error("Failed to fetch cities")
		return internalError(ctx)
	}
	return ctx.JSON(http.StatusOK, cities)
}
