package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	httpdto "github.com/space2study/ms-go-api/app/dto/http"
	"github.com/space2study/ms-go-api/app/entity"
	"github.com/space2study/ms-go-api/app/service"
)

type CatalogController struct {
	catalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

func (c *CatalogController) ListCategories(ctx echo.Context) error {
	categories, err := c.catalogService.ListCategories(ctx.Request().Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to list categories")
		return internalError(ctx)
	}

	res := make([]httpdto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		res = append(res, categoryResponse(category))
	}
	return ctx.JSON(http.StatusOK, res)
}

func (c *CatalogController) GetCategory(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return badRequest(ctx, "category id must be a number")
	}

	category, err := c.catalogService.GetCategoryByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			return ctx.JSON(http.StatusNotFound, httpdto.NewError(http.StatusNotFound, httpdto.CodeDocumentNotFound, "category was not found"))
		}
		logrus.WithError(err).WithField("category_id", id).Error("Failed to get category")
		return internalError(ctx)
	}

	return ctx.JSON(http.StatusOK, categoryResponse(category))
}

func (c *CatalogController) ListCategorySubjects(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return badRequest(ctx, "category id must be a number")
	}
	return c.listSubjects(ctx, id)
}

func (c *CatalogController) ListSubjects(ctx echo.Context) error {
	return c.listSubjects(ctx, 0)
}

func (c *CatalogController) listSubjects(ctx echo.Context, categoryID uint64) error {
	subjects, err := c.catalogService.ListSubjects(ctx.Request().Context(), categoryID)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			return ctx.JSON(http.StatusNotFound, httpdto.NewError(http.StatusNotFound, httpdto.CodeDocumentNotFound, "category was not found"))
		}
		logrus.WithError(err).Error("Failed to list subjects")
		return internalError(ctx)
	}

	res := make([]httpdto.SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		res = append(res, subjectResponse(subject))
	}
	return ctx.JSON(http.StatusOK, res)
}

func (c *CatalogController) ListOffers(ctx echo.Context) error {
	offers, err := c.catalogService.ListOffers(ctx.Request().Context())
	if err != nil {
		logrus.WithError(err).Error("Failed to list offers")
		return internalError(ctx)
	}

	res := make([]httpdto.OfferResponse, 0, len(offers))
	for _, offer := range offers {
		item := httpdto.OfferResponse{
			ID:               offer.Offer.ID,
			AuthorID:         offer.Offer.AuthorID,
			AuthorRole:       offer.Offer.AuthorRole,
			Title:            offer.Offer.Title,
			Description:      offer.Offer.Description,
			Price:            offer.Offer.Price,
			ProficiencyLevel: offer.Offer.ProficiencyLevel,
			Language:         offer.Offer.Language,
		}
		if offer.Subject != nil {
			subject := subjectResponse(&service.SubjectWithCategory{Subject: offer.Subject, Category: offer.Category})
			item.Subject = &subject
		}
		res = append(res, item)
	}
	return ctx.JSON(http.StatusOK, res)
}

func (c *CatalogController) ListSpokenLanguages(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, service.SpokenLanguages)
}

func categoryResponse(category *entity.Category) httpdto.CategoryResponse {
	return httpdto.CategoryResponse{
		ID:              category.ID,
		Name:            category.Name,
		Icon:            category.Icon,
		BackgroundColor: category.BackgroundColor,
		IconColor:       category.IconColor,
	}
}

func subjectResponse(subject *service.SubjectWithCategory) httpdto.SubjectResponse {
	res := httpdto.SubjectResponse{
		ID:   subject.Subject.ID,
		Name: subject.Subject.Name,
	}
	if subject.Category != nil {
		category := categoryResponse(subject.Category)
		res.Category = &category
	}
	return res
}
