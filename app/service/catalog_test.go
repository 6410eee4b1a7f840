package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/space2study/ms-go-api/app/repository"
	"github.com/space2study/ms-go-api/app/service"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	listCategoriesQuery         = `(?s)SELECT id, name, icon, background_color, icon_color, created_at, updated_at\s+FROM categories ORDER BY name`
	findCategoryByIDQuery       = `(?s)SELECT id, name, icon, background_color, icon_color, created_at, updated_at\s+FROM categories WHERE id = \?`
	listSubjectsQuery           = `(?s)SELECT id, name, category_id, created_at, updated_at\s+FROM subjects ORDER BY name`
	listSubjectsByCategoryQuery = `(?s)SELECT id, name, category_id, created_at, updated_at\s+FROM subjects WHERE category_id = \? ORDER BY name`
	listOffersQuery             = `(?s)SELECT id, author_id, author_role, subject_id, title, description, price, proficiency_level, language, created_at, updated_at\s+FROM offers ORDER BY created_at DESC`
)

var categoryColumns = []string{"id", "name", "icon", "background_color", "icon_color", "created_at", "updated_at"}
var subjectColumns = []string{"id", "name", "category_id", "created_at", "updated_at"}
var offerColumns = []string{"id", "author_id", "author_role", "subject_id", "title", "description", "price", "proficiency_level", "language", "created_at", "updated_at"}

func newCatalogServiceWithMock(t *testing.T) (*service.CatalogService, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	catalogService := service.NewCatalogService(
		repository.NewCategoryRepository(db),
		repository.NewSubjectRepository(db),
		repository.NewOfferRepository(db),
	)
	return catalogService, mock, func() { _ = db.Close() }
}

func categoryRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(categoryColumns).
		AddRow(uint64(1), "Languages", "language", "#79B260", "#ECF5EA", now, now).
		AddRow(uint64(2), "Mathematics", "calculate", "#4E53A2", "#EDEEF5", now, now)
}

func TestCatalogService_ListCategories(t *testing.T) {
	catalogService, mock, cleanup := newCatalogServiceWithMock(t)
	defer cleanup()

	mock.ExpectQuery(listCategoriesQuery).WillReturnRows(categoryRows(time.Now()))

	categories, err := catalogService.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories failed: %v", err)
	}
	if len(categories) != 2 || categories[0].Name != "Languages" {
		t.Fatalf("unexpected categories: %+v", categories)
	}
}

func TestCatalogService_GetCategoryByID_NotFound(t *testing.T) {
	catalogService, mock, cleanup := newCatalogServiceWithMock(t)
	defer cleanup()

	mock.ExpectQuery(findCategoryByIDQuery).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows(categoryColumns))

	_, err := catalogService.GetCategoryByID(context.Background(), 99)
	if !errors.Is(err, service.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCatalogService_ListSubjects_HydratesCategory(t *testing.T) {
	catalogService, mock, cleanup := newCatalogServiceWithMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(listSubjectsQuery).
		WillReturnRows(sqlmock.NewRows(subjectColumns).
			AddRow(uint64(10), "Algebra", uint64(2), now, now).
			AddRow(uint64(11), "English", uint64(1), now, now))
	mock.ExpectQuery(listCategoriesQuery).WillReturnRows(categoryRows(now))

	subjects, err := catalogService.ListSubjects(context.Background(), 0)
	if err != nil {
		t.Fatalf("list subjects failed: %v", err)
	}
	if len(subjects) != 2 {
		t.Fatalf("expected 2 subjects, got %d", len(subjects))
	}
	if subjects[0].Category == nil || subjects[0].Category.Name != "Mathematics" {
		t.Fatalf("expected Algebra hydrated with Mathematics, got %+v", subjects[0].Category)
	}
	if subjects[1].Category == nil || subjects[1].Category.Name != "Languages" {
		t.Fatalf("expected English hydrated with Languages, got %+v", subjects[1].Category)
	}
}

func TestCatalogService_ListSubjects_ByCategory(t *testing.T) {
	catalogService, mock, cleanup := newCatalogServiceWithMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(findCategoryByIDQuery).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows(categoryColumns).
			AddRow(uint64(2), "Mathematics", "calculate", "#4E53A2", "#EDEEF5", now, now))
	mock.ExpectQuery(listSubjectsByCategoryQuery).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows(subjectColumns).
			AddRow(uint64(10), "Algebra", uint64(2), now, now))
	mock.ExpectQuery(listCategoriesQuery).WillReturnRows(categoryRows(now))

	subjects, err := catalogService.ListSubjects(context.Background(), 2)
	if err != nil {
		t.Fatalf("list subjects failed: %v", err)
	}
	if len(subjects) != 1 || subjects[0].Subject.Name != "Algebra" {
		t.Fatalf("unexpected subjects: %+v", subjects)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCatalogService_ListSubjects_UnknownCategory(t *testing.T) {
	catalogService, mock, cleanup := newCatalogServiceWithMock(t)
	defer cleanup()

	mock.ExpectQuery(findCategoryByIDQuery).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows(categoryColumns))

	_, err := catalogService.ListSubjects(context.Background(), 99)
	if !errors.Is(err, service.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCatalogService_ListOffers_HydratesSubjectAndCategory(t *testing.T) {
	catalogService, mock, cleanup := newCatalogServiceWithMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(listOffersQuery).
		WillReturnRows(sqlmock.NewRows(offerColumns).
			AddRow(uint64(100), uint64(1), "tutor", uint64(10), "Algebra tutoring", "Intro to algebra", 250.0, "Intermediate", "english", now, now))
	mock.ExpectQuery(listSubjectsQuery).
		WillReturnRows(sqlmock.NewRows(subjectColumns).
			AddRow(uint64(10), "Algebra", uint64(2), now, now))
	mock.ExpectQuery(listCategoriesQuery).WillReturnRows(categoryRows(now))

	offers, err := catalogService.ListOffers(context.Background())
	if err != nil {
		t.Fatalf("list offers failed: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(offers))
	}
	offer := offers[0]
	if offer.Subject == nil || offer.Subject.Name != "Algebra" {
		t.Fatalf("expected offer hydrated with subject, got %+v", offer.Subject)
	}
	if offer.Category == nil || offer.Category.Name != "Mathematics" {
		t.Fatalf("expected offer hydrated with category, got %+v", offer.Category)
	}
}

func TestCatalogService_ListOffers_QueryError(t *testing.T) {
	catalogService, mock, cleanup := newCatalogServiceWithMock(t)
	defer cleanup()

	mock.ExpectQuery(listOffersQuery).WillReturnError(sql.ErrConnDone)

	if _, err := catalogService.ListOffers(context.Background()); err == nil {
		t.Fatal("expected error from repository")
	}
}
