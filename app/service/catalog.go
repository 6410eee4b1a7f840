package service

import (
	"context"
	"errors"

	"github.com/space2study/ms-go-api/app/entity"
)

var ErrCategoryNotFound = errors.New("category not found")

// SpokenLanguages supported across offers and user profiles.
var SpokenLanguages = []string{"english", "ukrainian", "polish", "german", "french", "spanish", "arabic"}

type categoryRepository interface {
	List(ctx context.Context) ([]*entity.Category, error)
	FindByID(ctx context.Context, id uint64) (*entity.Category, error)
}

type subjectRepository interface {
	List(ctx context.Context) ([]*entity.Subject, error)
	ListByCategory(ctx context.Context, categoryID uint64) ([]*entity.Subject, error)
}

type offerRepository interface {
	List(ctx context.Context) ([]*entity.Offer, error)
}

// SubjectWithCategory is a subject joined with its category record.
type SubjectWithCategory struct {
	Subject  *entity.Subject
	Category *entity.Category
}

// OfferWithSubject is an offer joined with its subject and the subject's
// category.
type OfferWithSubject struct {
	Offer    *entity.Offer
	Subject  *entity.Subject
	Category *entity.Category
}

// CatalogService serves category/subject/offer lookups. Relations are
// hydrated with an explicit post-fetch join instead of per-row queries.
type CatalogService struct {
	categoryRepo categoryRepository
	subjectRepo  subjectRepository
	offerRepo    offerRepository
}

func NewCatalogService(categoryRepo categoryRepository, subjectRepo subjectRepository, offerRepo offerRepository) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		subjectRepo:  subjectRepo,
		offerRepo:    offerRepo,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CatalogService) GetCategoryByID(ctx context.Context, id uint64) (*entity.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// ListSubjects returns subjects hydrated with their category. A zero
// categoryID means all subjects.
func (s *CatalogService) ListSubjects(ctx context.Context, categoryID uint64) ([]*SubjectWithCategory, error) {
	var (
		subjects []*entity.Subject
		err      error
	)
	if categoryID > 0 {
		if _, err = s.GetCategoryByID(ctx, categoryID); err != nil {
			return nil, err
		}
		subjects, err = s.subjectRepo.ListByCategory(ctx, categoryID)
	} else {
		subjects, err = s.subjectRepo.List(ctx)
	}
	if err != nil {
		return nil, err
	}

	categoriesByID, err := s.categoriesByID(ctx)
	if err != nil {
		return nil, err
	}

	hydrated := make([]*SubjectWithCategory, 0, len(subjects))
	for _, subject := range subjects {
		hydrated = append(hydrated, &SubjectWithCategory{
			Subject:  subject,
			Category: categoriesByID[subject.CategoryID],
		})
	}
	return hydrated, nil
}

func (s *CatalogService) ListOffers(ctx context.Context) ([]*OfferWithSubject, error) {
	offers, err := s.offerRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	subjects, err := s.subjectRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	subjectsByID := make(map[uint64]*entity.Subject, len(subjects))
	for _, subject := range subjects {
		subjectsByID[subject.ID] = subject
	}

	categoriesByID, err := s.categoriesByID(ctx)
	if err != nil {
		return nil, err
	}

	hydrated := make([]*OfferWithSubject, 0, len(offers))
	for _, offer := range offers {
		item := &OfferWithSubject{Offer: offer}
		if subject := subjectsByID[offer.SubjectID]; subject != nil {
			item.Subject = subject
			item.Category = categoriesByID[subject.CategoryID]
		}
		hydrated = append(hydrated, item)
	}
	return hydrated, nil
}

func (s *CatalogService) categoriesByID(ctx context.Context) (map[uint64]*entity.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint64]*entity.Category, len(categories))
	for _, category := range categories {
		byID[category.ID] = category
	}
	return byID, nil
}
