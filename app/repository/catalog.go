package repository

import (
	"context"
	"database/sql"

	"github.com/space2study/ms-go-api/app/entity"
)

type CategoryRepository struct {
	db querier
}

func NewCategoryRepository(db querier) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	query := `
		SELECT id, name, icon, background_color, icon_color, created_at, updated_at
		FROM categories ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*entity.Category
	for rows.Next() {
		category := &entity.Category{}
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Icon,
			&category.BackgroundColor,
			&category.IconColor,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint64) (*entity.Category, error) {
	query := `
		SELECT id, name, icon, background_color, icon_color, created_at, updated_at
		FROM categories WHERE id = ?
	`
	category := &entity.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Icon,
		&category.BackgroundColor,
		&category.IconColor,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

type SubjectRepository struct {
	db querier
}

func NewSubjectRepository(db querier) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) List(ctx context.Context) ([]*entity.Subject, error) {
	query := `
		SELECT id, name, category_id, created_at, updated_at
		FROM subjects ORDER BY name
	`
	return r.querySubjects(ctx, query)
}

func (r *SubjectRepository) ListByCategory(ctx context.Context, categoryID uint64) ([]*entity.Subject, error) {
	query := `
		SELECT id, name, category_id, created_at, updated_at
		FROM subjects WHERE category_id = ? ORDER BY name
	`
	return r.querySubjects(ctx, query, categoryID)
}

func (r *SubjectRepository) querySubjects(ctx context.Context, query string, args ...any) ([]*entity.Subject, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*entity.Subject
	for rows.Next() {
		subject := &entity.Subject{}
		if err := rows.Scan(
			&subject.ID,
			&subject.Name,
			&subject.CategoryID,
			&subject.CreatedAt,
			&subject.UpdatedAt,
		); err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}
	return subjects, rows.Err()
}

type OfferRepository struct {
	db querier
}

func NewOfferRepository(db querier) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) List(ctx context.Context) ([]*entity.Offer, error) {
	query := `
		SELECT id, author_id, author_role, subject_id, title, description, price, proficiency_level, language, created_at, updated_at
		FROM offers ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []*entity.Offer
	for rows.Next() {
		offer := &entity.Offer{}
		if err := rows.Scan(
			&offer.ID,
			&offer.AuthorID,
			&offer.AuthorRole,
			&offer.SubjectID,
			&offer.Title,
			&offer.Description,
			&offer.Price,
			&offer.ProficiencyLevel,
			&offer.Language,
			&offer.CreatedAt,
			&offer.UpdatedAt,
		); err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}
