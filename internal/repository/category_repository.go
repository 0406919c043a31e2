package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/utiligas/casedesk/internal/models"
)

// CategoryRepository reads the fixed issue taxonomy.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository constructs a CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]models.IssueCategory, error) {
	list := []models.IssueCategory{}
	if err := r.db.SelectContext(ctx, &list,
		"SELECT * FROM issue_categories ORDER BY category_name"); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

// FindByID fetches one category row.
func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*models.IssueCategory, error) {
	var cat models.IssueCategory
	if err := r.db.GetContext(ctx, &cat, "SELECT * FROM issue_categories WHERE id = ?", id); err != nil {
		return nil, err
	}
	return &cat, nil
}
