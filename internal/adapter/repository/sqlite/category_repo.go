package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iho/sochitieu/internal/domain"
)

// CategoryRepository implements usecase.CategoryRepository for user-defined
// categories. Built-in categories never touch the database.
type CategoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListCustom returns the user-defined categories in creation order.
func (r *CategoryRepository) ListCustom(ctx context.Context) ([]domain.CategoryMeta, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, label, kind, icon, color, description
		 FROM custom_categories ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list custom categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.CategoryMeta
	for rows.Next() {
		c := domain.CategoryMeta{Custom: true}
		var kind string
		if err := rows.Scan(&c.ID, &c.Label, &kind, &c.Icon, &c.Color, &c.Description); err != nil {
			return nil, fmt.Errorf("scan custom category: %w", err)
		}
		c.Kind = domain.CategoryKind(kind)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list custom categories: %w", err)
	}
	return categories, nil
}

// InsertCustom persists a new user-defined category.
func (r *CategoryRepository) InsertCustom(ctx context.Context, category domain.CategoryMeta) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO custom_categories (id, label, kind, icon, color, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		category.ID,
		category.Label,
		string(category.Kind),
		category.Icon,
		category.Color,
		category.Description,
		time.Now().UTC().Format(stampLayout),
	)
	if err != nil {
		return fmt.Errorf("insert custom category: %w", err)
	}
	return nil
}

// DeleteCustom removes a user-defined category; a missing id is a no-op.
func (r *CategoryRepository) DeleteCustom(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM custom_categories WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete custom category: %w", err)
	}
	return nil
}
