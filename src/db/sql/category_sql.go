package db

import (
	"context"
	"fmt"

	"tally-server/src/models"

	"github.com/jackc/pgx/v5"
)

const categoryColumns = `id, user_id, name, description, color, icon, is_default, active, created_at, updated_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Color, &c.Icon, &c.IsDefault, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, description, color, icon, is_default)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + categoryColumns
	created, err := scanCategory(s.q.QueryRow(ctx, query, c.UserID, c.Name, c.Description, c.Color, c.Icon, c.IsDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return created, nil
}

func (s *Store) GetCategory(ctx context.Context, userID, id int64) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`
	return scanCategory(s.q.QueryRow(ctx, query, id, userID))
}

func (s *Store) ListCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1 AND active
		ORDER BY name ASC, id ASC
	`
	rows, err := s.q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *Store) CountCategories(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := s.q.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE user_id = $1 AND active`, userID).Scan(&n)
	return n, err
}
