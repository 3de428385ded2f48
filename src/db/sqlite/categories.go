package sqlite

import (
	"context"
	"fmt"

	"tally-server/src/models"
)

const categoryColumns = `id, user_id, name, description, color, icon, is_default, active, created_at, updated_at`

func scanCategory(row interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	var createdAt, updatedAt string
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.Color, &c.Icon, &c.IsDefault, &c.Active, &createdAt, &updatedAt); err != nil {
		return nil, translate(err)
	}
	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	now := formatTime(s.now())
	res, err := s.q.ExecContext(ctx, `
		INSERT INTO categories (user_id, name, description, color, icon, is_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.UserID, c.Name, c.Description, c.Color, c.Icon, c.IsDefault, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", translate(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetCategory(ctx, c.UserID, id)
}

func (s *Store) GetCategory(ctx context.Context, userID, id int64) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = ? AND user_id = ?`
	return scanCategory(s.q.QueryRowContext(ctx, query, id, userID))
}

func (s *Store) ListCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE user_id = ? AND active = 1 ORDER BY name ASC, id ASC`, userID)
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
	err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE user_id = ? AND active = 1`, userID).Scan(&n)
	return n, err
}
