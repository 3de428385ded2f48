package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"tally-server/src/db"
	"tally-server/src/models"
)

type CategoryService struct {
	store Store
	cache *db.QueryCache
}

func NewCategoryService(store Store, cache *db.QueryCache) *CategoryService {
	return &CategoryService{store: store, cache: cache}
}

// List returns the caller's active categories ordered by name.
func (s *CategoryService) List(ctx context.Context, p models.Principal) ([]models.Category, error) {
	return db.Cached(s.cache, s.cache.Key(p.UserID, "categories"), func() ([]models.Category, error) {
		categories, err := s.store.ListCategories(ctx, p.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to list categories: %w", err)
		}
		return categories, nil
	})
}

func (s *CategoryService) GetByID(ctx context.Context, p models.Principal, id int64) (*models.Category, error) {
	return categoryFor(ctx, s.store, p.UserID, id)
}

func (s *CategoryService) Create(ctx context.Context, p models.Principal, req models.CategoryCreateRequest) (*models.Category, error) {
	c := &models.Category{
		UserID:      p.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
	}
	if c.Color == "" {
		c.Color = models.DefaultCategoryColor
	}
	if c.Icon == "" {
		c.Icon = models.DefaultCategoryIcon
	}

	created, err := s.store.CreateCategory(ctx, c)
	if errors.Is(err, models.ErrDuplicateRecord) {
		return nil, BusinessRule("Category with name '%s' already exists", c.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	s.cache.Invalidate(p.UserID)
	log.Printf("INFO: Created category id %d for user %d", created.ID, p.UserID)
	return created, nil
}

// IsValidCategoryForUser reports whether categoryID is an active category
// owned by the caller.
func (s *CategoryService) IsValidCategoryForUser(ctx context.Context, p models.Principal, categoryID int64) (bool, error) {
	c, err := s.store.GetCategory(ctx, p.UserID, categoryID)
	if errors.Is(err, models.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load category %d: %w", categoryID, err)
	}
	return c.Active, nil
}

// seedDefaultCategories gives a new user the standard category set.
func seedDefaultCategories(ctx context.Context, tx Store, userID int64) error {
	for _, def := range models.DefaultCategories {
		c := def
		c.UserID = userID
		c.IsDefault = true
		if _, err := tx.CreateCategory(ctx, &c); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", def.Name, err)
		}
	}
	return nil
}
