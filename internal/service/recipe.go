package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/types"
)

// RecipeCache holds the decoded recipe list between writes. Implementations must be
// safe for concurrent use.
type RecipeCache interface {
	GetList(ctx context.Context) ([]types.Recipe, bool, error)
	// Generation returns a counter that every Invalidate advances.
	Generation(ctx context.Context) (int64, error)
	// SetList stores recipes only while the generation still equals gen and reports
	// whether it did.
	SetList(ctx context.Context, gen int64, recipes []types.Recipe) (bool, error)
	Invalidate(ctx context.Context) error
}

// RecipeService handles recipe operations. It is the only place where the encoded
// ingredient and instruction columns are read or written.
type RecipeService struct {
	db    *gorm.DB
	cache RecipeCache
}

// NewRecipeService creates a new RecipeService instance. cache may be nil.
func NewRecipeService(db *gorm.DB, cache RecipeCache) *RecipeService {
	return &RecipeService{
		db:    db,
		cache: cache,
	}
}

// List returns every recipe ordered by id. The generation is read before the query so
// a list read ahead of a concurrent write is never stored after that write's
// invalidation.
func (s *RecipeService) List(ctx context.Context) ([]types.Recipe, error) {
	var (
		gen       int64
		cacheable bool
	)
	if s.cache != nil {
		cached, ok, err := s.cache.GetList(ctx)
		if err != nil {
			log.Printf("[RecipeService] cache read failed, falling back to database: %v", err)
		} else if ok {
			return cached, nil
		}

		if gen, err = s.cache.Generation(ctx); err != nil {
			log.Printf("[RecipeService] cache generation read failed, skipping fill: %v", err)
		} else {
			cacheable = true
		}
	}

	var rows []models.Recipe
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w: %w", ErrStorage, err)
	}

	recipes := make([]types.Recipe, len(rows))
	for i := range rows {
		recipes[i] = rows[i].ToType()
	}

	if cacheable {
		if _, err := s.cache.SetList(ctx, gen, recipes); err != nil {
			log.Printf("[RecipeService] cache write failed: %v", err)
		}
	}
	return recipes, nil
}

// Get retrieves a recipe by ID
func (s *RecipeService) Get(ctx context.Context, id uint) (*types.Recipe, error) {
	var row models.Recipe
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("get recipe %d: %w: %w", id, ErrStorage, err)
	}
	recipe := row.ToType()
	return &recipe, nil
}

// Create inserts a new recipe. image is nil when no photo was uploaded.
func (s *RecipeService) Create(ctx context.Context, fields types.RecipeFields, image *string) (*types.Recipe, error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	row := models.NewRecipe(fields, image)
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("create recipe: %w: %w", ErrStorage, err)
	}
	s.invalidate(ctx)

	recipe := row.ToType()
	return &recipe, nil
}

// Update overwrites the editable fields of a recipe. The stored image is replaced
// only when newImage is non-nil; otherwise the existing path is kept.
func (s *RecipeService) Update(ctx context.Context, id uint, fields types.RecipeFields, newImage *string) error {
	if err := validateFields(fields); err != nil {
		return err
	}

	updates := map[string]interface{}{
		"title":        fields.Title,
		"description":  fields.Description,
		"ingredients":  models.IngredientList(fields.Ingredients),
		"instructions": models.StepList(fields.Instructions),
	}
	if newImage != nil {
		updates["image"] = *newImage
	}

	result := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update recipe %d: %w: %w", id, ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes a recipe. There is no ownership check.
func (s *RecipeService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete recipe %d: %w: %w", id, ErrStorage, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	s.invalidate(ctx)
	return nil
}

func (s *RecipeService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("[RecipeService] cache invalidation failed: %v", err)
	}
}

func validateFields(fields types.RecipeFields) error {
	if strings.TrimSpace(fields.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidRecipe)
	}
	if strings.TrimSpace(fields.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidRecipe)
	}
	return nil
}
