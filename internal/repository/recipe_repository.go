package repository

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/Lixing-Zhang/foodgram/backend/internal/models"
)

// RecipeFilter narrows a recipe listing. Viewer-relative filters are
// ignored when ViewerID is zero.
type RecipeFilter struct {
	AuthorID    *uint
	TagSlugs    []string
	ViewerID    uint
	IsFavorited *bool
	IsInCart    *bool
}

// RecipeRepository defines the interface for recipe data access
type RecipeRepository interface {
	List(ctx context.Context, filter RecipeFilter, offset, limit int) ([]models.Recipe, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id uint) error
	ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error)
	CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
}

// GormRecipeRepository implements RecipeRepository on top of gorm
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new recipe repository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// List returns a page of recipes matching filter, newest first, and the total match count
func (r *GormRecipeRepository) List(ctx context.Context, filter RecipeFilter, offset, limit int) ([]models.Recipe, int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Scopes(r.filterScopes(filter)...).
		Count(&count).Error
	if err != nil {
		return nil, 0, err
	}

	recipes := make([]models.Recipe, 0)
	err = r.db.WithContext(ctx).
		Scopes(r.filterScopes(filter)...).
		Scopes(withDetails, newestFirst, paginate(offset, limit)).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	for i := range recipes {
		normalize(&recipes[i])
	}
	return recipes, count, nil
}

// GetByID returns a recipe with its author, tags and line items
func (r *GormRecipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).Scopes(withDetails).First(&recipe, id).Error; err != nil {
		return nil, translate(err, ErrRecipeNotFound)
	}
	normalize(&recipe)
	return &recipe, nil
}

func (r *GormRecipeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the recipe with its line items and tag links.
// Tags must carry existing ids; tag rows are never written.
func (r *GormRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Author", "Tags.*").Create(recipe).Error
	})
}

// Update rewrites the recipe fields and replaces its line items and tags
func (r *GormRecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
			"name":         recipe.Name,
			"image":        recipe.Image,
			"text":         recipe.Text,
			"cooking_time": recipe.CookingTime,
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRecipeNotFound
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range recipe.Ingredients {
			recipe.Ingredients[i].ID = 0
			recipe.Ingredients[i].RecipeID = recipe.ID
		}
		if len(recipe.Ingredients) > 0 {
			if err := tx.Omit("Ingredient").Create(&recipe.Ingredients).Error; err != nil {
				return err
			}
		}

		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipe.ID).Error; err != nil {
			return err
		}
		if len(recipe.Tags) > 0 {
			links := make([]map[string]interface{}, 0, len(recipe.Tags))
			for _, tag := range recipe.Tags {
				links = append(links, map[string]interface{}{"recipe_id": recipe.ID, "tag_id": tag.ID})
			}
			if err := tx.Table("recipe_tags").Create(&links).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the recipe together with everything that references it
func (r *GormRecipeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.RecipeIngredient{},
			&models.Favorite{},
			&models.ShoppingListRecipe{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Recipe{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrRecipeNotFound
		}
		return nil
	})
}

// ListByAuthor returns the author's newest recipes; a negative limit returns all of them
func (r *GormRecipeRepository) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	recipes := make([]models.Recipe, 0)
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Scopes(newestFirst, paginate(0, limit)).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountByAuthors returns the number of recipes per author id
func (r *GormRecipeRepository) CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

func (r *GormRecipeRepository) filterScopes(f RecipeFilter) []func(*gorm.DB) *gorm.DB {
	var scopes []func(*gorm.DB) *gorm.DB

	if f.AuthorID != nil {
		authorID := *f.AuthorID
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("recipes.author_id = ?", authorID)
		})
	}

	if len(f.TagSlugs) > 0 {
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("recipes.id IN (?)", tagged)
		})
	}

	if f.ViewerID != 0 && f.IsFavorited != nil {
		favorited := r.db.Model(&models.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", f.ViewerID)
		scopes = append(scopes, membership(favorited, *f.IsFavorited))
	}

	if f.ViewerID != 0 && f.IsInCart != nil {
		inCart := r.db.Model(&models.ShoppingListRecipe{}).
			Select("shopping_list_recipes.recipe_id").
			Joins("JOIN shopping_lists ON shopping_lists.id = shopping_list_recipes.shopping_list_id").
			Where("shopping_lists.user_id = ?", f.ViewerID)
		scopes = append(scopes, membership(inCart, *f.IsInCart))
	}

	return scopes
}

func membership(subquery *gorm.DB, member bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if member {
			return db.Where("recipes.id IN (?)", subquery)
		}
		return db.Where("recipes.id NOT IN (?)", subquery)
	}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Tags").Preload("Ingredients.Ingredient")
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("recipes.pub_date DESC").Order("recipes.id DESC")
}

// normalize orders tags by name and line items by insertion
func normalize(recipe *models.Recipe) {
	sort.Slice(recipe.Tags, func(i, j int) bool {
		return recipe.Tags[i].Name < recipe.Tags[j].Name
	})
	sort.Slice(recipe.Ingredients, func(i, j int) bool {
		return recipe.Ingredients[i].ID < recipe.Ingredients[j].ID
	})
}
