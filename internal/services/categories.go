package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mrlokans/fintrack/internal/apiclient"
	"github.com/mrlokans/fintrack/internal/entities"
)

// CategoryExistsMessage is the backend's duplicate-name answer, shown verbatim.
const CategoryExistsMessage = "Category already exists"

var (
	ErrCategoryExists       = errors.New("category already exists")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrInvalidCategoryType  = errors.New("category type must be expense or income")
)

// CategoryService wraps the /categories endpoints.
type CategoryService struct {
	client *apiclient.Client
}

func NewCategoryService(client *apiclient.Client) *CategoryService {
	return &CategoryService{client: client}
}

// List returns all categories of the current user.
func (s *CategoryService) List(ctx context.Context) ([]entities.Category, error) {
	categories, err := apiclient.Get[[]entities.Category](ctx, s.client, "/categories")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Create adds a category. Names are unique per user across both types and
// compared case-insensitively; a collision returns ErrCategoryExists without
// sending the create request.
func (s *CategoryService) Create(ctx context.Context, in entities.CategoryInput) (*entities.Category, error) {
	in, err := normalizeCategoryInput(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if FindCategoryByName(existing, in.Name, 0) != nil {
		return nil, ErrCategoryExists
	}

	var resp struct {
		entities.Category
		Message string `json:"message"`
	}
	if err := s.client.Do(ctx, http.MethodPost, "/categories", in, &resp); err != nil {
		if isCategoryExists(err) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	if resp.Message == CategoryExistsMessage {
		return nil, ErrCategoryExists
	}
	if resp.ID == 0 {
		return nil, fmt.Errorf("failed to create category: unexpected response %q", resp.Message)
	}

	category := resp.Category
	return &category, nil
}

// Update renames or retypes a category, rejecting names taken by another one.
func (s *CategoryService) Update(ctx context.Context, id uint, in entities.CategoryInput) (*entities.Category, error) {
	in, err := normalizeCategoryInput(in)
	if err != nil {
		return nil, err
	}

	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if FindCategoryByName(existing, in.Name, id) != nil {
		return nil, ErrCategoryExists
	}

	category, err := apiclient.Put[entities.Category](ctx, s.client, fmt.Sprintf("/categories/%d", id), in)
	if err != nil {
		if isCategoryExists(err) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to update category %d: %w", id, err)
	}
	return &category, nil
}

// Delete removes a category and returns the backend's confirmation message.
func (s *CategoryService) Delete(ctx context.Context, id uint) (string, error) {
	resp, err := apiclient.Delete[struct {
		Message string `json:"message"`
	}](ctx, s.client, fmt.Sprintf("/categories/%d", id))
	if err != nil {
		return "", fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	return resp.Message, nil
}

// FindCategoryByName returns the category whose name matches name ignoring
// case and surrounding space, skipping the category with id exclude.
func FindCategoryByName(categories []entities.Category, name string, exclude uint) *entities.Category {
	name = strings.TrimSpace(name)
	for i := range categories {
		if categories[i].ID == exclude && exclude != 0 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(categories[i].Name), name) {
			return &categories[i]
		}
	}
	return nil
}

// SplitCategories separates expense and income categories, keeping order.
func SplitCategories(categories []entities.Category) (expense, income []entities.Category) {
	for _, c := range categories {
		switch c.Type {
		case entities.CategoryTypeIncome:
			income = append(income, c)
		default:
			expense = append(expense, c)
		}
	}
	return expense, income
}

func normalizeCategoryInput(in entities.CategoryInput) (entities.CategoryInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, ErrCategoryNameRequired
	}
	if !in.Type.Valid() {
		return in, ErrInvalidCategoryType
	}
	return in, nil
}

func isCategoryExists(err error) bool {
	var apiErr *apiclient.APIError
	return errors.As(err, &apiErr) && apiErr.Message == CategoryExistsMessage
}
