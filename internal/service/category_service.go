package service

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"github.com/gaubong-next/internal/models"
	"github.com/gaubong-next/internal/repository"
)

// CreateCategoryInput 创建/更新分类载荷
type CreateCategoryInput struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	ParentID  *uint  `json:"parent_id,omitempty"`
	SortOrder int    `json:"sort_order"`
}

// CategoryService 商品分类管理
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// List 全部分类
func (s *CategoryService) List() ([]models.Category, error) {
	return s.categoryRepo.List()
}

// Get 分类详情
func (s *CategoryService) Get(id uint) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

// Create 创建分类
func (s *CategoryService) Create(input *CreateCategoryInput) (*models.Category, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}
	categorySlug, err := s.resolveSlug(input.Slug, input.Name, nil)
	if err != nil {
		return nil, err
	}
	category := &models.Category{
		Name:      strings.TrimSpace(input.Name),
		Slug:      categorySlug,
		ParentID:  input.ParentID,
		SortOrder: input.SortOrder,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update 更新分类
func (s *CategoryService) Update(id uint, input *CreateCategoryInput) (*models.Category, error) {
	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(input); err != nil {
		return nil, err
	}
	if input.Slug != "" {
		categorySlug, err := s.resolveSlug(input.Slug, input.Name, &id)
		if err != nil {
			return nil, err
		}
		category.Slug = categorySlug
	}
	category.Name = strings.TrimSpace(input.Name)
	category.ParentID = input.ParentID
	category.SortOrder = input.SortOrder
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 软删除分类
func (s *CategoryService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(id)
}

func (s *CategoryService) validate(input *CreateCategoryInput) error {
	ve := newValidationError()
	if strings.TrimSpace(input.Name) == "" {
		ve.add("name", "must not be empty")
	}
	return ve.orNil()
}

func (s *CategoryService) resolveSlug(raw, name string, excludeID *uint) (string, error) {
	base := slug.Make(strings.TrimSpace(raw))
	if base == "" {
		base = slug.Make(name)
	}
	if base == "" {
		base = "category"
	}
	candidate := base
	for i := 2; ; i++ {
		count, err := s.categoryRepo.CountBySlug(candidate, excludeID)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
