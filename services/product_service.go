package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/WideDream/sto-mana/models"
	"github.com/WideDream/sto-mana/utils"
	"gorm.io/gorm"
)

// ProductInput carries raw catalog form values.
type ProductInput struct {
	Name  string
	Unit  string
	Price string
	Stock string
}

// ProductService manages the product catalog.
type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	product, err := buildProduct(in)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("create product %q: %w", product.Name, translate(err))
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context, search string) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Order("name ASC")
	if search = strings.TrimSpace(search); search != "" {
		q = q.Where("name LIKE ?"+likeEscape, likePattern(search))
	}
	products := []models.Product{}
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, fmt.Errorf("product %d: %w", id, translate(err))
	}
	return &product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	changes, err := buildProduct(in)
	if err != nil {
		return nil, err
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Name = changes.Name
	product.Unit = changes.Unit
	product.Price = changes.Price
	product.Stock = changes.Stock

	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, translate(err))
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return nil
}

func buildProduct(in ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	return &models.Product{
		Name:  name,
		Unit:  strings.TrimSpace(in.Unit),
		Price: utils.ParseAmount(in.Price),
		Stock: utils.ParseAmount(in.Stock),
	}, nil
}
