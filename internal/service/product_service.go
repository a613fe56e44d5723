package service

import (
	"context"
	"errors"
	"fmt"

	"foboh/internal/dto"
	"foboh/internal/repository"
)

// ProductService is the read-only catalog surface.
type ProductService interface {
	List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error)
	Get(ctx context.Context, id string) (*dto.ProductResponse, error)
	Facets(ctx context.Context) (*dto.CatalogFacets, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) ([]dto.ProductResponse, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	resp := make([]dto.ProductResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	return resp, nil
}

func (s *productService) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	resp := toProductResponse(*p)
	return &resp, nil
}

func (s *productService) Facets(ctx context.Context) (*dto.CatalogFacets, error) {
	f, err := s.repo.Facets(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog facets: %w", err)
	}
	return &f, nil
}
