package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"kriya/internal/models"
	"kriya/internal/repositories"
	"kriya/pkg/storage"

	"github.com/go-playground/validator/v10"
)

// MaxProductImages caps the number of image files accepted per request.
const MaxProductImages = 5

// ProductService handles the product lifecycle: input validation, image
// upload and ordering, ownership-based authorization, and the image reorder
// operation.
type ProductService struct {
	repo     repositories.ProductRepository
	store    storage.Storage
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, store storage.Storage) *ProductService {
	return &ProductService{
		repo:     repo,
		store:    store,
		validate: validator.New(),
	}
}

// CreateProductInput is the payload for product creation. Price is a
// pointer so a missing field is distinguishable from a zero price.
type CreateProductInput struct {
	Name        string                  `validate:"required,max=100"`
	Description string                  `validate:"required,max=2000"`
	Price       *float64                `validate:"required,gte=0"`
	CategoryID  string                  `validate:"required"`
	Stock       int                     `validate:"gte=0"`
	Materials   string
	Images      []*multipart.FileHeader `validate:"max=5"`
}

// UpdateProductInput carries partial changes; nil fields are left untouched.
// A non-empty Images slice replaces the product's image sequence entirely.
type UpdateProductInput struct {
	Name        *string                 `validate:"omitempty,max=100"`
	Description *string                 `validate:"omitempty,max=2000"`
	Price       *float64                `validate:"omitempty,gte=0"`
	CategoryID  *string
	Stock       *int                    `validate:"omitempty,gte=0"`
	Materials   *string
	Images      []*multipart.FileHeader `validate:"max=5"`
}

// CreateProduct validates the input, uploads the images in order and
// persists a new product owned by the caller. An upload failure aborts the
// whole operation; no product record is written.
func (s *ProductService) CreateProduct(ctx context.Context, caller *models.User, input CreateProductInput) (*models.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	images, err := s.uploadImages(ctx, input.Images)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       *input.Price,
		CategoryID:  input.CategoryID,
		Stock:       input.Stock,
		Materials:   input.Materials,
		ArtisanID:   caller.ID,
		Images:      images,
	}

	if err := s.repo.Create(product); err != nil {
		return nil, err
	}

	// Reload so category and artisan are resolved for the response.
	return s.repo.GetByID(product.ID)
}

// GetProducts lists products, optionally filtered by a text search and/or a
// category, newest first.
func (s *ProductService) GetProducts(search, categoryID string) ([]models.Product, error) {
	return s.repo.GetAll(search, categoryID)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// UpdateProduct applies a partial update to a product owned by the caller
// (admins may update any product). Supplying new image files replaces the
// entire image sequence with the fresh uploads, in upload order.
func (s *ProductService) UpdateProduct(ctx context.Context, caller *models.User, id string, input UpdateProductInput) (*models.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !canMutate(caller, product) {
		return nil, fmt.Errorf("%w to update this product", ErrForbidden)
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Materials != nil {
		product.Materials = *input.Materials
	}

	if len(input.Images) > 0 {
		images, err := s.uploadImages(ctx, input.Images)
		if err != nil {
			return nil, err
		}
		product.Images = images // replaced wholesale, never merged
	}

	// Re-run field validation on the updated record.
	if err := s.validate.Struct(product); err != nil {
		return nil, validationError(err)
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// DeleteProduct removes a product owned by the caller (admins may delete any
// product). Stored images are removed best effort.
func (s *ProductService) DeleteProduct(ctx context.Context, caller *models.User, id string) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if !canMutate(caller, product) {
		return fmt.Errorf("%w to delete this product", ErrForbidden)
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	for _, ref := range product.Images {
		if err := s.store.Remove(ctx, ref); err != nil {
			log.Printf("Failed to remove image %s for deleted product %s: %v", ref, id, err)
		}
	}
	return nil
}

// ReorderImages moves the image at primaryImageIndex to the front of the
// product's image sequence, preserving the relative order of the rest. An
// out-of-range index or an empty sequence is a silent no-op. This operation
// is restricted to the owning artisan; admins are not granted an override.
func (s *ProductService) ReorderImages(caller *models.User, id string, primaryImageIndex int) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product.ArtisanID != caller.ID {
		return nil, fmt.Errorf("%w to update this product", ErrForbidden)
	}

	if len(product.Images) > 0 && primaryImageIndex >= 0 && primaryImageIndex < len(product.Images) {
		images := append([]string(nil), product.Images...)
		primary := images[primaryImageIndex]
		rest := append(images[:primaryImageIndex], images[primaryImageIndex+1:]...)
		product.Images = append([]string{primary}, rest...)
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// uploadImages stores each file in upload order and returns their retrieval
// references. The first failure aborts and surfaces to the caller.
func (s *ProductService) uploadImages(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	refs := make([]string, 0, len(files))
	for _, file := range files {
		ref, err := s.store.Save(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("failed to store image %s: %w", file.Filename, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// canMutate implements the ownership check: the owning artisan or an admin.
func canMutate(caller *models.User, product *models.Product) bool {
	return product.ArtisanID == caller.ID || caller.Role == models.RoleAdmin
}

// CategorySummary is the display-friendly category reference on product
// responses.
type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ArtisanSummary is the display-friendly artisan reference on product
// responses.
type ArtisanSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProductResponse is the wire representation of a product with its category
// and artisan resolved to summaries.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Category    CategorySummary `json:"category"`
	Stock       int             `json:"stock"`
	Materials   string          `json:"materials"`
	Images      []string        `json:"images"`
	Artisan     ArtisanSummary  `json:"artisan"`
	CreatedAt   time.Time       `json:"created_at"`
}

// NewProductResponse builds a ProductResponse from a product with preloaded
// category and artisan associations.
func NewProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    CategorySummary{ID: p.Category.ID, Name: p.Category.Name},
		Stock:       p.Stock,
		Materials:   p.Materials,
		Images:      append([]string{}, p.Images...),
		Artisan:     ArtisanSummary{ID: p.Artisan.ID, Name: p.Artisan.Name, Email: p.Artisan.Email},
		CreatedAt:   p.CreatedAt,
	}
}

// NewProductResponses maps a product slice to responses.
func NewProductResponses(products []models.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, NewProductResponse(&products[i]))
	}
	return responses
}
