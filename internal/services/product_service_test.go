package services_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"testing"

	"kriya/internal/models"
	"kriya/internal/repositories"
	"kriya/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// fakeStorage records saves and removals in memory. Setting failOn makes the
// save of that filename fail.
type fakeStorage struct {
	saved   []string
	removed []string
	failOn  string
}

func (f *fakeStorage) Save(_ context.Context, file *multipart.FileHeader) (string, error) {
	if f.failOn != "" && file.Filename == f.failOn {
		return "", fmt.Errorf("storage unavailable")
	}
	ref := "/uploads/" + file.Filename
	f.saved = append(f.saved, ref)
	return ref, nil
}

func (f *fakeStorage) Remove(_ context.Context, ref string) error {
	f.removed = append(f.removed, ref)
	return nil
}

// makeImageFiles builds real multipart file headers the way Fiber hands them
// to the service.
func makeImageFiles(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		part, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["images"]
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func newProductFixture(t *testing.T, repo *repositories.MockProductRepository, artisanID string, images ...string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        "Woven Basket",
		Description: "Hand woven rattan basket",
		Price:       45.0,
		CategoryID:  "cat-1",
		Stock:       3,
		ArtisanID:   artisanID,
		Images:      datatypes.JSONSlice[string](images),
	}
	require.NoError(t, repo.Create(product))
	return product
}

func TestProductService_CreateProduct(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	store := &fakeStorage{}
	service := services.NewProductService(repo, store)
	artisan := &models.User{ID: "artisan-1", Role: models.RoleArtisan}

	input := services.CreateProductInput{
		Name:        "Clay Vase",
		Description: "Hand thrown terracotta vase",
		Price:       floatPtr(30.0),
		CategoryID:  "cat-1",
		Stock:       5,
		Materials:   "terracotta",
		Images:      makeImageFiles(t, "a.jpg", "b.jpg", "c.jpg"),
	}

	product, err := service.CreateProduct(context.Background(), artisan, input)
	assert.NoError(t, err)
	assert.Equal(t, "artisan-1", product.ArtisanID)
	// Upload order is the stored order.
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg", "/uploads/c.jpg"}, []string(product.Images))
	assert.Equal(t, store.saved, []string(product.Images))
}

func TestProductService_CreateProduct_NoImages(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, &fakeStorage{})
	artisan := &models.User{ID: "artisan-1", Role: models.RoleArtisan}

	product, err := service.CreateProduct(context.Background(), artisan, services.CreateProductInput{
		Name:        "Clay Vase",
		Description: "Hand thrown terracotta vase",
		Price:       floatPtr(30.0),
		CategoryID:  "cat-1",
	})
	assert.NoError(t, err)
	assert.Empty(t, product.Images)
}

func TestProductService_CreateProduct_TooManyImages(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, &fakeStorage{})
	artisan := &models.User{ID: "artisan-1", Role: models.RoleArtisan}

	_, err := service.CreateProduct(context.Background(), artisan, services.CreateProductInput{
		Name:        "Clay Vase",
		Description: "Hand thrown terracotta vase",
		Price:       floatPtr(30.0),
		CategoryID:  "cat-1",
		Images:      makeImageFiles(t, "1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "6.jpg"),
	})
	assert.ErrorIs(t, err, services.ErrValidation)

	count, _ := repo.Count()
	assert.Zero(t, count)
}

func TestProductService_CreateProduct_MissingPrice(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, &fakeStorage{})
	artisan := &models.User{ID: "artisan-1", Role: models.RoleArtisan}

	_, err := service.CreateProduct(context.Background(), artisan, services.CreateProductInput{
		Name:        "Clay Vase",
		Description: "Hand thrown terracotta vase",
		CategoryID:  "cat-1",
	})
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Contains(t, err.Error(), "price")
}

func TestProductService_CreateProduct_UploadFailureAborts(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	store := &fakeStorage{failOn: "b.jpg"}
	service := services.NewProductService(repo, store)
	artisan := &models.User{ID: "artisan-1", Role: models.RoleArtisan}

	_, err := service.CreateProduct(context.Background(), artisan, services.CreateProductInput{
		Name:        "Clay Vase",
		Description: "Hand thrown terracotta vase",
		Price:       floatPtr(30.0),
		CategoryID:  "cat-1",
		Images:      makeImageFiles(t, "a.jpg", "b.jpg", "c.jpg"),
	})
	assert.Error(t, err)

	// No product record is written when an upload fails.
	count, _ := repo.Count()
	assert.Zero(t, count)
}

func TestProductService_UpdateProduct(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, &fakeStorage{})
	owner := &models.User{ID: "artisan-1", Role: models.RoleArtisan}
	product := newProductFixture(t, repo, owner.ID, "/uploads/a.jpg")

	updated, err := service.UpdateProduct(context.Background(), owner, product.ID, services.UpdateProductInput{
		Name:  strPtr("Woven Basket XL"),
		Stock: intPtr(10),
	})
	assert.NoError(t, err)
	assert.Equal(t, "Woven Basket XL", updated.Name)
	assert.Equal(t, 10, updated.Stock)
	// Untouched fields survive a partial update.
	assert.Equal(t, 45.0, updated.Price)
	assert.Equal(t, []string{"/uploads/a.jpg"}, []string(updated.Images))
}

func TestProductService_UpdateProduct_ReplacesImages(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	store := &fakeStorage{}
	service := services.NewProductService(repo, store)
	owner := &models.User{ID: "artisan-1", Role: models.RoleArtisan}
	product := newProductFixture(t, repo, owner.ID, "/uploads/old1.jpg", "/uploads/old2.jpg")

	updated, err := service.UpdateProduct(context.Background(), owner, product.ID, services.UpdateProductInput{
		Images: makeImageFiles(t, "new1.jpg", "new2.jpg"),
	})
	assert.NoError(t, err)
	// The sequence is replaced wholesale, never merged.
	assert.Equal(t, []string{"/uploads/new1.jpg", "/uploads/new2.jpg"}, []string(updated.Images))
}

func TestProductService_UpdateProduct_Authorization(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, &fakeStorage{})
	owner := &models.User{ID: "artisan-1", Role: models.RoleArtisan}
	stranger := &models.User{ID: "artisan-2", Role: models.RoleArtisan}
	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	product := newProductFixture(t, repo, owner.ID)

	_, err := service.UpdateProduct(context.Background(), stranger, product.ID, services.UpdateProductInput{Name: strPtr("Taken Over")})
	assert.ErrorIs(t, err, services.ErrForbidden)

	updated, err := service.UpdateProduct(context.Background(), admin, product.ID, services.UpdateProductInput{Name: strPtr("Moderated Name")})
	assert.NoError(t, err)
	assert.Equal(t, "Moderated Name", updated.Name)
}

func TestProductService_DeleteProduct(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	store := &fakeStorage{}
	service := services.NewProductService(repo, store)
	owner := &models.User{ID: "artisan-1", Role: models.RoleArtisan}
	stranger := &models.User{ID: "artisan-2", Role: models.RoleArtisan}
	product := newProductFixture(t, repo, owner.ID, "/uploads/a.jpg", "/uploads/b.jpg")

	err := service.DeleteProduct(context.Background(), stranger, product.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	err = service.DeleteProduct(context.Background(), owner, product.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg"}, store.removed)

	_, err = service.GetProductByID(product.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestProductService_ReorderImages(t *testing.T) {
	owner := &models.User{ID: "artisan-1", Role: models.RoleArtisan}

	tests := []struct {
		name   string
		images []string
		index  int
		want   []string
	}{
		{
			name:   "middle image becomes primary",
			images: []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"},
			index:  2,
			want:   []string{"c.jpg", "a.jpg", "b.jpg", "d.jpg"},
		},
		{
			name:   "last image becomes primary",
			images: []string{"a.jpg", "b.jpg", "c.jpg"},
			index:  2,
			want:   []string{"c.jpg", "a.jpg", "b.jpg"},
		},
		{
			name:   "index zero keeps order",
			images: []string{"a.jpg", "b.jpg"},
			index:  0,
			want:   []string{"a.jpg", "b.jpg"},
		},
		{
			name:   "out of range index keeps order",
			images: []string{"a.jpg", "b.jpg"},
			index:  5,
			want:   []string{"a.jpg", "b.jpg"},
		},
		{
			name:   "negative index keeps order",
			images: []string{"a.jpg", "b.jpg"},
			index:  -1,
			want:   []string{"a.jpg", "b.jpg"},
		},
		{
			name:   "empty sequence keeps order",
			images: nil,
			index:  0,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repositories.NewMockProductRepository()
			service := services.NewProductService(repo, &fakeStorage{})
			product := newProductFixture(t, repo, owner.ID, tt.images...)

			reordered, err := service.ReorderImages(owner, product.ID, tt.index)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, []string(reordered.Images))

			// The new order is persisted, not just returned.
			persisted, err := service.GetProductByID(product.ID)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, []string(persisted.Images))
		})
	}
}

func TestProductService_ReorderImages_OwnerOnly(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, &fakeStorage{})
	owner := &models.User{ID: "artisan-1", Role: models.RoleArtisan}
	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	product := newProductFixture(t, repo, owner.ID, "a.jpg", "b.jpg")

	// Reordering is a curation decision of the owning artisan; even admins
	// are rejected.
	_, err := service.ReorderImages(admin, product.ID, 1)
	assert.ErrorIs(t, err, services.ErrForbidden)

	persisted, err := service.GetProductByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, []string(persisted.Images))
}

func TestProductService_ReorderImages_NotFound(t *testing.T) {
	repo := repositories.NewMockProductRepository()
	service := services.NewProductService(repo, &fakeStorage{})
	owner := &models.User{ID: "artisan-1", Role: models.RoleArtisan}

	_, err := service.ReorderImages(owner, "missing", 0)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func intPtr(v int) *int { return &v }
