package services_test

import (
	"testing"

	"kriya/internal/models"
	"kriya/internal/repositories"
	"kriya/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_GetDashboardStats(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository()
	service := services.NewAdminService(userRepo, productRepo, orderRepo)

	require.NoError(t, userRepo.Create(&models.User{Name: "Buyer", Email: "b@example.com"}))
	require.NoError(t, userRepo.Create(&models.User{Name: "Artisan", Email: "a@example.com"}))
	require.NoError(t, productRepo.Create(&models.Product{Name: "Basket", CategoryID: "cat-1"}))
	require.NoError(t, orderRepo.Create(&models.Order{UserID: "u1", TotalAmount: 100, Status: models.OrderStatusDelivered}))
	require.NoError(t, orderRepo.Create(&models.Order{UserID: "u2", TotalAmount: 40, Status: models.OrderStatusPending}))
	require.NoError(t, orderRepo.Create(&models.Order{UserID: "u3", TotalAmount: 25, Status: models.OrderStatusCancelled}))

	stats, err := service.GetDashboardStats()
	assert.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, int64(3), stats.TotalOrders)
	// Cancelled orders do not count towards revenue.
	assert.Equal(t, 140.0, stats.TotalRevenue)
}

func TestAdminService_DeleteUser(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	service := services.NewAdminService(userRepo, repositories.NewMockProductRepository(), repositories.NewMockOrderRepository())

	user := &models.User{Name: "Buyer", Email: "b@example.com"}
	require.NoError(t, userRepo.Create(user))

	assert.NoError(t, service.DeleteUser(user.ID))

	err := service.DeleteUser(user.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
