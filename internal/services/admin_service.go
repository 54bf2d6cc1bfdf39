package services

import (
	"kriya/internal/models"
	"kriya/internal/repositories"
)

// AdminService aggregates the admin panel's read and management operations.
type AdminService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(userRepo repositories.UserRepository, productRepo repositories.ProductRepository, orderRepo repositories.OrderRepository) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// DashboardStats summarizes the marketplace for the admin dashboard.
type DashboardStats struct {
	TotalUsers    int64   `json:"total_users"`
	TotalProducts int64   `json:"total_products"`
	TotalOrders   int64   `json:"total_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
}

// GetDashboardStats returns entity counts and the revenue over all
// non-cancelled orders.
func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	users, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.Count()
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.Count()
	if err != nil {
		return nil, err
	}

	var revenue float64
	allOrders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, err
	}
	for _, order := range allOrders {
		if order.Status != models.OrderStatusCancelled {
			revenue += order.TotalAmount
		}
	}

	return &DashboardStats{
		TotalUsers:    users,
		TotalProducts: products,
		TotalOrders:   orders,
		TotalRevenue:  revenue,
	}, nil
}

// GetAllUsers retrieves all users, newest first.
func (s *AdminService) GetAllUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

// DeleteUser removes a user account.
func (s *AdminService) DeleteUser(id string) error {
	return s.userRepo.Delete(id)
}
