package services

import (
	"encoding/json"
	"fmt"
	"log"

	"kriya/internal/models"
	"kriya/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// EventPublisher publishes domain events to the message broker. A nil
// publisher disables events; publish failures are logged and swallowed.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	events      EventPublisher
	validate    *validator.Validate
}

// NewOrderService creates a new OrderService. events may be nil.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, events EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		events:      events,
		validate:    validator.New(),
	}
}

// OrderItemInput is a single requested line item.
type OrderItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderInput is the payload for order creation.
type CreateOrderInput struct {
	Items []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// CreateOrder validates the requested items against the catalog, prices them
// at their current product price, persists the order and publishes an
// order.created event (best effort).
func (s *OrderService) CreateOrder(caller *models.User, input CreateOrderInput) (*models.Order, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	var totalAmount float64
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}

		if product.Stock < item.Quantity {
			return nil, fmt.Errorf("%w: insufficient stock for product %s (requested: %d, available: %d)",
				ErrValidation, product.Name, item.Quantity, product.Stock)
		}

		// Price at the time of order creation
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		totalAmount += product.Price * float64(item.Quantity)
	}

	newOrder := &models.Order{
		UserID:      caller.ID,
		Items:       items,
		TotalAmount: totalAmount,
		Status:      models.OrderStatusPending,
	}

	if err := s.orderRepo.Create(newOrder); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishOrderCreated(newOrder)

	return newOrder, nil
}

// GetUserOrders retrieves the caller's orders, newest first.
func (s *OrderService) GetUserOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// GetAllOrders retrieves all orders (admin).
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// UpdateOrderStatus updates the status of an existing order.
func (s *OrderService) UpdateOrderStatus(id string, status string) error {
	validStatuses := map[string]bool{
		models.OrderStatusPending:    true,
		models.OrderStatusProcessing: true,
		models.OrderStatusShipped:    true,
		models.OrderStatusDelivered:  true,
		models.OrderStatusCancelled:  true,
	}
	if !validStatuses[status] {
		return fmt.Errorf("%w: invalid order status: %s", ErrValidation, status)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return err
	}
	return nil
}

// publishOrderCreated emits an order.created event. Publishing is a
// non-critical side effect; failures are logged and swallowed.
func (s *OrderService) publishOrderCreated(order *models.Order) {
	if s.events == nil {
		return
	}

	event := map[string]interface{}{
		"orderID": order.ID,
		"userID":  order.UserID,
		"status":  order.Status,
		"total":   order.TotalAmount,
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal order event to JSON: %v", err)
		return
	}
	if err := s.events.Publish("", "order_events", body); err != nil {
		log.Printf("Warning: Failed to publish order created event for order %s: %v", order.ID, err)
	}
}
