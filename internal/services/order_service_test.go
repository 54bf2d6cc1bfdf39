package services_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"kriya/internal/models"
	"kriya/internal/repositories"
	"kriya/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures published events; failing makes every publish
// error.
type recordingPublisher struct {
	bodies  [][]byte
	failing bool
}

func (p *recordingPublisher) Publish(exchange, routingKey string, body []byte) error {
	if p.failing {
		return fmt.Errorf("broker unavailable")
	}
	p.bodies = append(p.bodies, body)
	return nil
}

func orderServiceFixture(t *testing.T, events services.EventPublisher) (*services.OrderService, *repositories.MockProductRepository) {
	t.Helper()
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository()

	require.NoError(t, productRepo.Create(&models.Product{
		ID:          "prod-1",
		Name:        "Woven Basket",
		Description: "Hand woven rattan basket",
		Price:       45.0,
		CategoryID:  "cat-1",
		Stock:       10,
		ArtisanID:   "artisan-1",
	}))
	require.NoError(t, productRepo.Create(&models.Product{
		ID:          "prod-2",
		Name:        "Clay Vase",
		Description: "Hand thrown terracotta vase",
		Price:       30.0,
		CategoryID:  "cat-1",
		Stock:       2,
		ArtisanID:   "artisan-1",
	}))

	return services.NewOrderService(orderRepo, productRepo, events), productRepo
}

func TestOrderService_CreateOrder(t *testing.T) {
	events := &recordingPublisher{}
	service, _ := orderServiceFixture(t, events)
	buyer := &models.User{ID: "buyer-1", Role: models.RoleBuyer}

	order, err := service.CreateOrder(buyer, services.CreateOrderInput{
		Items: []services.OrderItemInput{
			{ProductID: "prod-1", Quantity: 2},
			{ProductID: "prod-2", Quantity: 1},
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "buyer-1", order.UserID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	// Items are priced at the current product price.
	assert.Equal(t, 45.0*2+30.0, order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 45.0, order.Items[0].Price)

	// One order.created event was published.
	require.Len(t, events.bodies, 1)
	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(events.bodies[0], &event))
	assert.Equal(t, order.ID, event["orderID"])
	assert.Equal(t, "buyer-1", event["userID"])
}

func TestOrderService_CreateOrder_InsufficientStock(t *testing.T) {
	service, _ := orderServiceFixture(t, nil)
	buyer := &models.User{ID: "buyer-1", Role: models.RoleBuyer}

	_, err := service.CreateOrder(buyer, services.CreateOrderInput{
		Items: []services.OrderItemInput{{ProductID: "prod-2", Quantity: 5}},
	})
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Contains(t, err.Error(), "insufficient stock")
}

func TestOrderService_CreateOrder_UnknownProduct(t *testing.T) {
	service, _ := orderServiceFixture(t, nil)
	buyer := &models.User{ID: "buyer-1", Role: models.RoleBuyer}

	_, err := service.CreateOrder(buyer, services.CreateOrderInput{
		Items: []services.OrderItemInput{{ProductID: "missing", Quantity: 1}},
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderService_CreateOrder_Validation(t *testing.T) {
	service, _ := orderServiceFixture(t, nil)
	buyer := &models.User{ID: "buyer-1", Role: models.RoleBuyer}

	_, err := service.CreateOrder(buyer, services.CreateOrderInput{})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = service.CreateOrder(buyer, services.CreateOrderInput{
		Items: []services.OrderItemInput{{ProductID: "prod-1", Quantity: 0}},
	})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestOrderService_CreateOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	service, _ := orderServiceFixture(t, &recordingPublisher{failing: true})
	buyer := &models.User{ID: "buyer-1", Role: models.RoleBuyer}

	order, err := service.CreateOrder(buyer, services.CreateOrderInput{
		Items: []services.OrderItemInput{{ProductID: "prod-1", Quantity: 1}},
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, order.ID)
}

func TestOrderService_GetUserOrders(t *testing.T) {
	service, _ := orderServiceFixture(t, nil)
	buyer := &models.User{ID: "buyer-1", Role: models.RoleBuyer}
	other := &models.User{ID: "buyer-2", Role: models.RoleBuyer}

	_, err := service.CreateOrder(buyer, services.CreateOrderInput{
		Items: []services.OrderItemInput{{ProductID: "prod-1", Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = service.CreateOrder(other, services.CreateOrderInput{
		Items: []services.OrderItemInput{{ProductID: "prod-2", Quantity: 1}},
	})
	require.NoError(t, err)

	orders, err := service.GetUserOrders("buyer-1")
	assert.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "buyer-1", orders[0].UserID)

	all, err := service.GetAllOrders()
	assert.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	service, _ := orderServiceFixture(t, nil)
	buyer := &models.User{ID: "buyer-1", Role: models.RoleBuyer}

	order, err := service.CreateOrder(buyer, services.CreateOrderInput{
		Items: []services.OrderItemInput{{ProductID: "prod-1", Quantity: 1}},
	})
	require.NoError(t, err)

	assert.NoError(t, service.UpdateOrderStatus(order.ID, models.OrderStatusShipped))

	err = service.UpdateOrderStatus(order.ID, "teleported")
	assert.ErrorIs(t, err, services.ErrValidation)

	err = service.UpdateOrderStatus("missing", models.OrderStatusShipped)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
