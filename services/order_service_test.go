package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"orders-service/models"
	"orders-service/repository"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) FindPage(ctx context.Context, offset, limit int64) ([]models.Order, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) UpdateByID(ctx context.Context, id string, fields map[string]interface{}) (*models.Order, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPublisher) PublishStatusChanged(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPublisher) Close() {
	m.Called()
}

func validCreateRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		UserID:       "user-1",
		RestaurantID: "rest-1",
		Items: []models.OrderItem{
			{Name: "Pizza Margherita", Quantity: 2, Price: 12.5},
			{Name: "Limonada", Quantity: 3, Price: 3.0},
		},
		DeliveryAddress: "Calle Falsa 123",
	}
}

func TestCreate_ComputesTotalAndDefaults(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockPub := new(MockPublisher)
	svc := NewOrderService(mockRepo, mockPub)

	var wg sync.WaitGroup
	wg.Add(1)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Order")).
		Return(nil).
		Run(func(args mock.Arguments) {
			order := args.Get(1).(*models.Order)
			assert.Equal(t, models.StatusPending, order.Status)
			assert.Equal(t, 34.0, order.TotalAmount)
			assert.Equal(t, "user-1", order.UserID)
			assert.Equal(t, "rest-1", order.RestaurantID)
			assert.False(t, order.CreatedAt.IsZero())
			assert.Equal(t, order.CreatedAt, order.UpdatedAt)
			assert.Nil(t, order.DeliveryPersonID)
		})

	mockPub.On("PublishOrderCreated", mock.Anything, mock.AnythingOfType("*models.Order")).
		Return(nil).
		Run(func(mock.Arguments) { wg.Done() })

	order, serviceErr := svc.Create(context.Background(), validCreateRequest())

	assert.Nil(t, serviceErr)
	assert.NotNil(t, order)
	assert.Equal(t, 34.0, order.TotalAmount)

	wg.Wait()
	mockRepo.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestCreate_MissingFieldsCheckedBeforeItemsShape(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := NewOrderService(mockRepo, nil)

	cases := []struct {
		name   string
		mutate func(*CreateOrderRequest)
	}{
		{"missing userId", func(r *CreateOrderRequest) { r.UserID = "" }},
		{"missing restaurantId", func(r *CreateOrderRequest) { r.RestaurantID = "" }},
		{"missing items", func(r *CreateOrderRequest) { r.Items = nil }},
		{"missing deliveryAddress", func(r *CreateOrderRequest) { r.DeliveryAddress = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(req)

			order, serviceErr := svc.Create(context.Background(), req)

			assert.Nil(t, order)
			assert.NotNil(t, serviceErr)
			assert.Equal(t, http.StatusBadRequest, serviceErr.StatusCode)
			assert.Equal(t, MsgMissingFields, serviceErr.Message)
		})
	}

	// A request missing both userId and items fails on the required
	// fields, not on the items shape.
	req := validCreateRequest()
	req.UserID = ""
	req.Items = nil
	_, serviceErr := svc.Create(context.Background(), req)
	assert.Equal(t, MsgMissingFields, serviceErr.Message)

	mockRepo.AssertNotCalled(t, "Create")
}

func TestCreate_EmptyItemsPersistsNothing(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := NewOrderService(mockRepo, nil)

	req := validCreateRequest()
	req.Items = []models.OrderItem{}

	order, serviceErr := svc.Create(context.Background(), req)

	assert.Nil(t, order)
	assert.NotNil(t, serviceErr)
	assert.Equal(t, http.StatusBadRequest, serviceErr.StatusCode)
	assert.Equal(t, MsgItemsNotArray, serviceErr.Message)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestCreate_PersistenceFailureHidesStoreError(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := NewOrderService(mockRepo, nil)

	mockRepo.On("Create", mock.Anything, mock.Anything).
		Return(errors.New("connection refused to mongo:27017"))

	order, serviceErr := svc.Create(context.Background(), validCreateRequest())

	assert.Nil(t, order)
	assert.Equal(t, http.StatusInternalServerError, serviceErr.StatusCode)
	assert.Equal(t, MsgInternalError, serviceErr.Message)
	assert.NotContains(t, serviceErr.Message, "mongo:27017")
}

func TestList_ComputesOffsetAndPages(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := NewOrderService(mockRepo, nil)

	mockRepo.On("FindPage", mock.Anything, int64(5), int64(5)).
		Return([]models.Order{{UserID: "u"}}, int64(12), nil)

	result, serviceErr := svc.List(context.Background(), 2, 5)

	assert.Nil(t, serviceErr)
	assert.Equal(t, 2, result.Pagination.Page)
	assert.Equal(t, 5, result.Pagination.Limit)
	assert.Equal(t, int64(12), result.Pagination.Total)
	assert.Equal(t, int64(3), result.Pagination.Pages)
	mockRepo.AssertExpectations(t)
}

func TestList_DefaultsPageAndLimit(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := NewOrderService(mockRepo, nil)

	mockRepo.On("FindPage", mock.Anything, int64(0), int64(10)).
		Return([]models.Order{}, int64(0), nil)

	result, serviceErr := svc.List(context.Background(), 0, -3)

	assert.Nil(t, serviceErr)
	assert.Equal(t, 1, result.Pagination.Page)
	assert.Equal(t, 10, result.Pagination.Limit)
	assert.Equal(t, int64(0), result.Pagination.Pages)
}

func TestGet_NotFound(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := NewOrderService(mockRepo, nil)

	mockRepo.On("FindByID", mock.Anything, "missing").
		Return(nil, repository.ErrOrderNotFound)

	order, serviceErr := svc.Get(context.Background(), "missing")

	assert.Nil(t, order)
	assert.Equal(t, http.StatusNotFound, serviceErr.StatusCode)
	assert.Equal(t, MsgOrderNotFound, serviceErr.Message)
}

func TestUpdateStatus_RejectsMissingAndInvalidStatus(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := NewOrderService(mockRepo, nil)

	_, serviceErr := svc.UpdateStatus(context.Background(), "id", &UpdateStatusRequest{})
	assert.Equal(t, http.StatusBadRequest, serviceErr.StatusCode)
	assert.Equal(t, MsgStatusRequired, serviceErr.Message)

	_, serviceErr = svc.UpdateStatus(context.Background(), "id", &UpdateStatusRequest{Status: "not_a_real_state"})
	assert.Equal(t, http.StatusBadRequest, serviceErr.StatusCode)
	for _, valid := range models.ValidStatuses {
		assert.True(t, strings.Contains(serviceErr.Message, valid),
			"error message should enumerate %q", valid)
	}

	mockRepo.AssertNotCalled(t, "UpdateByID")
}

func TestUpdateStatus_NotFoundOnUnknownID(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	svc := NewOrderService(mockRepo, nil)

	mockRepo.On("UpdateByID", mock.Anything, "ghost", mock.Anything).
		Return(nil, repository.ErrOrderNotFound)

	order, serviceErr := svc.UpdateStatus(context.Background(), "ghost", &UpdateStatusRequest{Status: models.StatusDelivered})

	assert.Nil(t, order)
	assert.Equal(t, http.StatusNotFound, serviceErr.StatusCode)
	assert.Equal(t, MsgOrderNotFound, serviceErr.Message)
}

func TestUpdateStatus_DeliveryPersonOnlyWhenSupplied(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	mockPub := new(MockPublisher)
	svc := NewOrderService(mockRepo, mockPub)

	updated := &models.Order{ID: primitive.NewObjectID(), Status: models.StatusOnDelivery}

	var wg sync.WaitGroup
	wg.Add(2)

	mockRepo.On("UpdateByID", mock.Anything, "abc", mock.MatchedBy(func(fields map[string]interface{}) bool {
		_, hasDP := fields["deliveryPersonId"]
		return fields["status"] == models.StatusOnDelivery && !hasDP
	})).Return(updated, nil).Once()

	mockPub.On("PublishStatusChanged", mock.Anything, updated).
		Return(nil).
		Run(func(mock.Arguments) { wg.Done() })

	_, serviceErr := svc.UpdateStatus(context.Background(), "abc", &UpdateStatusRequest{Status: models.StatusOnDelivery})
	assert.Nil(t, serviceErr)

	driver := "driver-9"
	mockRepo.On("UpdateByID", mock.Anything, "abc", mock.MatchedBy(func(fields map[string]interface{}) bool {
		return fields["deliveryPersonId"] == "driver-9"
	})).Return(updated, nil).Once()

	_, serviceErr = svc.UpdateStatus(context.Background(), "abc", &UpdateStatusRequest{
		Status:           models.StatusOnDelivery,
		DeliveryPersonID: &driver,
	})
	assert.Nil(t, serviceErr)

	wg.Wait()
	mockRepo.AssertExpectations(t)
}

func TestCancel_SetsCancelledAndRefreshesUpdatedAt(t *testing.T) {
	repo := repository.NewMemoryOrderRepository()
	svc := NewOrderService(repo, nil)

	order, serviceErr := svc.Create(context.Background(), validCreateRequest())
	assert.Nil(t, serviceErr)

	createdUpdatedAt := order.UpdatedAt
	time.Sleep(2 * time.Millisecond)

	cancelled, serviceErr := svc.Cancel(context.Background(), order.ID.Hex())

	assert.Nil(t, serviceErr)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.True(t, cancelled.UpdatedAt.After(createdUpdatedAt),
		"updatedAt must strictly increase on cancel")
}

func TestList_NewestFirstThroughMemoryRepository(t *testing.T) {
	repo := repository.NewMemoryOrderRepository()
	svc := NewOrderService(repo, nil)

	names := []string{"A", "B", "C"}
	for _, name := range names {
		req := validCreateRequest()
		req.UserID = name
		_, serviceErr := svc.Create(context.Background(), req)
		assert.Nil(t, serviceErr)
		time.Sleep(2 * time.Millisecond)
	}

	result, serviceErr := svc.List(context.Background(), 1, 10)

	assert.Nil(t, serviceErr)
	assert.Len(t, result.Orders, 3)
	assert.Equal(t, "C", result.Orders[0].UserID)
	assert.Equal(t, "B", result.Orders[1].UserID)
	assert.Equal(t, "A", result.Orders[2].UserID)
}
