package fulfillment

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"vendora/internal/model"
	"vendora/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID, filter repository.OrderFilter) ([]model.Order, error) {
	args := m.Called(ctx, vendorID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) MarkShipped(ctx context.Context, id uuid.UUID, trackingNumber, packageImageURL string) (bool, error) {
	args := m.Called(ctx, id, trackingNumber, packageImageURL)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) MarkRefunded(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	args := m.Called(ctx, id, reason)
	return args.Bool(0), args.Error(1)
}

// MockUploader is a mock implementation of storage.Uploader.
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, key, contentType, body)
	return args.String(0), args.Error(1)
}

// MockRefunder is a mock implementation of payment.Refunder.
type MockRefunder struct {
	mock.Mock
}

func (m *MockRefunder) Refund(ctx context.Context, paymentIntentID, reason string) error {
	args := m.Called(ctx, paymentIntentID, reason)
	return args.Error(0)
}

func processingOrder() *model.Order {
	intentID := "pi_12345"
	return &model.Order{
		ID:              uuid.New(),
		VendorID:        uuid.New(),
		CustomerID:      uuid.New(),
		Amount:          100,
		Status:          model.PaymentSucceeded,
		DeliveryStatus:  model.DeliveryProcessing,
		PaymentIntentID: &intentID,
		CreatedAt:       time.Now(),
	}
}

func newTestService(orders *MockOrderRepository, uploader *MockUploader, refunder *MockRefunder) Service {
	return NewService(orders, uploader, refunder, zerolog.Nop())
}

func validPhoto() *Photo {
	return &Photo{
		Content:     strings.NewReader("jpeg bytes"),
		ContentType: "image/jpeg",
		Filename:    "package.jpg",
	}
}

func TestSubmitShipment_Success(t *testing.T) {
	ctx := context.Background()
	order := processingOrder()

	mockOrders := new(MockOrderRepository)
	mockUploader := new(MockUploader)
	mockRefunder := new(MockRefunder)
	service := newTestService(mockOrders, mockUploader, mockRefunder)

	mockOrders.On("GetByID", ctx, order.ID).Return(order, nil)
	mockUploader.On("Upload", ctx, mock.AnythingOfType("string"), "image/jpeg", mock.Anything).
		Return("https://bucket.s3.us-east-1.amazonaws.com/packages/photo.jpg", nil)
	mockOrders.On("MarkShipped", ctx, order.ID, "1Z999", "https://bucket.s3.us-east-1.amazonaws.com/packages/photo.jpg").
		Return(true, nil)

	updated, err := service.SubmitShipment(ctx, order.ID, "1Z999", validPhoto())

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, model.DeliveryShipped, updated.DeliveryStatus)
	require.NotNil(t, updated.TrackingNumber)
	assert.Equal(t, "1Z999", *updated.TrackingNumber)
	require.NotNil(t, updated.PackageImageURL)
	assert.NotEmpty(t, *updated.PackageImageURL)

	mockOrders.AssertExpectations(t)
	mockUploader.AssertExpectations(t)
}

func TestSubmitShipment_BlankTrackingNumber(t *testing.T) {
	ctx := context.Background()

	mockOrders := new(MockOrderRepository)
	mockUploader := new(MockUploader)
	service := newTestService(mockOrders, mockUploader, new(MockRefunder))

	for _, tracking := range []string{"", "   "} {
		updated, err := service.SubmitShipment(ctx, uuid.New(), tracking, validPhoto())

		assert.ErrorIs(t, err, model.ErrMissingTrackingNumber)
		assert.Nil(t, updated)
	}

	// No reads, uploads, or writes happen on validation failure.
	mockOrders.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	mockOrders.AssertNotCalled(t, "MarkShipped", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockUploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitShipment_MissingPhoto(t *testing.T) {
	ctx := context.Background()

	mockOrders := new(MockOrderRepository)
	mockUploader := new(MockUploader)
	service := newTestService(mockOrders, mockUploader, new(MockRefunder))

	updated, err := service.SubmitShipment(ctx, uuid.New(), "1Z999", nil)

	assert.ErrorIs(t, err, model.ErrMissingPackagePhoto)
	assert.Nil(t, updated)
	mockOrders.AssertNotCalled(t, "MarkShipped", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockUploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitShipment_RejectsOrdersNotInProcessing(t *testing.T) {
	ctx := context.Background()

	for _, status := range []model.DeliveryStatus{
		model.DeliveryShipped,
		model.DeliveryDelivered,
		model.DeliveryFailed,
	} {
		t.Run(string(status), func(t *testing.T) {
			order := processingOrder()
			order.DeliveryStatus = status

			mockOrders := new(MockOrderRepository)
			mockUploader := new(MockUploader)
			service := newTestService(mockOrders, mockUploader, new(MockRefunder))

			mockOrders.On("GetByID", ctx, order.ID).Return(order, nil)

			updated, err := service.SubmitShipment(ctx, order.ID, "1Z999", validPhoto())

			assert.ErrorIs(t, err, model.ErrInvalidState)
			assert.Nil(t, updated)
			mockOrders.AssertNotCalled(t, "MarkShipped", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			mockUploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitShipment_UploadFailureLeavesOrderUntouched(t *testing.T) {
	ctx := context.Background()
	order := processingOrder()

	mockOrders := new(MockOrderRepository)
	mockUploader := new(MockUploader)
	service := newTestService(mockOrders, mockUploader, new(MockRefunder))

	mockOrders.On("GetByID", ctx, order.ID).Return(order, nil)
	mockUploader.On("Upload", ctx, mock.AnythingOfType("string"), "image/jpeg", mock.Anything).
		Return("", errors.New("bucket unavailable"))

	updated, err := service.SubmitShipment(ctx, order.ID, "1Z999", validPhoto())

	assert.ErrorIs(t, err, model.ErrUploadFailed)
	assert.Nil(t, updated)
	mockOrders.AssertNotCalled(t, "MarkShipped", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitShipment_PersistenceFailureAfterUpload(t *testing.T) {
	ctx := context.Background()
	order := processingOrder()

	mockOrders := new(MockOrderRepository)
	mockUploader := new(MockUploader)
	service := newTestService(mockOrders, mockUploader, new(MockRefunder))

	mockOrders.On("GetByID", ctx, order.ID).Return(order, nil)
	mockUploader.On("Upload", ctx, mock.AnythingOfType("string"), "image/jpeg", mock.Anything).
		Return("https://bucket.s3.us-east-1.amazonaws.com/packages/photo.jpg", nil)
	mockOrders.On("MarkShipped", ctx, order.ID, "1Z999", mock.AnythingOfType("string")).
		Return(false, errors.New("connection reset"))

	updated, err := service.SubmitShipment(ctx, order.ID, "1Z999", validPhoto())

	assert.ErrorIs(t, err, model.ErrPersistenceFailed)
	assert.Nil(t, updated)
}

func TestSubmitShipment_LostRaceTreatedAsInvalidState(t *testing.T) {
	ctx := context.Background()
	order := processingOrder()

	mockOrders := new(MockOrderRepository)
	mockUploader := new(MockUploader)
	service := newTestService(mockOrders, mockUploader, new(MockRefunder))

	mockOrders.On("GetByID", ctx, order.ID).Return(order, nil)
	mockUploader.On("Upload", ctx, mock.AnythingOfType("string"), "image/jpeg", mock.Anything).
		Return("https://bucket.s3.us-east-1.amazonaws.com/packages/photo.jpg", nil)
	mockOrders.On("MarkShipped", ctx, order.ID, "1Z999", mock.AnythingOfType("string")).
		Return(false, nil)

	_, err := service.SubmitShipment(ctx, order.ID, "1Z999", validPhoto())

	assert.ErrorIs(t, err, model.ErrInvalidState)
}

func TestBeginShipment(t *testing.T) {
	ctx := context.Background()
	order := processingOrder()

	mockOrders := new(MockOrderRepository)
	service := newTestService(mockOrders, new(MockUploader), new(MockRefunder))

	mockOrders.On("GetByID", ctx, order.ID).Return(order, nil)

	session, err := service.BeginShipment(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, order.ID, session.OrderID)
	assert.False(t, session.StartedAt.IsZero())
}

func TestBeginShipment_InvalidState(t *testing.T) {
	ctx := context.Background()
	order := processingOrder()
	order.DeliveryStatus = model.DeliveryShipped

	mockOrders := new(MockOrderRepository)
	service := newTestService(mockOrders, new(MockUploader), new(MockRefunder))

	mockOrders.On("GetByID", ctx, order.ID).Return(order, nil)

	session, err := service.BeginShipment(ctx, order.ID)
	assert.ErrorIs(t, err, model.ErrInvalidState)
	assert.Nil(t, session)
}

func TestBeginShipment_NotFound(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()

	mockOrders := new(MockOrderRepository)
	service := newTestService(mockOrders, new(MockUploader), new(MockRefunder))

	mockOrders.On("GetByID", ctx, orderID).Return(nil, nil)

	_, err := service.BeginShipment(ctx, orderID)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestRequestRefund_Success(t *testing.T) {
	ctx := context.Background()
	order := processingOrder()

	mockOrders := new(MockOrderRepository)
	mockRefunder := new(MockRefunder)
	service := newTestService(mockOrders, new(MockUploader), mockRefunder)

	mockOrders.On("GetByID", ctx, order.ID).Return(order, nil)
	mockRefunder.On("Refund", ctx, "pi_12345", "damaged in transit").Return(nil)
	mockOrders.On("MarkRefunded", ctx, order.ID, "damaged in transit").Return(true, nil)

	updated, err := service.RequestRefund(ctx, order.ID, "damaged in transit")

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, model.PaymentCancelled, updated.Status)
	assert.Equal(t, model.DeliveryFailed, updated.DeliveryStatus)
	assert.True(t, updated.Refunded())
	require.NotNil(t, updated.RefundReason)
	assert.Equal(t, "damaged in transit", *updated.RefundReason)

	mockOrders.AssertExpectations(t)
	mockRefunder.AssertExpectations(t)
}

func TestRequestRefund_BlankReason(t *testing.T) {
	ctx := context.Background()

	mockOrders := new(MockOrderRepository)
	mockRefunder := new(MockRefunder)
	service := newTestService(mockOrders, new(MockUploader), mockRefunder)

	_, err := service.RequestRefund(ctx, uuid.New(), "  ")

	assert.ErrorIs(t, err, model.ErrMissingRefundReason)
	mockRefunder.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything)
	mockOrders.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestRefund_MissingPaymentReference(t *testing.T) {
	ctx := context.Background()
	order := processingOrder()
	order.PaymentIntentID = nil

	mockOrders := new(MockOrderRepository)
	mockRefunder := new(MockRefunder)
	service := newTestService(mockOrders, new(MockUploader), mockRefunder)

	mockOrders.On("GetByID", ctx, order.ID).Return(order, nil)

	updated, err := service.RequestRefund(ctx, order.ID, "changed my mind")

	assert.ErrorIs(t, err, model.ErrMissingPaymentReference)
	assert.Nil(t, updated)
	mockRefunder.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything)
	mockOrders.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestRefund_ShippedOrderRejected(t *testing.T) {
	ctx := context.Background()
	order := processingOrder()
	order.DeliveryStatus = model.DeliveryShipped

	mockOrders := new(MockOrderRepository)
	mockRefunder := new(MockRefunder)
	service := newTestService(mockOrders, new(MockUploader), mockRefunder)

	mockOrders.On("GetByID", ctx, order.ID).Return(order, nil)

	_, err := service.RequestRefund(ctx, order.ID, "too late")

	assert.ErrorIs(t, err, model.ErrInvalidState)
	mockRefunder.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestRefund_ProviderFailure(t *testing.T) {
	ctx := context.Background()
	order := processingOrder()

	mockOrders := new(MockOrderRepository)
	mockRefunder := new(MockRefunder)
	service := newTestService(mockOrders, new(MockUploader), mockRefunder)

	mockOrders.On("GetByID", ctx, order.ID).Return(order, nil)
	mockRefunder.On("Refund", ctx, "pi_12345", "damaged").Return(errors.New("provider down"))

	_, err := service.RequestRefund(ctx, order.ID, "damaged")

	require.Error(t, err)
	mockOrders.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything, mock.Anything)
}

func TestTrackingNumber(t *testing.T) {
	service := newTestService(new(MockOrderRepository), new(MockUploader), new(MockRefunder))

	tracking := "1Z999AA10123456784"
	order := &model.Order{TrackingNumber: &tracking}
	assert.Equal(t, tracking, service.TrackingNumber(order))

	assert.Equal(t, "not available", service.TrackingNumber(&model.Order{}))
	assert.Equal(t, "not available", service.TrackingNumber(nil))

	empty := ""
	assert.Equal(t, "not available", service.TrackingNumber(&model.Order{TrackingNumber: &empty}))
}
