package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"repair-server/internal/config"
	"repair-server/internal/domain"
	"repair-server/internal/models"
	"repair-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Моки сервисов для проверки HTTP-контракта ---

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, input service.RegisterInput) (*models.User, error) {
	args := m.Called(ctx, input)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}
func (m *mockAuthService) Login(ctx context.Context, cred service.Credential) (*models.TokenDetails, error) {
	args := m.Called(ctx, cred)
	td, _ := args.Get(0).(*models.TokenDetails)
	return td, args.Error(1)
}
func (m *mockAuthService) Logout(ctx context.Context, accessUUID, refreshToken string) error {
	args := m.Called(ctx, accessUUID, refreshToken)
	return args.Error(0)
}
func (m *mockAuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.Claims, error) {
	args := m.Called(ctx, tokenString)
	claims, _ := args.Get(0).(*domain.Claims)
	return claims, args.Error(1)
}

type mockRequestService struct {
	mock.Mock
}

func (m *mockRequestService) List(ctx context.Context, callerID uuid.UUID, role models.Role) ([]models.Request, error) {
	args := m.Called(ctx, callerID, role)
	requests, _ := args.Get(0).([]models.Request)
	return requests, args.Error(1)
}
func (m *mockRequestService) Create(ctx context.Context, callerID uuid.UUID, role models.Role, input service.RequestInput) (*models.Request, error) {
	args := m.Called(ctx, callerID, role, input)
	req, _ := args.Get(0).(*models.Request)
	return req, args.Error(1)
}
func (m *mockRequestService) Get(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	args := m.Called(ctx, id)
	req, _ := args.Get(0).(*models.Request)
	return req, args.Error(1)
}
func (m *mockRequestService) Update(ctx context.Context, callerID uuid.UUID, role models.Role, id uuid.UUID, input service.RequestInput) (*models.Request, error) {
	args := m.Called(ctx, callerID, role, id, input)
	req, _ := args.Get(0).(*models.Request)
	return req, args.Error(1)
}
func (m *mockRequestService) Delete(ctx context.Context, role models.Role, id uuid.UUID) error {
	args := m.Called(ctx, role, id)
	return args.Error(0)
}
func (m *mockRequestService) FilterByCustomer(ctx context.Context, username string) ([]models.Request, error) {
	args := m.Called(ctx, username)
	requests, _ := args.Get(0).([]models.Request)
	return requests, args.Error(1)
}
func (m *mockRequestService) FilterByProblem(ctx context.Context, problem string) ([]models.Request, error) {
	args := m.Called(ctx, problem)
	requests, _ := args.Get(0).([]models.Request)
	return requests, args.Error(1)
}
func (m *mockRequestService) FilterByStatusAndModel(ctx context.Context, status models.RequestStatus, phoneModel string) ([]models.Request, error) {
	args := m.Called(ctx, status, phoneModel)
	requests, _ := args.Get(0).([]models.Request)
	return requests, args.Error(1)
}

type mockInvoiceService struct {
	mock.Mock
}

func (m *mockInvoiceService) List(ctx context.Context) ([]models.Invoice, error) {
	args := m.Called(ctx)
	invoices, _ := args.Get(0).([]models.Invoice)
	return invoices, args.Error(1)
}
func (m *mockInvoiceService) Create(ctx context.Context, input service.InvoiceInput) (*models.Invoice, error) {
	args := m.Called(ctx, input)
	inv, _ := args.Get(0).(*models.Invoice)
	return inv, args.Error(1)
}
func (m *mockInvoiceService) Get(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*models.Invoice)
	return inv, args.Error(1)
}
func (m *mockInvoiceService) Update(ctx context.Context, id uuid.UUID, input service.InvoiceInput) (*models.Invoice, error) {
	args := m.Called(ctx, id, input)
	inv, _ := args.Get(0).(*models.Invoice)
	return inv, args.Error(1)
}
func (m *mockInvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *mockInvoiceService) BillingsForCustomer(ctx context.Context, username string) ([]models.Invoice, error) {
	args := m.Called(ctx, username)
	invoices, _ := args.Get(0).([]models.Invoice)
	return invoices, args.Error(1)
}
func (m *mockInvoiceService) BillingsForOwner(ctx context.Context, customerID uuid.UUID) ([]models.Invoice, error) {
	args := m.Called(ctx, customerID)
	invoices, _ := args.Get(0).([]models.Invoice)
	return invoices, args.Error(1)
}

// --- Вспомогательные функции ---

func setupTestRouter(auth *mockAuthService, requests *mockRequestService, invoices *mockInvoiceService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHandler(auth, requests, invoices, &config.Config{})
	h.RegisterRoutes(router, nil)
	return router
}

// stubBearer делает так, чтобы токен token проходил AuthMiddleware с нужной ролью.
func stubBearer(auth *mockAuthService, token string, userID uuid.UUID, role models.Role) {
	auth.On("VerifyAccessToken", mock.Anything, token).Return(&domain.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID: uuid.NewString(),
		},
	}, nil)
}

func doJSON(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// --- Тесты проводного контракта ---

// Бизнес-отказы отвечают HTTP 200 с полем "Attention"; формулировки являются
// частью контракта и не должны меняться.
func TestAdvisoryRefusals(t *testing.T) {
	t.Run("editing a paid invoice", func(t *testing.T) {
		auth := new(mockAuthService)
		requests := new(mockRequestService)
		invoices := new(mockInvoiceService)
		router := setupTestRouter(auth, requests, invoices)

		masterID := uuid.New()
		stubBearer(auth, "master-token", masterID, models.RoleMaster)

		invoiceID := uuid.New()
		requestID := uuid.New()
		invoices.On("Update", mock.Anything, invoiceID, mock.Anything).
			Return(nil, models.ErrInvoicePaid)

		w := doJSON(router, http.MethodPut, "/billing/"+invoiceID.String()+"/", "master-token",
			`{"price": 9999, "request": "`+requestID.String()+`", "status": "UNPAID"}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"Attention": "Invoice was not paid\n Decline!"}`, w.Body.String())
		invoices.AssertExpectations(t)
	})

	t.Run("customer deleting a request under repair", func(t *testing.T) {
		auth := new(mockAuthService)
		requests := new(mockRequestService)
		invoices := new(mockInvoiceService)
		router := setupTestRouter(auth, requests, invoices)

		customerID := uuid.New()
		stubBearer(auth, "customer-token", customerID, models.RoleCustomer)

		requestID := uuid.New()
		requests.On("Delete", mock.Anything, models.RoleCustomer, requestID).
			Return(models.ErrRequestUnderRepair)

		w := doJSON(router, http.MethodDelete, "/cabinet/"+requestID.String()+"/", "customer-token", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"Attention": "Non completed request cannot be remove!"}`, w.Body.String())
		requests.AssertExpectations(t)
	})

	t.Run("finished request deletion is a plain 204", func(t *testing.T) {
		auth := new(mockAuthService)
		requests := new(mockRequestService)
		invoices := new(mockInvoiceService)
		router := setupTestRouter(auth, requests, invoices)

		customerID := uuid.New()
		stubBearer(auth, "customer-token", customerID, models.RoleCustomer)

		requestID := uuid.New()
		requests.On("Delete", mock.Anything, models.RoleCustomer, requestID).Return(nil)

		w := doJSON(router, http.MethodDelete, "/cabinet/"+requestID.String()+"/", "customer-token", "")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

// Провалы валидации при регистрации отдаются как 403, а не 400.
func TestRegistrationValidationStatus(t *testing.T) {
	testCases := []struct {
		name       string
		serviceErr error
	}{
		{name: "duplicate customer", serviceErr: models.ErrCustomerAlreadyExists},
		{name: "duplicate username", serviceErr: models.ErrUserAlreadyExists},
		{name: "invalid phone number", serviceErr: models.ErrInvalidPhoneNumber},
		{name: "missing credentials", serviceErr: models.ErrMissingCredentials},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			auth := new(mockAuthService)
			router := setupTestRouter(auth, new(mockRequestService), new(mockInvoiceService))

			auth.On("Register", mock.Anything, mock.Anything).Return(nil, tc.serviceErr)

			w := doJSON(router, http.MethodPost, "/registration/", "",
				`{"username": "Bob", "phone_number": "+380992228811", "password": "123456"}`)

			require.Equal(t, http.StatusForbidden, w.Code)

			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, models.ErrCodeValidation, resp.Code)
			assert.Equal(t, tc.serviceErr.Error(), resp.Message)
		})
	}
}

// Маршруты со статическими сегментами соседствуют с параметрическими
// (/cabinet/billings/ рядом с /cabinet/:id/) — регистрация не должна падать.
func TestRouteRegistration(t *testing.T) {
	auth := new(mockAuthService)
	requests := new(mockRequestService)
	invoices := new(mockInvoiceService)

	require.NotPanics(t, func() {
		setupTestRouter(auth, requests, invoices)
	})

	router := setupTestRouter(auth, requests, invoices)
	customerID := uuid.New()
	stubBearer(auth, "customer-token", customerID, models.RoleCustomer)
	invoices.On("BillingsForOwner", mock.Anything, customerID).Return([]models.Invoice{}, nil)

	// billings не должен быть перехвачен параметром :id
	w := doJSON(router, http.MethodGet, "/cabinet/billings/", "customer-token", "")
	assert.Equal(t, http.StatusOK, w.Code)
	invoices.AssertExpectations(t)
}
