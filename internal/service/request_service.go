package service

import (
	"context"
	"fmt"
	"strings"

	"repair-server/internal/models"
	"repair-server/internal/policy"
	"repair-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestInput carries the mutable fields of a repair request.
type RequestInput struct {
	PhoneModel         string
	ProblemDescription string
	// CustomerID is honored only for masters; customers always get their own ID.
	CustomerID *uuid.UUID
	// Status is honored only on update. Empty means "keep the current status".
	Status models.RequestStatus
}

// RequestService implements the repair request use cases. Every operation
// receives the caller's identity and role so ownership scoping can be applied.
type RequestService interface {
	List(ctx context.Context, callerID uuid.UUID, role models.Role) ([]models.Request, error)
	Create(ctx context.Context, callerID uuid.UUID, role models.Role, input RequestInput) (*models.Request, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Request, error)
	Update(ctx context.Context, callerID uuid.UUID, role models.Role, id uuid.UUID, input RequestInput) (*models.Request, error)
	Delete(ctx context.Context, role models.Role, id uuid.UUID) error
	FilterByCustomer(ctx context.Context, username string) ([]models.Request, error)
	FilterByProblem(ctx context.Context, problem string) ([]models.Request, error)
	FilterByStatusAndModel(ctx context.Context, status models.RequestStatus, phoneModel string) ([]models.Request, error)
}

// Compile-time check to ensure requestServiceImpl implements RequestService
var _ RequestService = (*requestServiceImpl)(nil)

type requestServiceImpl struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
	logger      *zap.Logger
}

// NewRequestService creates a new instance of requestServiceImpl.
func NewRequestService(requestRepo repository.RequestRepository, userRepo repository.UserRepository, logger *zap.Logger) RequestService {
	return &requestServiceImpl{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		logger:      logger.Named("RequestService"),
	}
}

// List returns the caller's requests. Customers see only their own requests,
// masters see everything.
func (s *requestServiceImpl) List(ctx context.Context, callerID uuid.UUID, role models.Role) ([]models.Request, error) {
	filters := models.RequestFilters{}
	if policy.ForRole(role).ScopeToOwner() {
		filters.CustomerID = &callerID
	}
	s.logger.Debug("Listing requests", zap.String("callerID", callerID.String()), zap.String("role", string(role)))
	return s.requestRepo.List(ctx, filters)
}

// Create registers a new repair request. A master may create on behalf of any
// customer; a customer's request is always attached to themselves.
func (s *requestServiceImpl) Create(ctx context.Context, callerID uuid.UUID, role models.Role, input RequestInput) (*models.Request, error) {
	phoneModel := strings.TrimSpace(input.PhoneModel)
	problem := strings.TrimSpace(input.ProblemDescription)
	if phoneModel == "" || problem == "" {
		s.logger.Warn("Request creation with missing fields", zap.String("callerID", callerID.String()))
		return nil, models.ErrInvalidInput
	}

	customerID := callerID
	if policy.ForRole(role).CanAssignCustomer() && input.CustomerID != nil {
		customerID = *input.CustomerID
	}

	req := &models.Request{
		PhoneModel:         phoneModel,
		ProblemDescription: problem,
		CustomerID:         customerID,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("Request created",
		zap.String("requestID", req.ID.String()),
		zap.String("customerID", customerID.String()),
		zap.String("phoneModel", phoneModel),
	)
	return req, nil
}

// Get retrieves a single request by ID.
func (s *requestServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	return s.requestRepo.GetByID(ctx, id)
}

// Update replaces the mutable fields of a request. The status may move in
// either direction between PROCESS and DONE.
func (s *requestServiceImpl) Update(ctx context.Context, callerID uuid.UUID, role models.Role, id uuid.UUID, input RequestInput) (*models.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	phoneModel := strings.TrimSpace(input.PhoneModel)
	problem := strings.TrimSpace(input.ProblemDescription)
	if phoneModel == "" || problem == "" {
		s.logger.Warn("Request update with missing fields", zap.String("requestID", id.String()))
		return nil, models.ErrInvalidInput
	}

	if input.Status != "" {
		if !input.Status.IsValid() {
			s.logger.Warn("Request update with unknown status", zap.String("requestID", id.String()), zap.String("status", string(input.Status)))
			return nil, models.ErrInvalidInput
		}
		req.Status = input.Status
	}
	req.PhoneModel = phoneModel
	req.ProblemDescription = problem
	if policy.ForRole(role).CanAssignCustomer() && input.CustomerID != nil {
		req.CustomerID = *input.CustomerID
	}

	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, err
	}
	s.logger.Info("Request updated", zap.String("requestID", req.ID.String()), zap.String("status", string(req.Status)))
	return req, nil
}

// Delete removes a request together with its invoices. A request still under
// repair is refused with an advisory error.
func (s *requestServiceImpl) Delete(ctx context.Context, role models.Role, id uuid.UUID) error {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !policy.ForRole(role).CanDeleteRequest(req.Status) {
		s.logger.Info("Refusing to delete request under repair", zap.String("requestID", id.String()))
		return models.ErrRequestUnderRepair
	}

	return s.requestRepo.Delete(ctx, id)
}

// FilterByCustomer returns all requests of the customer with the given username.
func (s *requestServiceImpl) FilterByCustomer(ctx context.Context, username string) ([]models.Request, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer %q: %w", username, err)
	}
	return s.requestRepo.List(ctx, models.RequestFilters{CustomerID: &user.ID})
}

// FilterByProblem returns requests whose problem description contains the
// given substring.
func (s *requestServiceImpl) FilterByProblem(ctx context.Context, problem string) ([]models.Request, error) {
	return s.requestRepo.List(ctx, models.RequestFilters{Problem: problem})
}

// FilterByStatusAndModel returns requests matching both status and phone model.
func (s *requestServiceImpl) FilterByStatusAndModel(ctx context.Context, status models.RequestStatus, phoneModel string) ([]models.Request, error) {
	if !status.IsValid() {
		return nil, models.ErrInvalidInput
	}
	return s.requestRepo.List(ctx, models.RequestFilters{Status: status, PhoneModel: phoneModel})
}
