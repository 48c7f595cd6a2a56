package service

import (
	"context"
	"fmt"

	"repair-server/internal/models"
	"repair-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InvoiceInput carries the mutable fields of an invoice.
type InvoiceInput struct {
	Price     float64
	RequestID uuid.UUID
	// Status is honored only on update. Empty means "keep the current status".
	Status models.InvoiceStatus
}

// InvoiceService implements billing use cases. Mutating operations are only
// reachable by masters, so no per-call role checks are needed here.
type InvoiceService interface {
	List(ctx context.Context) ([]models.Invoice, error)
	Create(ctx context.Context, input InvoiceInput) (*models.Invoice, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	Update(ctx context.Context, id uuid.UUID, input InvoiceInput) (*models.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// BillingsForCustomer returns the invoices of all requests owned by the
	// customer with the given username.
	BillingsForCustomer(ctx context.Context, username string) ([]models.Invoice, error)
	// BillingsForOwner is the same lookup keyed by the caller's own ID.
	BillingsForOwner(ctx context.Context, customerID uuid.UUID) ([]models.Invoice, error)
}

// Compile-time check to ensure invoiceServiceImpl implements InvoiceService
var _ InvoiceService = (*invoiceServiceImpl)(nil)

type invoiceServiceImpl struct {
	invoiceRepo repository.InvoiceRepository
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
	logger      *zap.Logger
}

// NewInvoiceService creates a new instance of invoiceServiceImpl.
func NewInvoiceService(invoiceRepo repository.InvoiceRepository, requestRepo repository.RequestRepository, userRepo repository.UserRepository, logger *zap.Logger) InvoiceService {
	return &invoiceServiceImpl{
		invoiceRepo: invoiceRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		logger:      logger.Named("InvoiceService"),
	}
}

// List returns all invoices.
func (s *invoiceServiceImpl) List(ctx context.Context) ([]models.Invoice, error) {
	return s.invoiceRepo.List(ctx)
}

// Create issues an invoice for a finished request. A request still in repair
// is refused with an advisory error.
func (s *invoiceServiceImpl) Create(ctx context.Context, input InvoiceInput) (*models.Invoice, error) {
	req, err := s.requestRepo.GetByID(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}

	if req.Status == models.RequestStatusProcess {
		s.logger.Info("Refusing invoice for request still under repair", zap.String("requestID", req.ID.String()))
		return nil, models.ErrRequestInProgress
	}

	if input.Price <= 0 {
		s.logger.Warn("Invoice creation with non-positive price", zap.Float64("price", input.Price))
		return nil, models.ErrInvalidInput
	}

	inv := &models.Invoice{
		Price:     input.Price,
		Status:    models.InvoiceStatusUnpaid,
		RequestID: req.ID,
	}
	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice created", zap.String("invoiceID", inv.ID.String()), zap.String("requestID", req.ID.String()), zap.Float64("price", inv.Price))
	return inv, nil
}

// Get retrieves a single invoice by ID.
func (s *invoiceServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

// Update replaces price and status of an invoice. A paid invoice is immutable
// and the update is refused with an advisory error.
func (s *invoiceServiceImpl) Update(ctx context.Context, id uuid.UUID, input InvoiceInput) (*models.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.Status == models.InvoiceStatusPaid {
		s.logger.Info("Refusing to edit paid invoice", zap.String("invoiceID", id.String()))
		return nil, models.ErrInvoicePaid
	}

	if input.Price <= 0 {
		s.logger.Warn("Invoice update with non-positive price", zap.String("invoiceID", id.String()), zap.Float64("price", input.Price))
		return nil, models.ErrInvalidInput
	}
	if input.Status != "" {
		if !input.Status.IsValid() {
			s.logger.Warn("Invoice update with unknown status", zap.String("invoiceID", id.String()), zap.String("status", string(input.Status)))
			return nil, models.ErrInvalidInput
		}
		inv.Status = input.Status
	}
	inv.Price = input.Price

	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("Invoice updated", zap.String("invoiceID", inv.ID.String()), zap.String("status", string(inv.Status)))
	return inv, nil
}

// Delete removes an invoice.
func (s *invoiceServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return s.invoiceRepo.Delete(ctx, id)
}

// BillingsForCustomer resolves the customer by username and returns the
// invoices attached to their requests.
func (s *invoiceServiceImpl) BillingsForCustomer(ctx context.Context, username string) ([]models.Invoice, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer %q: %w", username, err)
	}
	return s.invoiceRepo.ListByCustomerID(ctx, user.ID)
}

// BillingsForOwner returns the invoices attached to the caller's own requests.
func (s *invoiceServiceImpl) BillingsForOwner(ctx context.Context, customerID uuid.UUID) ([]models.Invoice, error) {
	return s.invoiceRepo.ListByCustomerID(ctx, customerID)
}
