package masterdata

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/coordinator"
	"github.com/sharadhiadiga/Elint/internal/domain/partner"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PartyService handles customer and supplier master data.
// Balances move only through the ledger.
type PartyService struct {
	parties   partner.PartyRepository
	scope     coordinator.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewPartyService creates a new PartyService. publisher may be nil.
func NewPartyService(parties partner.PartyRepository, scope coordinator.TransactionScope, publisher shared.EventPublisher, logger *zap.Logger) *PartyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartyService{parties: parties, scope: scope, publisher: publisher, logger: logger}
}

// Create creates a party whose current balance starts at its opening balance
func (s *PartyService) Create(ctx context.Context, req CreatePartyRequest) (*PartyResponse, error) {
	opening := decimal.Zero
	if req.OpeningBalance != nil {
		opening = *req.OpeningBalance
	}
	p, err := partner.NewParty(req.Name, partner.PartyType(req.Type), opening)
	if err != nil {
		return nil, err
	}
	if err := p.SetContact(req.Phone, req.Email, req.GSTIN); err != nil {
		return nil, err
	}
	if req.BillingAddress != nil {
		p.SetAddress(req.BillingAddress.toDomain())
	}

	if err := s.parties.Save(ctx, p); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, p)

	response := ToPartyResponse(p)
	return &response, nil
}

// GetByID retrieves a party by ID
func (s *PartyService) GetByID(ctx context.Context, id uuid.UUID) (*PartyResponse, error) {
	p, err := s.find(ctx, s.parties, id)
	if err != nil {
		return nil, err
	}
	response := ToPartyResponse(p)
	return &response, nil
}

// List retrieves a page of parties
func (s *PartyService) List(ctx context.Context, filter PartyListFilter) (shared.Paginated[PartyResponse], error) {
	domainFilter := partner.PartyFilter{
		Filter: listFilter(filter.Search, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir),
	}
	if filter.Type != "" {
		t := partner.PartyType(filter.Type)
		domainFilter.Type = &t
	}

	parties, err := s.parties.FindAll(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[PartyResponse]{}, err
	}
	total, err := s.parties.Count(ctx, domainFilter)
	if err != nil {
		return shared.Paginated[PartyResponse]{}, err
	}

	responses := make([]PartyResponse, len(parties))
	for i := range parties {
		responses[i] = ToPartyResponse(&parties[i])
	}
	return shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update applies the non-nil fields of req
func (s *PartyService) Update(ctx context.Context, id uuid.UUID, req UpdatePartyRequest) (*PartyResponse, error) {
	p, err := s.find(ctx, s.parties, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := p.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Type != nil {
		if err := p.SetType(partner.PartyType(*req.Type)); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil || req.Email != nil || req.GSTIN != nil {
		if err := p.SetContact(pick(req.Phone, p.Phone), pick(req.Email, p.Email), pick(req.GSTIN, p.GSTIN)); err != nil {
			return nil, err
		}
	}
	if req.BillingAddress != nil {
		p.SetAddress(req.BillingAddress.toDomain())
	}

	if err := s.parties.Save(ctx, p); err != nil {
		return nil, err
	}
	response := ToPartyResponse(p)
	return &response, nil
}

// Delete removes a party that no document, order or transaction references
func (s *PartyService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos coordinator.TransactionalRepositories) error {
		p, err := s.find(ctx, repos.Parties(), id)
		if err != nil {
			return err
		}

		checks := []struct {
			what   string
			exists func(context.Context, uuid.UUID) (bool, error)
		}{
			{"sales", repos.Documents(trade.KindSale).ExistsByParty},
			{"purchases", repos.Documents(trade.KindPurchase).ExistsByParty},
			{"orders", repos.Orders().ExistsByParty},
			{"transactions", repos.Transactions().ExistsByParty},
		}
		for _, c := range checks {
			used, err := c.exists(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("check party usage in %s: %w", c.what, err)
			}
			if used {
				return shared.NewConflictError("IN_USE", fmt.Sprintf("Party %q has %s and cannot be deleted", p.Name, c.what))
			}
		}

		if err := repos.Parties().Delete(ctx, p.ID); err != nil {
			return err
		}
		s.logger.Info("party deleted", zap.String("party_id", p.ID.String()))
		return nil
	})
}

func (s *PartyService) find(ctx context.Context, parties partner.PartyRepository, id uuid.UUID) (*partner.Party, error) {
	p, err := parties.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("PARTY_NOT_FOUND", fmt.Sprintf("Party %s not found", id))
		}
		return nil, err
	}
	return p, nil
}
