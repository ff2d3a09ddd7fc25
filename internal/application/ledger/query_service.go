package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
)

// DocumentRepositories hands out the repository for a document kind
type DocumentRepositories interface {
	Documents(kind trade.Kind) trade.DocumentRepository
}

// QueryService reads documents and transactions outside any unit of work
type QueryService struct {
	documents    DocumentRepositories
	transactions finance.TransactionRepository
}

// NewQueryService creates a query service
func NewQueryService(documents DocumentRepositories, transactions finance.TransactionRepository) *QueryService {
	return &QueryService{documents: documents, transactions: transactions}
}

// GetDocument loads one sale or purchase
func (s *QueryService) GetDocument(ctx context.Context, kind trade.Kind, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.documents.Documents(kind).FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError(kindCode(kind)+"_NOT_FOUND", fmt.Sprintf("%s %s not found", kind.Label(), id))
		}
		return nil, err
	}
	resp := ToDocumentResponse(doc)
	return &resp, nil
}

// ListDocuments returns a page of sales or purchases
func (s *QueryService) ListDocuments(ctx context.Context, kind trade.Kind, filter DocumentListFilter) (shared.Paginated[DocumentResponse], error) {
	repo := s.documents.Documents(kind)
	f := filter.toDomain()

	docs, err := repo.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[DocumentResponse]{}, err
	}
	total, err := repo.Count(ctx, f)
	if err != nil {
		return shared.Paginated[DocumentResponse]{}, err
	}

	items := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		items = append(items, ToDocumentResponse(&docs[i]))
	}
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// GetTransaction loads one transaction
func (s *QueryService) GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	t, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("TRANSACTION_NOT_FOUND", fmt.Sprintf("Transaction %s not found", id))
		}
		return nil, err
	}
	resp := ToTransactionResponse(t)
	return &resp, nil
}

// ListTransactions returns a page of transactions, newest first
func (s *QueryService) ListTransactions(ctx context.Context, filter TransactionListFilter) (shared.Paginated[TransactionResponse], error) {
	f := filter.toDomain()

	txs, err := s.transactions.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[TransactionResponse]{}, err
	}
	total, err := s.transactions.Count(ctx, f)
	if err != nil {
		return shared.Paginated[TransactionResponse]{}, err
	}

	items := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		items = append(items, ToTransactionResponse(&txs[i]))
	}
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

func kindCode(kind trade.Kind) string {
	if kind == trade.KindPurchase {
		return "PURCHASE"
	}
	return "SALE"
}
