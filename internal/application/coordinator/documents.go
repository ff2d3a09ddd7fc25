package coordinator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/balance"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
)

// CreateDocument records a sale or purchase: the document, its stock
// movement, its full exposure on the party balance, and one linked payment
// transaction per payment detail.
func (c *Coordinator) CreateDocument(ctx context.Context, kind trade.Kind, draft trade.Draft, actor shared.Actor) (*trade.Document, error) {
	doc, err := trade.NewDocument(kind, draft)
	if err != nil {
		return nil, err
	}

	err = c.run(ctx, "create_"+string(kind), actor, func(u *unit) error {
		if _, err := requireParty(ctx, u.repos, doc.PartyID); err != nil {
			return err
		}
		if err := u.repos.Documents(kind).Create(ctx, doc); err != nil {
			return step("persist "+string(kind), err)
		}
		if err := c.applyEffects(ctx, u, doc); err != nil {
			return err
		}
		u.collect(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateDocument reverses every effect of the stored document and applies
// the effects of the revised one. expectedVersion, when non-zero, must match
// the stored version.
func (c *Coordinator) UpdateDocument(ctx context.Context, kind trade.Kind, id uuid.UUID, draft trade.Draft, expectedVersion int, actor shared.Actor) (*trade.Document, error) {
	var doc *trade.Document
	err := c.run(ctx, "update_"+string(kind), actor, func(u *unit) error {
		var err error
		doc, err = c.loadDocument(ctx, u, kind, id)
		if err != nil {
			return err
		}
		if expectedVersion != 0 && expectedVersion != doc.Version {
			return shared.ErrConcurrencyConflict
		}

		old := doc.Clone()
		if err := doc.Revise(draft); err != nil {
			return err
		}
		if doc.PartyID != old.PartyID {
			if _, err := requireParty(ctx, u.repos, doc.PartyID); err != nil {
				return err
			}
		}

		if err := c.reverseEffects(ctx, u, old); err != nil {
			return err
		}
		if err := u.repos.Documents(kind).Update(ctx, doc, old.Version); err != nil {
			return step("persist "+string(kind), err)
		}
		if err := c.applyEffects(ctx, u, doc); err != nil {
			return err
		}
		u.collect(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument reverses every effect of a document, removes its linked
// transactions and then the document itself.
func (c *Coordinator) DeleteDocument(ctx context.Context, kind trade.Kind, id uuid.UUID, actor shared.Actor) error {
	return c.run(ctx, "delete_"+string(kind), actor, func(u *unit) error {
		doc, err := c.loadDocument(ctx, u, kind, id)
		if err != nil {
			return err
		}
		if err := c.reverseEffects(ctx, u, doc); err != nil {
			return err
		}
		if err := u.repos.Documents(kind).Delete(ctx, doc.ID); err != nil {
			return step("delete "+string(kind), err)
		}
		doc.MarkDeleted()
		u.collect(doc)
		return nil
	})
}

func (c *Coordinator) loadDocument(ctx context.Context, u *unit, kind trade.Kind, id uuid.UUID) (*trade.Document, error) {
	doc, err := u.repos.Documents(kind).FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError(fmt.Sprintf("%s_NOT_FOUND", kindCode(kind)), fmt.Sprintf("%s %s not found", kind.Label(), id))
		}
		return nil, step("load "+string(kind), err)
	}
	return doc, nil
}

// applyEffects moves stock, applies the exposure and records the payments
func (c *Coordinator) applyEffects(ctx context.Context, u *unit, doc *trade.Document) error {
	if err := step("apply stock", u.stock.ApplyDocumentLines(ctx, doc.Kind, doc.Lines)); err != nil {
		return err
	}
	if err := step("apply balance", u.balance.ApplyExposure(ctx, doc)); err != nil {
		return err
	}

	direction := balance.DirectionFor(doc.Kind)
	for _, pd := range doc.PaymentDetails {
		partyID := doc.PartyID
		tx, err := finance.NewTransaction(doc.Kind.PaymentType(), &partyID, pd.Amount, pd.PaymentMode, doc.DocumentDate, doc.LinkedDocument())
		if err != nil {
			return err
		}
		tx.SetReference(pd.ReferenceNumber, fmt.Sprintf("Payment for %s %s", doc.Kind.Label(), doc.Number))
		if err := u.repos.Transactions().Create(ctx, tx); err != nil {
			return step("record payment", err)
		}
		if err := step("apply payment", u.balance.ApplyPayment(ctx, partyID, pd.Amount, direction)); err != nil {
			return err
		}
		u.collect(tx)
	}
	return nil
}

// reverseEffects undoes applyEffects for the stored state of a document
func (c *Coordinator) reverseEffects(ctx context.Context, u *unit, doc *trade.Document) error {
	if err := step("reverse stock", u.stock.ReverseDocumentLines(ctx, doc.Kind, doc.Lines)); err != nil {
		return err
	}
	if err := step("reverse balance", u.balance.ReverseExposure(ctx, doc)); err != nil {
		return err
	}

	linked, err := u.repos.Transactions().FindByLinkedDocument(ctx, doc.Kind.LinkedType(), doc.ID)
	if err != nil {
		return step("load payments", err)
	}
	for i := range linked {
		tx := &linked[i]
		if tx.PartyID == nil || !tx.Type.IsPayment() {
			continue
		}
		if err := step("reverse payment", u.balance.ReversePayment(ctx, *tx.PartyID, tx.Amount, balance.DirectionForPayment(tx.Type))); err != nil {
			return err
		}
		u.events = append(u.events, finance.NewTransactionDeletedEvent(tx))
	}
	if _, err := u.repos.Transactions().DeleteByLinkedDocument(ctx, doc.Kind.LinkedType(), doc.ID); err != nil {
		return step("delete payments", err)
	}
	return nil
}

func kindCode(kind trade.Kind) string {
	if kind == trade.KindPurchase {
		return "PURCHASE"
	}
	return "SALE"
}
