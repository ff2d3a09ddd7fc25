package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/balance"
	"github.com/sharadhiadiga/Elint/internal/domain/finance"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionInput describes a standalone money movement
type TransactionInput struct {
	Type            finance.TransactionType
	PartyID         *uuid.UUID
	Amount          decimal.Decimal
	PaymentMode     finance.PaymentMode
	ReferenceNumber string
	Description     string
	TransactionDate time.Time
}

// RecordTransaction stores an unlinked transaction. Payments in and out move
// the party balance; other types are recorded without a balance effect.
func (c *Coordinator) RecordTransaction(ctx context.Context, in TransactionInput, actor shared.Actor) (*finance.Transaction, error) {
	tx, err := finance.NewTransaction(in.Type, in.PartyID, in.Amount, in.PaymentMode, in.TransactionDate, finance.Unlinked())
	if err != nil {
		return nil, err
	}
	tx.SetReference(in.ReferenceNumber, in.Description)

	err = c.run(ctx, "record_transaction", actor, func(u *unit) error {
		if tx.PartyID != nil {
			if _, err := requireParty(ctx, u.repos, *tx.PartyID); err != nil {
				return err
			}
		}
		if err := u.repos.Transactions().Create(ctx, tx); err != nil {
			return step("persist transaction", err)
		}
		if tx.AffectsPartyBalance() {
			if err := step("apply payment", u.balance.ApplyPayment(ctx, *tx.PartyID, tx.Amount, balance.DirectionForPayment(tx.Type))); err != nil {
				return err
			}
		}
		u.collect(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// DeleteTransaction removes a standalone transaction and reverses its
// balance effect. Transactions owned by a sale or purchase are removed only
// with their document.
func (c *Coordinator) DeleteTransaction(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	return c.run(ctx, "delete_transaction", actor, func(u *unit) error {
		tx, err := u.repos.Transactions().FindByID(ctx, id)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewNotFoundError("TRANSACTION_NOT_FOUND", fmt.Sprintf("Transaction %s not found", id))
			}
			return step("load transaction", err)
		}
		if tx.IsLinked() {
			return shared.NewConflictError("LINKED_TRANSACTION", "Transaction belongs to a "+string(tx.Linked.DocumentType)+"; delete the document instead")
		}
		if tx.AffectsPartyBalance() {
			if err := step("reverse payment", u.balance.ReversePayment(ctx, *tx.PartyID, tx.Amount, balance.DirectionForPayment(tx.Type))); err != nil {
				return err
			}
		}
		if err := u.repos.Transactions().Delete(ctx, tx.ID); err != nil {
			return step("delete transaction", err)
		}
		u.events = append(u.events, finance.NewTransactionDeletedEvent(tx))
		return nil
	})
}
