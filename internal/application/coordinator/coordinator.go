package coordinator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sharadhiadiga/Elint/internal/application/balance"
	"github.com/sharadhiadiga/Elint/internal/application/stock"
	"github.com/sharadhiadiga/Elint/internal/application/workflow"
	"github.com/sharadhiadiga/Elint/internal/domain/partner"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Coordinator runs every ledger mutation as one unit of work: the document
// write, its stock and balance deltas and its linked transactions commit
// together or not at all. Domain events are published after commit.
type Coordinator struct {
	scope     TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// New creates a Coordinator. publisher may be nil.
func New(scope TransactionScope, publisher shared.EventPublisher, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{scope: scope, publisher: publisher, logger: logger}
}

// unit carries the services of one transaction and the events it raised
type unit struct {
	repos    TransactionalRepositories
	stock    *stock.Service
	balance  *balance.Service
	workflow *workflow.Engine
	events   []shared.DomainEvent
}

func (u *unit) collect(agg shared.AggregateRoot) {
	u.events = append(u.events, agg.PendingEvents()...)
	agg.ClearEvents()
}

// run executes fn in a transaction and publishes collected events on success
func (c *Coordinator) run(ctx context.Context, op string, actor shared.Actor, fn func(u *unit) error) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "coordinator", op, attribute.String("actor.id", actor.ID))
	defer span.End()
	log := c.logger.With(zap.String("operation", op), zap.String("actor_id", actor.ID))

	var events []shared.DomainEvent
	err := c.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		u := &unit{
			repos:    repos,
			stock:    stock.NewService(repos.Items(), log),
			balance:  balance.NewService(repos.Parties(), log),
			workflow: workflow.NewEngine(repos.Orders(), log),
		}
		if err := fn(u); err != nil {
			return err
		}
		events = u.events
		return nil
	})
	if err != nil {
		if shared.KindOf(err) == shared.KindConsistency || shared.KindOf(err) == shared.KindInternal {
			log.Error("unit of work rolled back", zap.Error(err))
		} else {
			log.Info("unit of work rejected", zap.Error(err))
		}
		telemetry.RecordError(span, err)
		return err
	}

	c.publish(ctx, log, events)
	return nil
}

func (c *Coordinator) publish(ctx context.Context, log *zap.Logger, events []shared.DomainEvent) {
	if c.publisher == nil || len(events) == 0 {
		return
	}
	if err := c.publisher.Publish(ctx, events...); err != nil {
		log.Warn("failed to publish domain events", zap.Int("count", len(events)), zap.Error(err))
	}
}

// step classifies a sub-step failure. Domain errors keep their kind;
// anything else becomes a ConsistencyError so the unit rolls back as a whole.
func step(name string, err error) error {
	if err == nil {
		return nil
	}
	if shared.KindOf(err) != shared.KindInternal {
		return err
	}
	return shared.NewConsistencyError(name, err)
}

// requireParty checks that the referenced party exists
func requireParty(ctx context.Context, repos TransactionalRepositories, id uuid.UUID) (*partner.Party, error) {
	p, err := repos.Parties().FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("PARTY_NOT_FOUND", fmt.Sprintf("Party %s not found", id))
		}
		return nil, step("load party", err)
	}
	return p, nil
}
