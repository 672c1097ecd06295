// Package benchmark compares hand-coded book updates with the same updates
// dispatched through the generic CRUD layer.
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"crudkit/internal/config"
	"crudkit/internal/crud"
	"crudkit/internal/infra/db"
	"crudkit/internal/persistence"
	"crudkit/internal/usecase/book"
)

var (
	// ErrRejected is returned when the dispatcher reports status errors.
	ErrRejected = errors.New("update rejected")

	// ErrVerification is returned when a fresh read does not see the update.
	ErrVerification = errors.New("update not persisted")

	// ErrUnknownScenario is returned by Lookup for an unknown name.
	ErrUnknownScenario = errors.New("unknown scenario")
)

// Env is what scenarios run against. It is shared by all workers; every
// iteration opens its own persistence contexts.
type Env struct {
	DB       persistence.Executor
	Dialect  persistence.Dialect
	Registry *crud.Registry
	Dates    *DateSequence
	Logger   *slog.Logger
}

// NewEnv registers the book DTOs and returns an Env over exec.
func NewEnv(exec persistence.Executor, dialect persistence.Dialect, logger *slog.Logger) (*Env, error) {
	if logger == nil {
		logger = slog.Default()
	}
	reg := crud.NewRegistry()
	if err := book.Register(reg); err != nil {
		return nil, fmt.Errorf("register book: %w", err)
	}
	return &Env{
		DB:       exec,
		Dialect:  dialect,
		Registry: reg,
		Dates:    NewDateSequence(BaseDate),
		Logger:   logger,
	}, nil
}

func (e *Env) newContext() *persistence.Context {
	return persistence.New(e.DB, persistence.WithDialect(e.Dialect), persistence.WithLogger(e.Logger))
}

// Iteration identifies one scenario run.
type Iteration struct {
	Worker int
	Index  int
}

// BookID is the seeded book the iteration updates. Worker 0 updates the
// Quantum Networking book; other workers count down from it.
func (it Iteration) BookID() int64 {
	return db.QuantumBookID - int64(it.Worker)
}

// Scenario is one benchmarked way of updating a book's publication date.
type Scenario struct {
	Name string
	Run  func(ctx context.Context, env *Env, it Iteration) error
}

// Scenarios returns the four update scenarios in run order.
func Scenarios() []Scenario {
	return []Scenario{
		{Name: config.ScenarioHandCodedProperty, Run: handCoded((*book.Service).UpdatePublishedOnProperty)},
		{Name: config.ScenarioGenericProperty, Run: generic(crud.UseFieldMapping)},
		{Name: config.ScenarioHandCodedMethod, Run: handCoded((*book.Service).UpdatePublishedOnMethod)},
		{Name: config.ScenarioGenericMethod, Run: generic(crud.CallOperation(book.OpUpdatePublishedOn))},
	}
}

// Lookup returns the scenarios with the given names, in that order.
func Lookup(names []string) ([]Scenario, error) {
	all := Scenarios()
	out := make([]Scenario, 0, len(names))
	for _, name := range names {
		found := false
		for _, s := range all {
			if s.Name == name {
				out = append(out, s)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnknownScenario, name)
		}
	}
	return out, nil
}

type bookUpdate func(s *book.Service, ctx context.Context, id int64, publishedOn time.Time) error

func handCoded(update bookUpdate) func(context.Context, *Env, Iteration) error {
	return func(ctx context.Context, env *Env, it Iteration) error {
		date := env.Dates.Next()
		pc := env.newContext()
		defer func() { _ = pc.Close() }()

		if err := update(book.NewService(pc), ctx, it.BookID(), date); err != nil {
			return err
		}
		return env.verify(ctx, it.BookID(), date)
	}
}

func generic(d crud.Directive) func(context.Context, *Env, Iteration) error {
	return func(ctx context.Context, env *Env, it Iteration) error {
		date := env.Dates.Next()
		pc := env.newContext()
		defer func() { _ = pc.Close() }()

		dto := book.ChangePubDateDto{BookID: it.BookID(), PublishedOn: date}
		st, err := crud.UpdateAndSave(ctx, crud.NewService(pc, env.Registry), dto, d)
		if err != nil {
			return err
		}
		if !st.IsValid() {
			return fmt.Errorf("%w: %s", ErrRejected, st.GetAllErrors())
		}
		return env.verify(ctx, it.BookID(), date)
	}
}

// verify reads the book through a fresh context.
func (e *Env) verify(ctx context.Context, id int64, want time.Time) error {
	pc := e.newContext()
	defer func() { _ = pc.Close() }()

	b, err := persistence.For(pc, db.BookMapping()).Find(ctx, id)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if b == nil {
		return fmt.Errorf("%w: book %d is gone", ErrVerification, id)
	}
	if !b.PublishedOn.Equal(want) {
		return fmt.Errorf("%w: book %d published_on = %s, want %s",
			ErrVerification, id, b.PublishedOn.Format(time.DateOnly), want.Format(time.DateOnly))
	}
	return nil
}
