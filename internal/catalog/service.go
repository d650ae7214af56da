package catalog

import (
	"context"
	"log/slog"

	"github.com/sundayezeilo/brandcatalog/internal/audit"
	"github.com/sundayezeilo/brandcatalog/internal/errx"
	"github.com/sundayezeilo/brandcatalog/internal/httpx"
)

// Workflow names one of the two publish pipelines.
type Workflow string

const (
	WorkflowRedeploy Workflow = "redeploy"
	WorkflowCommit   Workflow = "commit"
)

// Result is the outcome of one catalog update.
type Result struct {
	Change          Change
	Catalog         Catalog
	PreviousVersion string
	Publication     Publication
}

// Service runs validate, fetch, mutate and publish for a single request.
type Service interface {
	Apply(ctx context.Context, req Request) (Result, error)
}

type service struct {
	workflow  Workflow
	store     Store
	validator Validator
	recorder  audit.Recorder
	logger    *slog.Logger
}

// ServiceConfig holds optional collaborators of the service.
type ServiceConfig struct {
	Workflow  Workflow
	Validator Validator
	Recorder  audit.Recorder // nil disables the change history
	Logger    *slog.Logger
}

func NewService(store Store, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}

	validator := config.Validator
	if len(validator.prefixes) == 0 {
		validator = NewValidator()
	}

	recorder := config.Recorder
	if recorder == nil {
		recorder = audit.Nop{}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &service{
		workflow:  config.Workflow,
		store:     store,
		validator: validator,
		recorder:  recorder,
		logger:    logger,
	}
}

func (s *service) Apply(ctx context.Context, req Request) (Result, error) {
	const op = "catalog.service.Apply"

	change, err := s.validator.Validate(req)
	if err != nil {
		return Result{}, errx.E(op, errx.KindOf(err), err)
	}

	doc, err := s.store.Fetch(ctx)
	if err != nil {
		return Result{Change: change}, errx.E(op, errx.KindOf(err), err)
	}

	next, err := Apply(doc.Catalog, change)
	if err != nil {
		return Result{Change: change, PreviousVersion: doc.Version}, errx.E(op, errx.KindOf(err), err)
	}

	pub, err := s.store.Publish(ctx, Document{Catalog: next, Version: doc.Version}, change)
	s.record(ctx, change, doc.Version, pub, err)

	res := Result{
		Change:          change,
		Catalog:         next,
		PreviousVersion: doc.Version,
		Publication:     pub,
	}
	if err != nil {
		return res, errx.E(op, errx.KindOf(err), err)
	}
	return res, nil
}

func (s *service) record(ctx context.Context, change Change, previous string, pub Publication, err error) {
	entry := audit.Entry{
		RequestID:       httpx.GetRequestID(ctx),
		Workflow:        string(s.workflow),
		Action:          string(change.Action),
		Category:        change.Category,
		Brand:           change.Brand,
		URL:             change.URL,
		PreviousVersion: previous,
		Version:         pub.Version,
		DeployID:        pub.DeployID,
		Outcome:         outcomeOf(pub, err),
	}
	if err != nil {
		entry.Error = MessageOf(err)
	}

	// Recording failures never change the request outcome.
	if _, recErr := s.recorder.Record(context.WithoutCancel(ctx), entry); recErr != nil {
		s.logger.ErrorContext(ctx, "failed to record catalog change",
			"error", recErr.Error(),
			"workflow", s.workflow,
			"category", change.Category,
			"brand", change.Brand,
		)
	}
}

func outcomeOf(pub Publication, err error) audit.Outcome {
	switch {
	case err == nil && pub.DeployState == DeployPending:
		return audit.OutcomePending
	case err == nil:
		return audit.OutcomePublished
	case pub.CatalogUpdated:
		return audit.OutcomePartial
	default:
		return audit.OutcomeFailed
	}
}
