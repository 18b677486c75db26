package app

import (
	"fmt"

	mediaUseCase "github.com/custodia-labs/custodia/internal/media/usecase"
	reconcileDomain "github.com/custodia-labs/custodia/internal/reconcile/domain"
	reconcileRepository "github.com/custodia-labs/custodia/internal/reconcile/repository"
	reconcileUseCase "github.com/custodia-labs/custodia/internal/reconcile/usecase"
)

// EntryRepository returns the reconciliation entry repository.
func (c *Container) EntryRepository() (reconcileUseCase.EntryRepository, error) {
	var err error
	c.entryRepositoryInit.Do(func() {
		c.entryRepository, err = c.initEntryRepository()
		if err != nil {
			c.initErrors["entryRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["entryRepository"]; exists {
		return nil, storedErr
	}
	return c.entryRepository, nil
}

// ReconcileUseCase returns the reconciliation use case. It records unfinished
// uploads and replays them from Start or ProcessPending.
func (c *Container) ReconcileUseCase() (*reconcileUseCase.ReconcileUseCase, error) {
	var err error
	c.reconcileUseCaseInit.Do(func() {
		c.reconcileUseCase, err = c.initReconcileUseCase()
		if err != nil {
			c.initErrors["reconcileUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["reconcileUseCase"]; exists {
		return nil, storedErr
	}
	return c.reconcileUseCase, nil
}

// initEntryRepository creates the entry repository on the document store.
func (c *Container) initEntryRepository() (reconcileUseCase.EntryRepository, error) {
	store, err := c.DocStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get document store for entry repository: %w", err)
	}
	return reconcileRepository.NewEntryRepository(store), nil
}

// initReconcileUseCase creates the reconciliation use case and registers a
// processor for every entry kind.
func (c *Container) initReconcileUseCase() (*reconcileUseCase.ReconcileUseCase, error) {
	entryRepo, err := c.EntryRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get entry repository for reconcile use case: %w", err)
	}

	mediaRepo, err := c.MediaRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get media repository for reconcile use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for reconcile use case: %w", err)
	}

	processors := map[string]reconcileUseCase.EntryProcessor{
		reconcileDomain.KindMediaMetadata: mediaUseCase.NewMetadataProcessor(mediaRepo),
	}

	return reconcileUseCase.NewReconcileUseCase(
		reconcileUseCase.Config{
			Interval:   c.config.ReconcileInterval,
			BatchSize:  c.config.ReconcileBatchSize,
			MaxRetries: c.config.ReconcileMaxRetries,
		},
		entryRepo,
		processors,
		c.Logger(),
	).WithMetrics(businessMetrics), nil
}
