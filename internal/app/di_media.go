package app

import (
	"fmt"

	mediaHTTP "github.com/custodia-labs/custodia/internal/media/http"
	mediaRepository "github.com/custodia-labs/custodia/internal/media/repository"
	mediaUseCase "github.com/custodia-labs/custodia/internal/media/usecase"
)

// MediaRepository returns the media record repository.
func (c *Container) MediaRepository() (mediaUseCase.MediaRepository, error) {
	var err error
	c.mediaRepositoryInit.Do(func() {
		c.mediaRepository, err = c.initMediaRepository()
		if err != nil {
			c.initErrors["mediaRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["mediaRepository"]; exists {
		return nil, storedErr
	}
	return c.mediaRepository, nil
}

// MediaUseCase returns the media use case.
func (c *Container) MediaUseCase() (mediaUseCase.MediaUseCase, error) {
	var err error
	c.mediaUseCaseInit.Do(func() {
		c.mediaUseCase, err = c.initMediaUseCase()
		if err != nil {
			c.initErrors["mediaUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["mediaUseCase"]; exists {
		return nil, storedErr
	}
	return c.mediaUseCase, nil
}

// MediaHandler returns the media HTTP handler.
func (c *Container) MediaHandler() (*mediaHTTP.MediaHandler, error) {
	var err error
	c.mediaHandlerInit.Do(func() {
		c.mediaHandler, err = c.initMediaHandler()
		if err != nil {
			c.initErrors["mediaHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["mediaHandler"]; exists {
		return nil, storedErr
	}
	return c.mediaHandler, nil
}

// initMediaRepository creates the media repository on the document store.
func (c *Container) initMediaRepository() (mediaUseCase.MediaRepository, error) {
	store, err := c.DocStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get document store for media repository: %w", err)
	}
	return mediaRepository.NewMediaRepository(store), nil
}

// initMediaUseCase creates the media use case with all its dependencies.
func (c *Container) initMediaUseCase() (mediaUseCase.MediaUseCase, error) {
	repo, err := c.MediaRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get media repository for media use case: %w", err)
	}

	blobStore, err := c.BlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get blob store for media use case: %w", err)
	}

	wallets, err := c.WalletUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet use case for media use case: %w", err)
	}

	reconciler, err := c.ReconcileUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get reconcile use case for media use case: %w", err)
	}

	baseUseCase := mediaUseCase.NewMediaUseCase(
		repo,
		blobStore,
		wallets,
		c.ContentCipher(),
		c.KeyWrapper(),
		reconciler,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for media use case: %w", err)
		}
		return mediaUseCase.NewMediaUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initMediaHandler creates the media HTTP handler.
func (c *Container) initMediaHandler() (*mediaHTTP.MediaHandler, error) {
	useCase, err := c.MediaUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get media use case for media handler: %w", err)
	}
	return mediaHTTP.NewMediaHandler(useCase, c.config.MaxUploadBytes, c.Logger()), nil
}
