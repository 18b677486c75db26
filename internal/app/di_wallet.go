package app

import (
	"fmt"

	walletHTTP "github.com/custodia-labs/custodia/internal/wallet/http"
	walletProvider "github.com/custodia-labs/custodia/internal/wallet/provider"
	walletRepository "github.com/custodia-labs/custodia/internal/wallet/repository"
	walletUseCase "github.com/custodia-labs/custodia/internal/wallet/usecase"
)

// WalletProvider returns the HD wallet provider.
func (c *Container) WalletProvider() walletUseCase.WalletProvider {
	c.walletProviderInit.Do(func() {
		c.walletProvider = walletProvider.NewHDProvider()
	})
	return c.walletProvider
}

// WalletRepository returns the wallet repository.
func (c *Container) WalletRepository() (walletUseCase.WalletRepository, error) {
	var err error
	c.walletRepositoryInit.Do(func() {
		c.walletRepository, err = c.initWalletRepository()
		if err != nil {
			c.initErrors["walletRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["walletRepository"]; exists {
		return nil, storedErr
	}
	return c.walletRepository, nil
}

// WalletUseCase returns the wallet use case.
func (c *Container) WalletUseCase() (walletUseCase.WalletUseCase, error) {
	var err error
	c.walletUseCaseInit.Do(func() {
		c.walletUseCase, err = c.initWalletUseCase()
		if err != nil {
			c.initErrors["walletUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["walletUseCase"]; exists {
		return nil, storedErr
	}
	return c.walletUseCase, nil
}

// WalletHandler returns the wallet HTTP handler.
func (c *Container) WalletHandler() (*walletHTTP.WalletHandler, error) {
	var err error
	c.walletHandlerInit.Do(func() {
		c.walletHandler, err = c.initWalletHandler()
		if err != nil {
			c.initErrors["walletHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["walletHandler"]; exists {
		return nil, storedErr
	}
	return c.walletHandler, nil
}

// initWalletRepository creates the wallet repository on the document store.
func (c *Container) initWalletRepository() (walletUseCase.WalletRepository, error) {
	store, err := c.DocStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get document store for wallet repository: %w", err)
	}
	return walletRepository.NewWalletRepository(store), nil
}

// initWalletUseCase creates the wallet use case with all its dependencies.
func (c *Container) initWalletUseCase() (walletUseCase.WalletUseCase, error) {
	repo, err := c.WalletRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet repository for wallet use case: %w", err)
	}

	baseUseCase := walletUseCase.NewWalletUseCase(repo, c.WalletProvider(), c.SeedVault())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for wallet use case: %w", err)
		}
		return walletUseCase.NewWalletUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initWalletHandler creates the wallet HTTP handler.
func (c *Container) initWalletHandler() (*walletHTTP.WalletHandler, error) {
	useCase, err := c.WalletUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet use case for wallet handler: %w", err)
	}
	return walletHTTP.NewWalletHandler(useCase, c.Logger()), nil
}
