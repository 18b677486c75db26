package app

import (
	cryptoService "github.com/custodia-labs/custodia/internal/crypto/service"
)

// SeedVault returns the service that seals wallet seeds under a password hash.
func (c *Container) SeedVault() cryptoService.SeedVault {
	c.seedVaultInit.Do(func() {
		c.seedVault = cryptoService.NewSeedVault()
	})
	return c.seedVault
}

// ContentCipher returns the symmetric cipher for media content.
func (c *Container) ContentCipher() cryptoService.ContentCipher {
	c.contentCipherInit.Do(func() {
		c.contentCipher = cryptoService.NewContentCipher()
	})
	return c.contentCipher
}

// KeyWrapper returns the ECIES key wrapper.
func (c *Container) KeyWrapper() cryptoService.KeyWrapper {
	c.keyWrapperInit.Do(func() {
		c.keyWrapper = cryptoService.NewKeyWrapper()
	})
	return c.keyWrapper
}
