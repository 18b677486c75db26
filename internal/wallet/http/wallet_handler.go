// Package http provides HTTP handlers for wallet custody operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/custodia/internal/httputil"
	walletDomain "github.com/custodia-labs/custodia/internal/wallet/domain"
	"github.com/custodia-labs/custodia/internal/wallet/http/dto"
	walletUseCase "github.com/custodia-labs/custodia/internal/wallet/usecase"
	customValidation "github.com/custodia-labs/custodia/internal/validation"
)

// WalletHandler handles HTTP requests for wallet operations.
type WalletHandler struct {
	walletUseCase walletUseCase.WalletUseCase
	logger        *slog.Logger
}

// NewWalletHandler creates a new wallet handler with required dependencies.
func NewWalletHandler(walletUseCase walletUseCase.WalletUseCase, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
		logger:        logger,
	}
}

// CreateHandler mints a wallet whose seed is sealed under the supplied password hash.
// POST /v1/wallets
// Returns 201 Created with the address, public key and a QR code of the address.
func (h *WalletHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateWalletRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	created, err := h.walletUseCase.Create(c.Request.Context(), req.PasswordHash)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCreatedWalletToResponse(created))
}

// GetHandler returns the public key of a wallet.
// GET /v1/wallets/:address
func (h *WalletHandler) GetHandler(c *gin.Context) {
	req := dto.GetWalletRequest{Address: c.Param("address")}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	resolution, err := h.walletUseCase.Resolve(c.Request.Context(), req.Address, "")
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// Validated above, so normalization cannot fail.
	address, _ := walletDomain.NormalizeAddress(req.Address)

	c.JSON(http.StatusOK, dto.MapResolutionToResponse(address, resolution))
}
