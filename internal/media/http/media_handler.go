// Package http provides HTTP handlers for encrypted media storage and sharing.
package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	cryptoDomain "github.com/custodia-labs/custodia/internal/crypto/domain"
	"github.com/custodia-labs/custodia/internal/httputil"
	mediaDomain "github.com/custodia-labs/custodia/internal/media/domain"
	"github.com/custodia-labs/custodia/internal/media/http/dto"
	mediaUseCase "github.com/custodia-labs/custodia/internal/media/usecase"
	customValidation "github.com/custodia-labs/custodia/internal/validation"
	walletDomain "github.com/custodia-labs/custodia/internal/wallet/domain"
)

const genericMimeType = "application/octet-stream"

// MediaHandler handles HTTP requests for media operations.
type MediaHandler struct {
	mediaUseCase   mediaUseCase.MediaUseCase
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewMediaHandler creates a new media handler. Uploads larger than maxUploadBytes are
// rejected with 413.
func NewMediaHandler(
	mediaUseCase mediaUseCase.MediaUseCase,
	maxUploadBytes int64,
	logger *slog.Logger,
) *MediaHandler {
	return &MediaHandler{
		mediaUseCase:   mediaUseCase,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// UploadHandler encrypts a file for the uploading address and stores it.
// POST /v1/media - multipart form with "address" and "file".
// Returns 201 Created with the blob id.
func (h *MediaHandler) UploadHandler(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, httputil.ErrorResponse{
				Error:   "malformed_input",
				Message: fmt.Sprintf("upload exceeds %d bytes", h.maxUploadBytes),
			})
			return
		}
		httputil.HandleBadRequestGin(c, fmt.Errorf("file is required: %w", err), h.logger)
		return
	}

	req := dto.UploadMediaRequest{
		Address:  c.PostForm("address"),
		FileName: fileHeader.Filename,
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	content, err := readFormFile(fileHeader)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	defer cryptoDomain.Zero(content)

	blobID, err := h.mediaUseCase.Upload(c.Request.Context(), &mediaDomain.UploadInput{
		Address:  req.Address,
		FileName: filepath.Base(req.FileName),
		MimeType: detectMimeType(fileHeader.Header.Get("Content-Type"), content),
		Content:  content,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.UploadMediaResponse{BlobID: blobID})
}

// ListHandler lists the blob ids an address holds records for.
// GET /v1/media?address=0x...&offset=0&limit=100
func (h *MediaHandler) ListHandler(c *gin.Context) {
	req := dto.ListMediaRequest{Address: c.Query("address")}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	blobIDs, err := h.mediaUseCase.List(c.Request.Context(), req.Address)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	address, _ := walletDomain.NormalizeAddress(req.Address)
	c.JSON(http.StatusOK, dto.MapBlobIDsToListResponse(address, httputil.Page(blobIDs, offset, limit)))
}

// DownloadHandler decrypts the caller's copy of a blob.
// POST /v1/media/download
// Returns 200 with the raw file bytes, its MIME type and an attachment disposition.
func (h *MediaHandler) DownloadHandler(c *gin.Context) {
	var req dto.DownloadMediaRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	media, err := h.mediaUseCase.Download(c.Request.Context(), req.Address, req.PasswordHash, req.BlobID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer cryptoDomain.Zero(media.Content)

	c.Header("Content-Disposition", attachment(media.FileName))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, media.MimeType, media.Content)
}

// ShareHandler re-wraps the content key of one of the caller's blobs for another wallet.
// POST /v1/media/share
func (h *MediaHandler) ShareHandler(c *gin.Context) {
	var req dto.ShareMediaRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	err := h.mediaUseCase.Share(c.Request.Context(), &mediaDomain.ShareInput{
		Address:            req.Address,
		PasswordHash:       req.PasswordHash,
		BlobID:             req.BlobID,
		DestinationAddress: req.DestinationAddress,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ShareMediaResponse{Status: "success"})
}

// readFormFile reads an uploaded part into memory.
func readFormFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return content, nil
}

// detectMimeType keeps the type the client declared unless it is missing or generic,
// in which case the content is sniffed.
func detectMimeType(declared string, content []byte) string {
	if declared != "" && declared != genericMimeType {
		return declared
	}
	return mimetype.Detect(content).String()
}

// attachment builds a Content-Disposition value for fileName.
func attachment(fileName string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": fileName}); v != "" {
		return v
	}
	return "attachment"
}
