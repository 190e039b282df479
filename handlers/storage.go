package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"chalethaven/models"
	"chalethaven/services/storage"
	"chalethaven/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxUploadBytes caps server-side uploads.
const maxUploadBytes = 10 << 20

type UploadSigner interface {
	Sign(folder string) (models.UploadSignature, error)
}

type FileUploader interface {
	Upload(ctx context.Context, file io.Reader, folder string) (*models.UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// StorageHandler signs browser uploads and proxies server-side ones. A nil
// signer or uploader means the media host is not configured.
type StorageHandler struct {
	signer     UploadSigner
	uploader   FileUploader
	baseFolder string
}

// allowedFolders are the listing media sections an upload may target.
var allowedFolders = map[string]bool{
	"exterior": true,
	"interior": true,
	"gallery":  true,
	"rooms":    true,
}

func NewStorageHandler(signer UploadSigner, uploader FileUploader, baseFolder string) *StorageHandler {
	return &StorageHandler{signer: signer, uploader: uploader, baseFolder: baseFolder}
}

func notConfigured(c *gin.Context) {
	utils.JSONError(c, http.StatusServiceUnavailable, storage.ErrNotConfigured.Error(), "")
}

// Sign handles POST /api/upload/sign.
func (h *StorageHandler) Sign(c *gin.Context) {
	if h.signer == nil {
		notConfigured(c)
		return
	}
	var req models.UploadSignRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
			return
		}
	}
	folder, err := storage.ResolveFolder(h.baseFolder, req.Folder, allowedFolders)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid upload folder", req.Folder)
		return
	}
	sig, err := h.signer.Sign(folder)
	if err != nil {
		getLogger(c).Error("Failed to sign upload", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to sign upload", "")
		return
	}
	respondOK(c, http.StatusOK, sig)
}

// Upload handles POST /api/upload with a multipart "file" field.
func (h *StorageHandler) Upload(c *gin.Context) {
	logger := getLogger(c)
	if h.uploader == nil {
		notConfigured(c)
		return
	}

	// The allowance covers multipart framing and the folder field.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes+1<<20)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.JSONError(c, http.StatusRequestEntityTooLarge, "File is too large", "")
			return
		}
		utils.JSONError(c, http.StatusBadRequest, "File not provided", err.Error())
		return
	}
	folder, err := storage.ResolveFolder(h.baseFolder, c.PostForm("folder"), allowedFolders)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid upload folder", c.PostForm("folder"))
		return
	}
	if fileHeader.Size > maxUploadBytes {
		utils.JSONError(c, http.StatusRequestEntityTooLarge, "File is too large", "")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Failed to read file", err.Error())
		return
	}
	defer file.Close()

	result, err := h.uploader.Upload(c.Request.Context(), file, folder)
	if err != nil {
		logger.Error("Image upload failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Failed to upload file", "")
		return
	}
	respondOK(c, http.StatusCreated, result)
}

// Delete handles DELETE /api/upload/*publicID.
func (h *StorageHandler) Delete(c *gin.Context) {
	if h.uploader == nil {
		notConfigured(c)
		return
	}
	publicID := strings.TrimLeft(c.Param("publicID"), "/")
	if publicID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Public id is required", "")
		return
	}
	if err := h.uploader.Delete(c.Request.Context(), publicID); err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			notConfigured(c)
			return
		}
		utils.JSONError(c, http.StatusBadGateway, "Failed to delete file", err.Error())
		return
	}
	c.JSON(http.StatusOK, successResponse{Success: true, Message: "Deleted"})
}
