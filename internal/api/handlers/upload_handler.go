package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"grocery-budget-backend/domain"
	"grocery-budget-backend/internal/api/presenters"
	"grocery-budget-backend/internal/utils"
	"grocery-budget-backend/pkg/upload"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	defaultMaxFileSize      = 10 * 1024 * 1024
	defaultAllowedFileTypes = "image/jpeg,image/png,image/jpg"
)

type (
	UploadHandler interface {
		UploadReceipt(c *fiber.Ctx) error
		GetReceiptImage(c *fiber.Ctx) error
		DeleteReceiptImage(c *fiber.Ctx) error
	}

	uploadHandler struct {
		uploadService upload.UploadService
		validator     *validator.Validate
		receiptsDir   string
	}
)

func NewUploadHandler(uploadService upload.UploadService, validator *validator.Validate, receiptsDir string) UploadHandler {
	return &uploadHandler{
		uploadService: uploadService,
		validator:     validator,
		receiptsDir:   receiptsDir,
	}
}

func maxFileSize() int64 {
	if raw := utils.GetConfig("MAX_FILE_SIZE"); raw != "" {
		if size, err := strconv.ParseInt(raw, 10, 64); err == nil && size > 0 {
			return size
		}
	}
	return defaultMaxFileSize
}

func allowedFileTypes() []string {
	raw := utils.GetConfig("ALLOWED_FILE_TYPES")
	if raw == "" {
		raw = defaultAllowedFileTypes
	}
	return strings.Split(raw, ",")
}

// rejectUpload enforces the inbound constraints before any processing: one
// file, allowed MIME type, bounded size.
func rejectUpload(file *multipart.FileHeader) (string, error) {
	if file.Size > maxFileSize() {
		return domain.MessageFailedFileTooLarge, domain.ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	for _, allowed := range allowedFileTypes() {
		if strings.TrimSpace(allowed) == contentType {
			return "", nil
		}
	}
	return domain.MessageFailedFileType, domain.ErrFileTypeNotAllowed
}

func (h *uploadHandler) UploadReceipt(c *fiber.Ctx) error {
	authID := c.Locals("user_id").(string)
	email, _ := c.Locals("user_email").(string)

	form, err := c.MultipartForm()
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedNoFileUploaded, err)
	}

	uploads := form.File["receipt"]
	if len(uploads) == 0 {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedNoFileUploaded, domain.ErrNoFileUploaded)
	}
	// Exactly one file per request, counted across every form field so a
	// second file smuggled under another field name is rejected too.
	totalFiles := 0
	for _, files := range form.File {
		totalFiles += len(files)
	}
	if totalFiles > 1 {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedTooManyFiles, domain.ErrTooManyFiles)
	}

	file := uploads[0]
	if message, err := rejectUpload(file); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, message, err)
	}

	fileName := fmt.Sprintf("%s_%d%s", uuid.New().String(), time.Now().UnixMilli(), filepath.Ext(file.Filename))
	rawPath := filepath.Join(h.receiptsDir, fileName)
	if err := c.SaveFile(file, rawPath); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUploadReceipt, err)
	}

	req := domain.ProcessReceiptRequest{FilePath: rawPath}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadReceipt, err)
	}

	// Detached from the request context: a client disconnect must not abort
	// in-flight OCR or DB writes, the pipeline always reaches a terminal
	// state and cleans up its files.
	res, err := h.uploadService.ProcessReceipt(context.Background(), req, authID, email)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidImage) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedInvalidImage, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUploadReceipt, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessUploadReceipt)
}

func receiptErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrExpenseNotFound),
		errors.Is(err, domain.ErrReceiptImageNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrAccessDenied):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrParseUUID):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func receiptErrorMessage(err error) string {
	if errors.Is(err, domain.ErrReceiptImageNotFound) {
		return domain.MessageFailedReceiptNotFound
	}
	return domain.MessageFailedGetReceiptImage
}

func (h *uploadHandler) GetReceiptImage(c *fiber.Ctx) error {
	authID := c.Locals("user_id").(string)
	expenseID := c.Params("id")
	thumbnail := c.Query("thumbnail") == "true"

	path, err := h.uploadService.GetReceiptImagePath(c.Context(), expenseID, authID, thumbnail)
	if err != nil {
		return presenters.ErrorResponse(c, receiptErrorStatus(err), receiptErrorMessage(err), err)
	}

	return c.SendFile(path)
}

func (h *uploadHandler) DeleteReceiptImage(c *fiber.Ctx) error {
	authID := c.Locals("user_id").(string)
	expenseID := c.Params("id")

	if err := h.uploadService.DeleteReceiptImage(c.Context(), expenseID, authID); err != nil {
		return presenters.ErrorResponse(c, receiptErrorStatus(err), receiptErrorMessage(err), err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteReceiptImage)
}
