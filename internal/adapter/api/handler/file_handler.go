package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"lokalmarket/internal/infrastructure/storage"
	"lokalmarket/internal/usecase"
	"lokalmarket/pkg/errors"
	"lokalmarket/pkg/logger"
	"lokalmarket/pkg/response"
)

const maxImageSize = 5 << 20 // 5MB

type FileHandler struct {
	storageClient *storage.CloudStorageClient
	listingUC     *usecase.ListingUseCase
}

func NewFileHandler(storageClient *storage.CloudStorageClient, listingUC *usecase.ListingUseCase) *FileHandler {
	return &FileHandler{
		storageClient: storageClient,
		listingUC:     listingUC,
	}
}

// UploadListingImages stores uploaded images and attaches their URLs to the
// caller's listing.
func (h *FileHandler) UploadListingImages(c echo.Context) error {
	listingID := c.Param("id")
	if listingID == "" {
		return response.Error(c, errors.BadRequest("Listing ID is required", nil))
	}

	userID := c.Get("uid").(string)

	form, err := c.MultipartForm()
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid multipart form", err))
	}

	files := form.File["images"]
	if len(files) == 0 {
		return response.Error(c, errors.Validation("No images provided", nil))
	}

	urls := make([]string, 0, len(files))
	for _, fileHeader := range files {
		if fileHeader.Size > maxImageSize {
			return response.Error(c, errors.Validation("Image exceeds the 5MB limit", nil))
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if !strings.HasPrefix(contentType, "image/") {
			return response.Error(c, errors.Validation("Only image files are allowed", nil))
		}

		src, err := fileHeader.Open()
		if err != nil {
			return response.Error(c, errors.Internal("Failed to open uploaded file", err))
		}

		url, err := h.storageClient.UploadImage(c.Request().Context(), src, contentType, "listings/"+listingID)
		src.Close()
		if err != nil {
			logger.Error("Failed to upload image for listing %s: %v", listingID, err)
			return response.Error(c, errors.Internal("Failed to upload image", err))
		}

		urls = append(urls, url)
	}

	listing, err := h.listingUC.AttachImages(c.Request().Context(), userID, listingID, urls)
	if err != nil {
		// The listing rejected the upload; remove the orphaned objects.
		for _, url := range urls {
			if delErr := h.storageClient.DeleteFile(c.Request().Context(), url); delErr != nil {
				logger.Warn("Failed to remove orphaned image %s: %v", url, delErr)
			}
		}
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}
