package handlers

import (
	"github.com/gin-gonic/gin"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/response"
	"elibrary/api/internal/service"
)

const maxFilesPerRequest = 10

func (h HandlerSet) UploadFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, apperr.Validation("No file provided"))
		return
	}
	defer file.Close()

	result, err := h.uploadService.Upload(c.Request.Context(), service.UploadInput{
		Purpose: service.UploadPurpose(c.DefaultPostForm("purpose", string(service.PurposeDocument))),
		File:    file,
		Header:  header,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result, "File uploaded")
}

func (h HandlerSet) UploadFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, apperr.Validation("Invalid multipart form"))
		return
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		response.Error(c, apperr.Validation("No files provided"))
		return
	}
	if len(headers) > maxFilesPerRequest {
		response.Error(c, apperr.Validation("Too many files in one request"))
		return
	}

	purpose := service.UploadPurpose(c.DefaultPostForm("purpose", string(service.PurposeDocument)))

	results := make([]service.UploadResult, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			response.Error(c, apperr.Validation("Unreadable file in request"))
			return
		}

		result, err := h.uploadService.Upload(c.Request.Context(), service.UploadInput{
			Purpose: purpose,
			File:    file,
			Header:  header,
		})
		file.Close()
		if err != nil {
			response.Error(c, err)
			return
		}
		results = append(results, result)
	}

	response.Created(c, results, "Files uploaded")
}
