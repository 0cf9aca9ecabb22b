package handlers

import (
	"github.com/gin-gonic/gin"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/models"
	"elibrary/api/internal/repository"
	"elibrary/api/internal/response"
)

func (h HandlerSet) ListAudios(c *gin.Context) {
	page, limit, offset := pageParams(c)

	items, total, err := h.audios.List(c.Request.Context(), catalogFilter(c), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := response.Paginate(page, limit, total)
	response.Success(c, 200, audioDTOs(items), "Audios retrieved", &pagination)
}

func (h HandlerSet) GetAudio(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.audios.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.counters.Bump(c.Request.Context(), "plays:audio", id)
	response.OK(c, audioDTO(item), "Audio retrieved")
}

type createAudioRequest struct {
	Title        string  `json:"title" binding:"required"`
	TitleKh      *string `json:"titleKh"`
	Speaker      *string `json:"speaker"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	AudioURL     *string `json:"audioUrl"`
	Duration     *string `json:"duration"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	IsActive     *bool   `json:"isActive"`
}

func (h HandlerSet) CreateAudio(c *gin.Context) {
	var req createAudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	item := models.Audio{
		Title:        req.Title,
		TitleKh:      req.TitleKh,
		Speaker:      req.Speaker,
		ThumbnailURL: req.ThumbnailURL,
		AudioURL:     req.AudioURL,
		Duration:     req.Duration,
		Description:  req.Description,
		Category:     req.Category,
		IsActive:     true,
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	item, err := h.audios.Create(c.Request.Context(), item)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, audioDTO(item), "Audio created")
}

type updateAudioRequest struct {
	Title        *string `json:"title"`
	TitleKh      *string `json:"titleKh"`
	Speaker      *string `json:"speaker"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	AudioURL     *string `json:"audioUrl"`
	Duration     *string `json:"duration"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	IsActive     *bool   `json:"isActive"`
}

func (h HandlerSet) UpdateAudio(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updateAudioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	item, err := h.audios.Update(c.Request.Context(), id, repository.AudioPatch{
		Title:        req.Title,
		TitleKh:      req.TitleKh,
		Speaker:      req.Speaker,
		ThumbnailURL: req.ThumbnailURL,
		AudioURL:     req.AudioURL,
		Duration:     req.Duration,
		Description:  req.Description,
		Category:     req.Category,
		IsActive:     req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, audioDTO(item), "Audio updated")
}

func (h HandlerSet) DeleteAudio(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.audios.SoftDelete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Audio deleted")
}

func (h HandlerSet) ListVideos(c *gin.Context) {
	page, limit, offset := pageParams(c)

	items, total, err := h.videos.List(c.Request.Context(), catalogFilter(c), limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := response.Paginate(page, limit, total)
	response.Success(c, 200, videoDTOs(items), "Videos retrieved", &pagination)
}

func (h HandlerSet) GetVideo(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.videos.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.counters.Bump(c.Request.Context(), "views:video", id)
	response.OK(c, videoDTO(item), "Video retrieved")
}

type createVideoRequest struct {
	Title        string  `json:"title" binding:"required"`
	TitleKh      *string `json:"titleKh"`
	Instructor   *string `json:"instructor"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	VideoURL     *string `json:"videoUrl"`
	Duration     *string `json:"duration"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	IsActive     *bool   `json:"isActive"`
}

func (h HandlerSet) CreateVideo(c *gin.Context) {
	var req createVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	item := models.Video{
		Title:        req.Title,
		TitleKh:      req.TitleKh,
		Instructor:   req.Instructor,
		ThumbnailURL: req.ThumbnailURL,
		VideoURL:     req.VideoURL,
		Duration:     req.Duration,
		Description:  req.Description,
		Category:     req.Category,
		IsActive:     true,
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	item, err := h.videos.Create(c.Request.Context(), item)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, videoDTO(item), "Video created")
}

type updateVideoRequest struct {
	Title        *string `json:"title"`
	TitleKh      *string `json:"titleKh"`
	Instructor   *string `json:"instructor"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	VideoURL     *string `json:"videoUrl"`
	Duration     *string `json:"duration"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	IsActive     *bool   `json:"isActive"`
}

func (h HandlerSet) UpdateVideo(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	item, err := h.videos.Update(c.Request.Context(), id, repository.VideoPatch{
		Title:        req.Title,
		TitleKh:      req.TitleKh,
		Instructor:   req.Instructor,
		ThumbnailURL: req.ThumbnailURL,
		VideoURL:     req.VideoURL,
		Duration:     req.Duration,
		Description:  req.Description,
		Category:     req.Category,
		IsActive:     req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, videoDTO(item), "Video updated")
}

func (h HandlerSet) DeleteVideo(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.videos.SoftDelete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Video deleted")
}
