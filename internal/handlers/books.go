package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"elibrary/api/internal/apperr"
	"elibrary/api/internal/middleware"
	"elibrary/api/internal/models"
	"elibrary/api/internal/repository"
	"elibrary/api/internal/response"
)

func queryInt64(c *gin.Context, name string) *int64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryInt(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

func queryBool(c *gin.Context, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// isStaff reports whether the request carries a librarian or admin
// identity. Anonymous and regular users only see active records.
func isStaff(c *gin.Context) bool {
	user, ok := middleware.CurrentUser(c)
	return ok && (user.HasRole("admin") || user.HasRole("librarian"))
}

func (h HandlerSet) ListBooks(c *gin.Context) {
	page, limit, offset := pageParams(c)

	filter := repository.BookFilter{
		Search:          c.Query("search"),
		CategoryID:      queryInt64(c, "categoryId"),
		PublisherID:     queryInt64(c, "publisherId"),
		DepartmentID:    queryInt64(c, "departmentId"),
		TypeID:          queryInt64(c, "typeId"),
		PublicationYear: queryInt(c, "publicationYear"),
		IsActive:        queryBool(c, "isActive"),
		SortBy:          c.Query("sortBy"),
		SortDesc:        c.Query("sortOrder") == "desc",
	}
	if !isStaff(c) {
		active := true
		filter.IsActive = &active
	}

	books, total, err := h.books.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := response.Paginate(page, limit, total)
	response.Success(c, 200, bookDTOs(books), "Books retrieved", &pagination)
}

func (h HandlerSet) GetBook(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	book, err := h.books.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.counters.Bump(c.Request.Context(), "views:book", id)
	response.OK(c, bookDTO(book), "Book retrieved")
}

type bookAuthorRequest struct {
	ID        int64 `json:"id" binding:"required"`
	IsPrimary bool  `json:"isPrimary"`
}

type createBookRequest struct {
	Title           string              `json:"title" binding:"required"`
	TitleKh         *string             `json:"titleKh"`
	ISBN            *string             `json:"isbn"`
	PublicationYear *int                `json:"publicationYear"`
	Description     *string             `json:"description"`
	CoverURL        *string             `json:"coverUrl"`
	PDFURL          *string             `json:"pdfUrl"`
	Pages           *int                `json:"pages"`
	CategoryID      *int64              `json:"categoryId"`
	PublisherID     *int64              `json:"publisherId"`
	DepartmentID    *int64              `json:"departmentId"`
	TypeID          *int64              `json:"typeId"`
	IsActive        *bool               `json:"isActive"`
	Authors         []bookAuthorRequest `json:"authors"`
}

func (h HandlerSet) CreateBook(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	book := models.Book{
		Title:           req.Title,
		TitleKh:         req.TitleKh,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		Description:     req.Description,
		CoverURL:        req.CoverURL,
		PDFURL:          req.PDFURL,
		Pages:           req.Pages,
		CategoryID:      req.CategoryID,
		PublisherID:     req.PublisherID,
		DepartmentID:    req.DepartmentID,
		TypeID:          req.TypeID,
		IsActive:        true,
	}
	if req.IsActive != nil {
		book.IsActive = *req.IsActive
	}

	book, err := h.books.Create(c.Request.Context(), book)
	if err != nil {
		response.Error(c, err)
		return
	}

	if len(req.Authors) > 0 {
		authors := make([]models.BookAuthor, 0, len(req.Authors))
		for _, a := range req.Authors {
			authors = append(authors, models.BookAuthor{
				Author:    models.Author{ID: a.ID},
				IsPrimary: a.IsPrimary,
			})
		}
		if err := h.books.SetAuthors(c.Request.Context(), book.ID, authors); err != nil {
			response.Error(c, err)
			return
		}
	}

	book, err = h.books.GetByID(c.Request.Context(), book.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, bookDTO(book), "Book created")
}

type updateBookRequest struct {
	Title           *string             `json:"title"`
	TitleKh         *string             `json:"titleKh"`
	ISBN            *string             `json:"isbn"`
	PublicationYear *int                `json:"publicationYear"`
	Description     *string             `json:"description"`
	CoverURL        *string             `json:"coverUrl"`
	PDFURL          *string             `json:"pdfUrl"`
	Pages           *int                `json:"pages"`
	CategoryID      *int64              `json:"categoryId"`
	PublisherID     *int64              `json:"publisherId"`
	DepartmentID    *int64              `json:"departmentId"`
	TypeID          *int64              `json:"typeId"`
	IsActive        *bool               `json:"isActive"`
	Authors         []bookAuthorRequest `json:"authors"`
}

func (h HandlerSet) UpdateBook(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.ValidationDetails("Invalid request body", err.Error()))
		return
	}

	_, err = h.books.Update(c.Request.Context(), id, repository.BookPatch{
		Title:           req.Title,
		TitleKh:         req.TitleKh,
		ISBN:            req.ISBN,
		PublicationYear: req.PublicationYear,
		Description:     req.Description,
		CoverURL:        req.CoverURL,
		PDFURL:          req.PDFURL,
		Pages:           req.Pages,
		CategoryID:      req.CategoryID,
		PublisherID:     req.PublisherID,
		DepartmentID:    req.DepartmentID,
		TypeID:          req.TypeID,
		IsActive:        req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if req.Authors != nil {
		authors := make([]models.BookAuthor, 0, len(req.Authors))
		for _, a := range req.Authors {
			authors = append(authors, models.BookAuthor{
				Author:    models.Author{ID: a.ID},
				IsPrimary: a.IsPrimary,
			})
		}
		if err := h.books.SetAuthors(c.Request.Context(), id, authors); err != nil {
			response.Error(c, err)
			return
		}
	}

	book, err := h.books.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, bookDTO(book), "Book updated")
}

func (h HandlerSet) DeleteBook(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.books.SoftDelete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nil, "Book deleted")
}

// DownloadBook records who downloaded what and hands back the file URL.
func (h HandlerSet) DownloadBook(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	current, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperr.Authentication("Authentication required"))
		return
	}

	book, err := h.books.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if book.PDFURL == nil || *book.PDFURL == "" {
		response.Error(c, apperr.NotFound("This book has no downloadable file"))
		return
	}

	if _, err := h.downloads.Create(c.Request.Context(), current.ID, id, c.ClientIP()); err != nil {
		response.Error(c, err)
		return
	}
	h.counters.Bump(c.Request.Context(), "downloads:book", id)

	response.OK(c, gin.H{"url": *book.PDFURL}, "Download recorded")
}

func (h HandlerSet) BookDownloads(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	page, limit, offset := pageParams(c)

	items, total, err := h.downloads.List(c.Request.Context(), repository.DownloadFilter{BookID: &id}, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := response.Paginate(page, limit, total)
	response.Success(c, 200, downloadDTOs(items), "Downloads retrieved", &pagination)
}
