package handlers

import (
	"time"

	"elibrary/api/internal/models"
	"elibrary/api/internal/repository"
)

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	StudentID *string   `json:"studentId"`
	AvatarURL *string   `json:"avatarUrl"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func userDTO(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		StudentID: u.StudentID,
		AvatarURL: u.AvatarURL,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func userDTOs(users []models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userDTO(u))
	}
	return out
}

type permissionResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func permissionDTO(p models.Permission) permissionResponse {
	return permissionResponse{ID: p.ID, Name: p.Name, Description: p.Description}
}

func permissionDTOs(perms []models.Permission) []permissionResponse {
	out := make([]permissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, permissionDTO(p))
	}
	return out
}

type roleResponse struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Permissions []permissionResponse `json:"permissions"`
}

func roleDTO(r models.Role) roleResponse {
	return roleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Permissions: permissionDTOs(r.Permissions),
	}
}

func roleDTOs(roles []models.Role) []roleResponse {
	out := make([]roleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleDTO(r))
	}
	return out
}

type categoryResponse struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	NameKh *string `json:"nameKh"`
	Icon   *string `json:"icon"`
	Type   string  `json:"type"`
	Count  int64   `json:"count"`
}

func categoryDTO(c models.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, NameKh: c.NameKh, Icon: c.Icon, Type: c.Type, Count: c.Count}
}

type authorResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	NameKh    *string `json:"nameKh"`
	Biography *string `json:"biography"`
	Website   *string `json:"website"`
	IsPrimary *bool   `json:"isPrimary,omitempty"`
}

func authorDTO(a models.Author) authorResponse {
	return authorResponse{ID: a.ID, Name: a.Name, NameKh: a.NameKh, Biography: a.Biography, Website: a.Website}
}

type publisherResponse struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	NameKh *string `json:"nameKh"`
}

type departmentResponse struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Code *string `json:"code"`
}

type materialTypeResponse struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	NameKh *string `json:"nameKh"`
}

type bookResponse struct {
	ID              int64                 `json:"id"`
	Title           string                `json:"title"`
	TitleKh         *string               `json:"titleKh"`
	ISBN            *string               `json:"isbn"`
	PublicationYear *int                  `json:"publicationYear"`
	Description     *string               `json:"description"`
	CoverURL        *string               `json:"coverUrl"`
	PDFURL          *string               `json:"pdfUrl"`
	Pages           *int                  `json:"pages"`
	Views           int64                 `json:"views"`
	Downloads       int64                 `json:"downloads"`
	IsActive        bool                  `json:"isActive"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
	Category        *categoryResponse     `json:"category"`
	Publisher       *publisherResponse    `json:"publisher"`
	Department      *departmentResponse   `json:"department"`
	MaterialType    *materialTypeResponse `json:"materialType"`
	Authors         []authorResponse      `json:"authors"`
}

func bookDTO(b models.Book) bookResponse {
	resp := bookResponse{
		ID:              b.ID,
		Title:           b.Title,
		TitleKh:         b.TitleKh,
		ISBN:            b.ISBN,
		PublicationYear: b.PublicationYear,
		Description:     b.Description,
		CoverURL:        b.CoverURL,
		PDFURL:          b.PDFURL,
		Pages:           b.Pages,
		Views:           b.Views,
		Downloads:       b.Downloads,
		IsActive:        b.IsActive,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		Authors:         make([]authorResponse, 0, len(b.Authors)),
	}
	if b.Category != nil {
		dto := categoryDTO(*b.Category)
		resp.Category = &dto
	}
	if b.Publisher != nil {
		resp.Publisher = &publisherResponse{ID: b.Publisher.ID, Name: b.Publisher.Name, NameKh: b.Publisher.NameKh}
	}
	if b.Department != nil {
		resp.Department = &departmentResponse{ID: b.Department.ID, Name: b.Department.Name, Code: b.Department.Code}
	}
	if b.MaterialType != nil {
		resp.MaterialType = &materialTypeResponse{ID: b.MaterialType.ID, Name: b.MaterialType.Name, NameKh: b.MaterialType.NameKh}
	}
	for _, ba := range b.Authors {
		dto := authorDTO(ba.Author)
		isPrimary := ba.IsPrimary
		dto.IsPrimary = &isPrimary
		resp.Authors = append(resp.Authors, dto)
	}
	return resp
}

func bookDTOs(books []models.Book) []bookResponse {
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, bookDTO(b))
	}
	return out
}

type thesisResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	TitleKh     *string   `json:"titleKh"`
	Author      *string   `json:"author"`
	Supervisor  *string   `json:"supervisor"`
	Major       *string   `json:"major"`
	University  *string   `json:"university"`
	Year        *int      `json:"year"`
	Abstract    *string   `json:"abstract"`
	Description *string   `json:"description"`
	CoverURL    *string   `json:"coverUrl"`
	PDFURL      *string   `json:"pdfUrl"`
	Category    *string   `json:"category"`
	Pages       *int      `json:"pages"`
	Views       int64     `json:"views"`
	Downloads   int64     `json:"downloads"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func thesisDTO(t models.Thesis) thesisResponse {
	return thesisResponse{
		ID:          t.ID,
		Title:       t.Title,
		TitleKh:     t.TitleKh,
		Author:      t.Author,
		Supervisor:  t.Supervisor,
		Major:       t.Major,
		University:  t.University,
		Year:        t.Year,
		Abstract:    t.Abstract,
		Description: t.Description,
		CoverURL:    t.CoverURL,
		PDFURL:      t.PDFURL,
		Category:    t.Category,
		Pages:       t.Pages,
		Views:       t.Views,
		Downloads:   t.Downloads,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func thesisDTOs(items []models.Thesis) []thesisResponse {
	out := make([]thesisResponse, 0, len(items))
	for _, t := range items {
		out = append(out, thesisDTO(t))
	}
	return out
}

type publicationResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	TitleKh     *string   `json:"titleKh"`
	Author      *string   `json:"author"`
	Year        *int      `json:"year"`
	Category    *string   `json:"category"`
	Description *string   `json:"description"`
	Publisher   *string   `json:"publisher"`
	ISBN        *string   `json:"isbn"`
	Pages       *int      `json:"pages"`
	Language    *string   `json:"language"`
	CoverURL    *string   `json:"coverUrl"`
	PDFURL      *string   `json:"pdfUrl"`
	Views       int64     `json:"views"`
	Downloads   int64     `json:"downloads"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func publicationDTO(p models.Publication) publicationResponse {
	return publicationResponse{
		ID:          p.ID,
		Title:       p.Title,
		TitleKh:     p.TitleKh,
		Author:      p.Author,
		Year:        p.Year,
		Category:    p.Category,
		Description: p.Description,
		Publisher:   p.Publisher,
		ISBN:        p.ISBN,
		Pages:       p.Pages,
		Language:    p.Language,
		CoverURL:    p.CoverURL,
		PDFURL:      p.PDFURL,
		Views:       p.Views,
		Downloads:   p.Downloads,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func publicationDTOs(items []models.Publication) []publicationResponse {
	out := make([]publicationResponse, 0, len(items))
	for _, p := range items {
		out = append(out, publicationDTO(p))
	}
	return out
}

type journalResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	TitleKh     *string   `json:"titleKh"`
	Author      *string   `json:"author"`
	Abstract    *string   `json:"abstract"`
	Description *string   `json:"description"`
	CoverURL    *string   `json:"coverUrl"`
	PDFURL      *string   `json:"pdfUrl"`
	Year        *int      `json:"year"`
	Category    *string   `json:"category"`
	Pages       *int      `json:"pages"`
	Volume      *string   `json:"volume"`
	ISSN        *string   `json:"issn"`
	Publisher   *string   `json:"publisher"`
	Language    *string   `json:"language"`
	Views       int64     `json:"views"`
	Downloads   int64     `json:"downloads"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func journalDTO(j models.Journal) journalResponse {
	return journalResponse{
		ID:          j.ID,
		Title:       j.Title,
		TitleKh:     j.TitleKh,
		Author:      j.Author,
		Abstract:    j.Abstract,
		Description: j.Description,
		CoverURL:    j.CoverURL,
		PDFURL:      j.PDFURL,
		Year:        j.Year,
		Category:    j.Category,
		Pages:       j.Pages,
		Volume:      j.Volume,
		ISSN:        j.ISSN,
		Publisher:   j.Publisher,
		Language:    j.Language,
		Views:       j.Views,
		Downloads:   j.Downloads,
		IsActive:    j.IsActive,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

func journalDTOs(items []models.Journal) []journalResponse {
	out := make([]journalResponse, 0, len(items))
	for _, j := range items {
		out = append(out, journalDTO(j))
	}
	return out
}

type audioResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	TitleKh      *string   `json:"titleKh"`
	Speaker      *string   `json:"speaker"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	AudioURL     *string   `json:"audioUrl"`
	Duration     *string   `json:"duration"`
	Description  *string   `json:"description"`
	Category     *string   `json:"category"`
	Plays        int64     `json:"plays"`
	Downloads    int64     `json:"downloads"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func audioDTO(a models.Audio) audioResponse {
	return audioResponse{
		ID:           a.ID,
		Title:        a.Title,
		TitleKh:      a.TitleKh,
		Speaker:      a.Speaker,
		ThumbnailURL: a.ThumbnailURL,
		AudioURL:     a.AudioURL,
		Duration:     a.Duration,
		Description:  a.Description,
		Category:     a.Category,
		Plays:        a.Plays,
		Downloads:    a.Downloads,
		IsActive:     a.IsActive,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func audioDTOs(items []models.Audio) []audioResponse {
	out := make([]audioResponse, 0, len(items))
	for _, a := range items {
		out = append(out, audioDTO(a))
	}
	return out
}

type videoResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	TitleKh      *string   `json:"titleKh"`
	Instructor   *string   `json:"instructor"`
	ThumbnailURL *string   `json:"thumbnailUrl"`
	VideoURL     *string   `json:"videoUrl"`
	Duration     *string   `json:"duration"`
	Description  *string   `json:"description"`
	Category     *string   `json:"category"`
	Views        int64     `json:"views"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func videoDTO(v models.Video) videoResponse {
	return videoResponse{
		ID:           v.ID,
		Title:        v.Title,
		TitleKh:      v.TitleKh,
		Instructor:   v.Instructor,
		ThumbnailURL: v.ThumbnailURL,
		VideoURL:     v.VideoURL,
		Duration:     v.Duration,
		Description:  v.Description,
		Category:     v.Category,
		Views:        v.Views,
		IsActive:     v.IsActive,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func videoDTOs(items []models.Video) []videoResponse {
	out := make([]videoResponse, 0, len(items))
	for _, v := range items {
		out = append(out, videoDTO(v))
	}
	return out
}

type downloadResponse struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"userId"`
	BookID       int64         `json:"bookId"`
	IPAddress    *string       `json:"ipAddress"`
	DownloadedAt time.Time     `json:"downloadedAt"`
	User         *userResponse `json:"user,omitempty"`
	Book         *bookResponse `json:"book,omitempty"`
}

func downloadDTO(d models.Download) downloadResponse {
	resp := downloadResponse{
		ID:           d.ID,
		UserID:       d.UserID,
		BookID:       d.BookID,
		IPAddress:    d.IPAddress,
		DownloadedAt: d.DownloadedAt,
	}
	if d.User != nil {
		dto := userDTO(*d.User)
		resp.User = &dto
	}
	if d.Book != nil {
		dto := bookDTO(*d.Book)
		resp.Book = &dto
	}
	return resp
}

func downloadDTOs(items []models.Download) []downloadResponse {
	out := make([]downloadResponse, 0, len(items))
	for _, d := range items {
		out = append(out, downloadDTO(d))
	}
	return out
}

type topBookResponse struct {
	Book      bookResponse `json:"book"`
	Downloads int64        `json:"downloads"`
}

func topBookDTOs(items []repository.BookDownloadCount) []topBookResponse {
	out := make([]topBookResponse, 0, len(items))
	for _, item := range items {
		out = append(out, topBookResponse{Book: bookDTO(item.Book), Downloads: item.Count})
	}
	return out
}
