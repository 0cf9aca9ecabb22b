package models

import "time"

type Book struct {
	ID              int64
	Title           string
	TitleKh         *string
	ISBN            *string
	PublicationYear *int
	Description     *string
	CoverURL        *string
	PDFURL          *string
	Pages           *int
	Views           int64
	Downloads       int64
	CategoryID      *int64
	PublisherID     *int64
	DepartmentID    *int64
	TypeID          *int64
	IsActive        bool
	IsDeleted       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Category     *Category
	Publisher    *Publisher
	Department   *Department
	MaterialType *MaterialType
	Authors      []BookAuthor
}

type BookAuthor struct {
	Author
	IsPrimary bool
}

type Thesis struct {
	ID          int64
	Title       string
	TitleKh     *string
	Author      *string
	Supervisor  *string
	Major       *string
	University  *string
	Year        *int
	Abstract    *string
	Description *string
	CoverURL    *string
	PDFURL      *string
	Category    *string
	Pages       *int
	Views       int64
	Downloads   int64
	IsActive    bool
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Publication struct {
	ID          int64
	Title       string
	TitleKh     *string
	Author      *string
	Year        *int
	Category    *string
	Description *string
	Publisher   *string
	ISBN        *string
	Pages       *int
	Language    *string
	CoverURL    *string
	PDFURL      *string
	Views       int64
	Downloads   int64
	IsActive    bool
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Journal struct {
	ID          int64
	Title       string
	TitleKh     *string
	Author      *string
	Abstract    *string
	Description *string
	CoverURL    *string
	PDFURL      *string
	Year        *int
	Category    *string
	Pages       *int
	Volume      *string
	ISSN        *string
	Publisher   *string
	Language    *string
	Views       int64
	Downloads   int64
	IsActive    bool
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Audio struct {
	ID           int64
	Title        string
	TitleKh      *string
	Speaker      *string
	ThumbnailURL *string
	AudioURL     *string
	Duration     *string
	Description  *string
	Category     *string
	Plays        int64
	Downloads    int64
	IsActive     bool
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Video struct {
	ID           int64
	Title        string
	TitleKh      *string
	Instructor   *string
	ThumbnailURL *string
	VideoURL     *string
	Duration     *string
	Description  *string
	Category     *string
	Views        int64
	IsActive     bool
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
