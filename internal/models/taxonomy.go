package models

import "time"

type Category struct {
	ID        int64
	Name      string
	NameKh    *string
	Icon      *string
	Type      string
	Count     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Author struct {
	ID        int64
	Name      string
	NameKh    *string
	Biography *string
	Website   *string
}

type Publisher struct {
	ID     int64
	Name   string
	NameKh *string
}

type Department struct {
	ID   int64
	Name string
	Code *string
}

type MaterialType struct {
	ID     int64
	Name   string
	NameKh *string
}

type Download struct {
	ID           int64
	UserID       int64
	BookID       int64
	IPAddress    *string
	DownloadedAt time.Time

	User *User
	Book *Book
}
