package entity

import "time"

type Category struct {
	ID              uint64
	Name            string
	Icon            string
	BackgroundColor string
	IconColor       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Subject struct {
	ID         uint64
	Name       string
	CategoryID uint64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Offer struct {
	ID               uint64
	AuthorID         uint64
	AuthorRole       string
	SubjectID        uint64
	Title            string
	Description      string
	Price            float64
	ProficiencyLevel string
	Language         string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
