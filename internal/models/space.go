package models

import "time"

// Space is a canonical bookable room within a building.
type Space struct {
	ID           string    `db:"id" json:"id"`
	BuildingCode string    `db:"building_code" json:"buildingCode"`
	BuildingName string    `db:"building_name" json:"buildingName"`
	SpaceNumber  string    `db:"space_number" json:"spaceNumber"`
	DisplayName  string    `db:"display_name" json:"displayName"`
	Capacity     int       `db:"capacity" json:"capacity"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SpaceFilter filters space catalog listings.
type SpaceFilter struct {
	BuildingCode string
	Search       string
	Page         int
	PageSize     int
}
