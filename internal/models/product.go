package models

import "time"

// MaxProductImages caps how many image files a product may carry.
const MaxProductImages = 5

// Specifications holds the fixed hardware fields every phone record carries.
type Specifications struct {
	RAMCapacity        int     `json:"ram_capacity" validate:"required,gt=0"`
	InternalMemory     int     `json:"internal_memory" validate:"required,gt=0"`
	ScreenSize         float64 `json:"screen_size" validate:"required,gt=0"`
	BatteryCapacity    int     `json:"battery_capacity" validate:"required,gt=0"`
	Processor          string  `json:"processor" validate:"required"`
	PrimaryCameraRear  int     `json:"primary_camera_rear" validate:"required,gt=0"`
	PrimaryCameraFront int     `json:"primary_camera_front" validate:"required,gt=0"`
}

// Product represents a phone in the catalog. Image paths are stored relative
// to the public static directory. AverageRating and TotalRatings are
// maintained by the rating service, stock by the order service.
type Product struct {
	ID             string         `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name           string         `json:"name" validate:"required,min=2,max=100"`
	Price          float64        `json:"price" validate:"required,gt=0"`
	BrandID        string         `json:"brand" gorm:"type:varchar(36);index" validate:"required"`
	Stock          int            `json:"stock" validate:"gte=0"`
	Specifications Specifications `json:"specifications" gorm:"embedded;embeddedPrefix:spec_"`
	Images         []string       `json:"images" gorm:"serializer:json"`
	AverageRating  float64        `json:"averageRating"`
	TotalRatings   int            `json:"totalRatings"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ProductWithBrand is the list/detail DTO with the brand name joined in.
type ProductWithBrand struct {
	Product
	BrandName string `json:"brandName"`
}
