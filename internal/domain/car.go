package domain

import "time"

type CarStatus string

const (
	CarStatusAvailable   CarStatus = "AVAILABLE"
	CarStatusReserved    CarStatus = "RESERVED"
	CarStatusMaintenance CarStatus = "MAINTENANCE"
)

type CarCategory string

const (
	CarCategoryEconomy  CarCategory = "ECONOMY"
	CarCategoryStandard CarCategory = "STANDARD"
	CarCategorySUV      CarCategory = "SUV"
	CarCategoryLuxury   CarCategory = "LUXURY"
)

// Car is the catalog snapshot the orchestrator works against. Catalog CRUD
// lives elsewhere; the lifecycle only reads the daily rate and flips the
// availability flag at confirm/return/cancel.
type Car struct {
	ID             int64       `json:"id"`
	Plate          string      `json:"plate"`
	Model          string      `json:"model"`
	Category       CarCategory `json:"category"`
	DailyRateCents int64       `json:"daily_rate_cents"`
	Currency       string      `json:"currency"`
	Status         CarStatus   `json:"status"`
	CreatedOn      time.Time   `json:"created_on"`
	UpdatedOn      time.Time   `json:"updated_on"`
}

func (c *Car) IsAvailable() bool {
	return c.Status == CarStatusAvailable
}
