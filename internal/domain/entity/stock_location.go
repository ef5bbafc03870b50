package entity

import "time"

// StockLocation representa un lugar físico de almacenamiento (cámara fría, despensa, vitrina).
type StockLocation struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
