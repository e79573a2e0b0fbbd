package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceRecord entrada del historial de servicio de un cliente.
// Las importadas desde el sistema contable llevan RemoteID = ID de la factura remota.
type ServiceRecord struct {
	ID          string
	RemoteID    string
	CustomerID  string
	VehicleID   string // opcional
	Date        time.Time
	Description string
	Cost        decimal.NullDecimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
