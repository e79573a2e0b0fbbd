package entity

import "time"

// CompanyPlaceholderLastName apellido que marca un cliente creado a partir de un contacto
// remoto que solo tiene datos de empresa (sin persona). Nunca se exporta.
const CompanyPlaceholderLastName = "(Firma)"

// Customer representa un cliente del taller.
// RemoteID vacío significa que el cliente aún no está vinculado al sistema contable.
type Customer struct {
	ID        string
	RemoteID  string // ID del contacto en el sistema contable (único si no está vacío)
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string // "<calle>, <CP> <ciudad>"
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCompanyPlaceholder indica si el cliente es un marcador de empresa sin persona.
func (c *Customer) IsCompanyPlaceholder() bool {
	return c.LastName == CompanyPlaceholderLastName
}

// IsExportable indica si el cliente tiene datos de persona suficientes para crearlo
// como contacto remoto.
func (c *Customer) IsExportable() bool {
	return c.RemoteID == "" && c.LastName != "" && !c.IsCompanyPlaceholder()
}
