package entity

import "time"

// AccountingSettings registro único con la credencial del sistema contable
// y la marca de la última sincronización.
type AccountingSettings struct {
	APIKey     string
	LastSyncAt *time.Time
	UpdatedAt  time.Time
}

// HasCredential indica si hay una API key utilizable.
func (s *AccountingSettings) HasCredential() bool {
	return s != nil && s.APIKey != ""
}
