package accounting

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// customerFields campos locales que se derivan de un contacto remoto.
type customerFields struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

// applyTo sobrescribe los campos del cliente (gana el remoto).
func (f customerFields) applyTo(c *entity.Customer) {
	c.FirstName = f.FirstName
	c.LastName = f.LastName
	c.Email = f.Email
	c.Phone = f.Phone
	c.Address = f.Address
}

// mapContact traduce un contacto remoto a campos de cliente.
// Con persona se usan sus nombres; solo con empresa el nombre de la empresa va en
// FirstName y LastName lleva el marcador de empresa.
func mapContact(c dto.RemoteContact) customerFields {
	var f customerFields
	switch {
	case c.Person != nil:
		f.FirstName = clean(c.Person.FirstName)
		f.LastName = clean(c.Person.LastName)
	case c.Company != nil:
		f.FirstName = clean(c.Company.Name)
		f.LastName = entity.CompanyPlaceholderLastName
	}

	if e := c.EmailAddresses; e != nil {
		f.Email = firstNonEmpty(e.Business, e.Private, e.Other)
	}
	if p := c.PhoneNumbers; p != nil {
		f.Phone = firstNonEmpty(p.Business, p.Mobile, p.Private, p.Other)
	}
	if a := c.Addresses; a != nil {
		f.Address = flattenAddress(a.Billing)
		if f.Address == "" {
			f.Address = flattenAddress(a.Shipping)
		}
	}
	return f
}

// flattenAddress usa la primera dirección de la lista.
func flattenAddress(list []dto.PostalAddress) string {
	if len(list) == 0 {
		return ""
	}
	a := list[0]
	return FormatAddress(clean(a.Street), clean(a.Zip), clean(a.City))
}

// firstNonEmpty recorre las listas en orden de prioridad.
func firstNonEmpty(lists ...[]string) string {
	for _, l := range lists {
		for _, v := range l {
			if v = clean(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// clean recorta y normaliza a NFC para que importaciones repetidas produzcan los mismos bytes.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
