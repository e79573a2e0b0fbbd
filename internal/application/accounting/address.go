package accounting

import "strings"

// PostalParts dirección descompuesta en sus partes.
type PostalParts struct {
	Street string
	Zip    string
	City   string
}

// ParseAddress descompone una dirección aplanada "<calle>, <CP> <ciudad>".
//
// La heurística es deliberadamente simple y tiene modos de fallo conocidos:
//   - sin coma, todo el texto se toma como calle;
//   - el primer token tras la coma se toma como CP aunque no sea numérico
//     ("Calle 1, Berlin" → CP "Berlin", ciudad vacía);
//   - solo se corta en la primera coma, así que "Calle 1, 12345 Berlin, DE"
//     deja la ciudad como "Berlin, DE".
//
// Las ciudades de varias palabras se conservan unidas por un espacio.
func ParseAddress(s string) PostalParts {
	s = strings.TrimSpace(s)
	if s == "" {
		return PostalParts{}
	}
	street, rest, found := strings.Cut(s, ",")
	if !found {
		return PostalParts{Street: s}
	}
	p := PostalParts{Street: strings.TrimSpace(street)}
	fields := strings.Fields(rest)
	if len(fields) > 0 {
		p.Zip = fields[0]
		p.City = strings.Join(fields[1:], " ")
	}
	return p
}

// FormatAddress aplana una dirección a "<calle>, <CP> <ciudad>".
// Sin calle devuelve cadena vacía.
func FormatAddress(street, zip, city string) string {
	street = strings.TrimSpace(street)
	if street == "" {
		return ""
	}
	tail := strings.TrimSpace(strings.TrimSpace(zip) + " " + strings.TrimSpace(city))
	if tail == "" {
		return street
	}
	return street + ", " + tail
}
