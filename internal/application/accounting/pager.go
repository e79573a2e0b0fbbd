package accounting

import (
	"context"
	"fmt"

	"github.com/jhoicas/Taller-api/internal/application/dto"
)

type pageFetcher[T any] func(ctx context.Context, page, size int) (*dto.Page[T], error)

// pagedItems resultado de recorrer un listado remoto.
type pagedItems[T any] struct {
	Items  []T
	Pages  int
	Capped bool // se alcanzó MaxPages sin ver la última página
}

// collectPages pide páginas desde la 0 hasta que el servicio marca la última, llega una
// página vacía o se alcanza el tope de páginas. Ante un error devuelve lo acumulado
// hasta entonces junto con el error; el llamador decide si es fatal.
func collectPages[T any](ctx context.Context, pageSize, maxPages int, fetch pageFetcher[T]) (pagedItems[T], error) {
	var out pagedItems[T]
	for page := 0; page < maxPages; page++ {
		p, err := fetch(ctx, page, pageSize)
		if err != nil {
			return out, fmt.Errorf("página %d: %w", page, err)
		}
		out.Pages++
		if p == nil || len(p.Content) == 0 {
			return out, nil
		}
		out.Items = append(out.Items, p.Content...)
		if p.Last {
			return out, nil
		}
	}
	out.Capped = true
	return out, nil
}
