// Package storage almacenamiento durable de archivos de clientes (PDFs de facturas)
// sobre go-billy: osfs en producción, memfs en tests.
package storage

import (
	"fmt"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/jhoicas/Taller-api/internal/application/ports"
)

var _ ports.FileStore = (*BillyStore)(nil)

// BillyStore implementa ports.FileStore. Las rutas son relativas a la raíz del filesystem.
type BillyStore struct {
	fs billy.Filesystem
}

// NewBillyStore envuelve un filesystem de go-billy.
func NewBillyStore(fs billy.Filesystem) *BillyStore {
	return &BillyStore{fs: fs}
}

// NewOSStore almacena bajo el directorio root del disco (se crea si no existe).
func NewOSStore(root string) (*BillyStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear raíz %q: %w", root, err)
	}
	return NewBillyStore(osfs.New(root)), nil
}

// Write guarda data en p creando los directorios intermedios.
// Si la escritura falla se intenta borrar el archivo parcial.
func (s *BillyStore) Write(p string, data []byte) error {
	if dir := path.Dir(p); dir != "." && dir != "/" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("storage: mkdirall %q: %w", dir, err)
		}
	}
	if err := util.WriteFile(s.fs, p, data, 0o644); err != nil {
		_ = s.fs.Remove(p)
		return fmt.Errorf("storage: write %q: %w", p, err)
	}
	return nil
}
