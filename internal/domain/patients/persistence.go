package patients

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// DefaultExportName es el nombre sugerido al guardar: BHW_Patient_Registry_YYYYMMDD.csv
func DefaultExportName(now time.Time) string {
	return "BHW_Patient_Registry_" + now.Format("20060102") + ".csv"
}

// LoadFile carga el registro desde path. Si el archivo no existe el registro
// arranca vacío sin error; si no se puede leer o parsear, queda vacío, LoadFailed
// pasa a true y se devuelve el error.
func (s *Service) LoadFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Info("no registry file, starting empty", map[string]any{"path": path})
			s.loadFailed.Store(false)
			return s.repo.Replace(ctx, nil)
		}
		return s.loadFailure(ctx, fmt.Errorf("open registry %s: %w", path, err))
	}
	defer f.Close()

	if err := s.Load(ctx, f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// SaveFile escribe el registro en path vía archivo temporal + rename,
// así un fallo a mitad de escritura no pisa el archivo anterior.
func (s *Service) SaveFile(ctx context.Context, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".registry-*.csv")
	if err != nil {
		return fmt.Errorf("save registry %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op después del rename

	if err := s.Save(ctx, tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save registry %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("save registry %s: %w", path, err)
	}
	return nil
}
