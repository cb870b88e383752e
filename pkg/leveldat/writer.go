package leveldat

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/xid"
)

// BackupSuffix is appended to the previous file when a write makes one.
const BackupSuffix = ".backup"

// WriteFile serializes f and replaces the file at path. The bytes land in
// a uniquely named temp file first and move into place with a rename, a
// failed write never truncates the original. With backup set, the previous
// file is kept next to it under BackupSuffix before being replaced.
func WriteFile(f *File, path string, backup bool) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	if backup {
		if err = backupFile(path); err != nil {
			return err
		}
	}
	tmp := path + ".tmp." + xid.New().String()
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", tmp, err)
	}
	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("error replacing %s: %w", path, err)
	}
	return nil
}

func backupFile(path string) error {
	prev, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading %s for backup: %w", path, err)
	}
	if err = os.WriteFile(path+BackupSuffix, prev, 0o644); err != nil {
		return fmt.Errorf("error writing backup: %w", err)
	}
	return nil
}
