package repository

import (
	"encoding/json"
	"fmt"
	"os"
)

// jsonFile mirrors a collection to a human-readable JSON array on disk.
// Writes overwrite the whole file; there is no atomic rename.
type jsonFile[T any] struct {
	path string
}

// read returns the stored records. A missing file yields os.ErrNotExist.
func (f jsonFile[T]) read() ([]T, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", f.path, err)
	}
	return items, nil
}

func (f jsonFile[T]) write(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", f.path, err)
	}

	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	return nil
}
