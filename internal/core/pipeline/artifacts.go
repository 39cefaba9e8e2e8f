package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Airohh/Appli-Food-Course/internal/core/shopping"
	"github.com/Airohh/Appli-Food-Course/internal/pkg/common"

	"go.uber.org/zap"
)

// Store persists the run artifacts under one directory. In dry-run mode
// writes are replaced by a log line describing the would-be change.
type Store struct {
	dir    string
	dryRun bool
}

// NewStore builds a Store rooted at dir.
func NewStore(dir string, dryRun bool) *Store {
	return &Store{dir: dir, dryRun: dryRun}
}

func (s *Store) MenuPath() string      { return filepath.Join(s.dir, "menu.json") }
func (s *Store) GroceriesPath() string { return filepath.Join(s.dir, "groceries.json") }
func (s *Store) PurchasesPath() string { return filepath.Join(s.dir, "achats_filtres.json") }

// SaveJSON writes data as indented JSON. Dry-run logs old versus new list
// sizes instead of touching the file.
func (s *Store) SaveJSON(path string, data interface{}) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if s.dryRun {
		fields := []zap.Field{zap.String("path", path)}
		if newLen, ok := lengthOf(data); ok {
			fields = append(fields, zap.Int("new", newLen))
			if oldLen, ok := existingLength(path); ok {
				fields = append(fields, zap.Int("old", oldLen))
			}
		}
		common.LogInfo("dry-run, file not written", fields...)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	common.LogInfo("artifact written", zap.String("path", path))
	return nil
}

func lengthOf(data interface{}) (int, bool) {
	switch v := data.(type) {
	case []shopping.GroceryLine:
		return len(v), true
	case []shopping.StockEntry:
		return len(v), true
	case []MenuEntry:
		return len(v), true
	}
	return 0, false
}

func existingLength(path string) (int, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0, false
	}
	return len(items), true
}

// LoadStock reads a pantry snapshot file. A missing file is an empty stock,
// not an error.
func LoadStock(path string) ([]shopping.StockEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			common.LogWarn("no local stock snapshot", zap.String("path", path))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read stock snapshot: %w", err)
	}
	entries, err := shopping.DecodeStockEntries(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode stock snapshot: %w", err)
	}
	return entries, nil
}

// LoadGroceries reads a previously written shopping list artifact.
func LoadGroceries(path string) ([]shopping.GroceryLine, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read groceries artifact: %w", err)
	}
	lines, err := shopping.DecodeGroceryLines(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode groceries artifact: %w", err)
	}
	return lines, nil
}
