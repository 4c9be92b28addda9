// Package production provides production integrations: snapshot persistence,
// transition publishing and navigation graphs.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/a11yx/internal/core"
	"github.com/comalice/a11yx/internal/primitives"
)

// JSONPersister is a file-based persister writing one JSON document per store.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func (p *JSONPersister) Save(ctx context.Context, snapshot primitives.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	fn, err := snapshotPath(p.dir, snapshot.StoreID, ".json")
	if err != nil {
		return err
	}
	return writeAtomic(fn, data)
}

func (p *JSONPersister) Load(ctx context.Context, storeID string) (primitives.Snapshot, error) {
	fn, err := snapshotPath(p.dir, storeID, ".json")
	if err != nil {
		return primitives.Snapshot{}, err
	}
	data, err := readSnapshot(fn, storeID)
	if err != nil {
		return primitives.Snapshot{}, err
	}

	var snapshot primitives.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return primitives.Snapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	snapshot.StoreID = storeID
	return snapshot, nil
}

// YAMLPersister is a file-based persister using YAML serialization.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Save(ctx context.Context, snapshot primitives.Snapshot) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	fn, err := snapshotPath(p.dir, snapshot.StoreID, ".yaml")
	if err != nil {
		return err
	}
	return writeAtomic(fn, data)
}

func (p *YAMLPersister) Load(ctx context.Context, storeID string) (primitives.Snapshot, error) {
	fn, err := snapshotPath(p.dir, storeID, ".yaml")
	if err != nil {
		return primitives.Snapshot{}, err
	}
	data, err := readSnapshot(fn, storeID)
	if err != nil {
		return primitives.Snapshot{}, err
	}

	var snapshot primitives.Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return primitives.Snapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	snapshot.StoreID = storeID
	if snapshot.State.Status != "" && !snapshot.State.Status.Valid() {
		return primitives.Snapshot{}, fmt.Errorf("load %s: unknown status %q", fn, snapshot.State.Status)
	}
	return snapshot, nil
}

func snapshotPath(dir, storeID, ext string) (string, error) {
	if storeID == "" || strings.ContainsAny(storeID, `/\`) || storeID == "." || storeID == ".." {
		return "", fmt.Errorf("invalid store id %q", storeID)
	}
	return filepath.Join(dir, storeID+ext), nil
}

func readSnapshot(fn, storeID string) ([]byte, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("store %q: %w: %w", storeID, core.ErrNotFound, err)
		}
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	return data, nil
}

// writeAtomic writes through a temp file so a crash never leaves half a snapshot.
func writeAtomic(fn string, data []byte) error {
	tmp := fn + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, fn); err != nil {
		return fmt.Errorf("rename %s: %w", fn, err)
	}
	return nil
}
