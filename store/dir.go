// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/table"
)

// tableDoc is the on-disk YAML layout of one table.
type tableDoc struct {
	Key  table.Key   `yaml:"key"`
	Rows []table.Row `yaml:"rows"`
}

// Dir stores one YAML file per key under Root.
type Dir struct {
	Root string
	mu   sync.Mutex
}

var _ Store = (*Dir)(nil)

// NewDir returns a Dir store, creating root if needed.
func NewDir(root string) (*Dir, error) {
	if root == "" {
		return nil, errs.Wrap(errs.ErrInvalidParameter, "store: empty directory")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errs.Wrapf(err, "store: create %s", root)
	}

	return &Dir{Root: root}, nil
}

// Load implements Store.
func (d *Dir) Load(ctx context.Context, key table.Key) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.read(key)
}

// Save implements Store. The file is replaced atomically.
func (d *Dir) Save(ctx context.Context, t *table.Table) error {
	if err := checkSave(t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	existing, err := d.read(t.Key())
	if err != nil && !errs.Is(err, errs.ErrNotFound) {
		return err
	}
	merged, err := merge(existing, t)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(tableDoc{Key: merged.Key(), Rows: merged.Rows()})
	if err != nil {
		return errs.Wrapf(err, "store: encode %s", t.Key())
	}
	path := d.path(t.Key())
	tmp := path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		return errs.Wrapf(err, "store: write %s", tmp)
	}
	if err = os.Rename(tmp, path); err != nil {
		return errs.Wrapf(err, "store: rename %s", tmp)
	}

	return nil
}

// Close implements Store.
func (d *Dir) Close() error { return nil }

func (d *Dir) path(key table.Key) string {
	return filepath.Join(d.Root, FileName(key))
}

func (d *Dir) read(key table.Key) (*table.Table, error) {
	path := d.path(key)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, errs.Wrapf(err, "store: read %s", path)
	}

	var doc tableDoc
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.WithHint(
			errs.Wrapf(errs.CombineErrors(errs.ErrInvalidParameter, err), "store: decode %s", path),
			"remove the file to rebuild the table")
	}
	if doc.Key != key {
		return nil, errs.Wrapf(errs.ErrInvalidParameter, "store: %s holds %s", path, doc.Key)
	}
	t, err := table.FromRows(key, doc.Rows)
	if err != nil {
		return nil, errs.Wrapf(err, "store: %s", path)
	}
	if err = checkMonotone(t); err != nil {
		return nil, errs.Wrapf(err, "store: %s", path)
	}

	return t, nil
}
