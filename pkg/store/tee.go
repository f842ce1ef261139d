package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
)

// Tee writes every call to all of its stores in order, stopping at the first
// failure. It lets one run fill several backends with identical data.
type Tee struct {
	stores []Store
	names  []string
}

var _ Store = (*Tee)(nil)

// NewTee combines named stores. A single store is returned unwrapped.
func NewTee(stores map[string]Store, order []string) (Store, error) {
	t := &Tee{}
	for _, name := range order {
		s, ok := stores[name]
		if !ok {
			return nil, fmt.Errorf("tee: no store named %q", name)
		}
		t.stores = append(t.stores, s)
		t.names = append(t.names, name)
	}
	switch len(t.stores) {
	case 0:
		return nil, errors.New("tee: no stores")
	case 1:
		return t.stores[0], nil
	}
	return t, nil
}

func (t *Tee) each(fn func(Store) error) error {
	for i, s := range t.stores {
		if err := fn(s); err != nil {
			return fmt.Errorf("%s: %w", t.names[i], err)
		}
	}
	return nil
}

func (t *Tee) Migrate(ctx context.Context) error {
	return t.each(func(s Store) error { return s.Migrate(ctx) })
}

func (t *Tee) CreateContainers(ctx context.Context, containers []*models.Container) error {
	return t.each(func(s Store) error { return s.CreateContainers(ctx, containers) })
}

func (t *Tee) CreateDistributionEdge(ctx context.Context, parentID, childID string) error {
	return t.each(func(s Store) error { return s.CreateDistributionEdge(ctx, parentID, childID) })
}

func (t *Tee) CreateAccessRecords(ctx context.Context, records []*models.AccessRecord) error {
	return t.each(func(s Store) error { return s.CreateAccessRecords(ctx, records) })
}

func (t *Tee) CreateClassifications(ctx context.Context, classifications []*models.Classification) error {
	return t.each(func(s Store) error { return s.CreateClassifications(ctx, classifications) })
}

func (t *Tee) CreateItems(ctx context.Context, items []*models.Item) error {
	return t.each(func(s Store) error { return s.CreateItems(ctx, items) })
}

// Close closes every store and joins their errors.
func (t *Tee) Close() error {
	var errs []error
	for i, s := range t.stores {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.names[i], err))
		}
	}
	return errors.Join(errs...)
}
