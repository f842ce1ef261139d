package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
)

// Persist writes bundle to s: containers, then every distribution edge, then
// access records, classifications and items. The first failure aborts the
// run; nothing already written is rolled back.
func Persist(ctx context.Context, s Store, bundle *models.Bundle, log zerolog.Logger) error {
	for _, c := range bundle.Containers {
		if !c.IsResolved() {
			return &PersistenceError{Op: OpCreateContainers, Err: fmt.Errorf("%w: %s", models.ErrState, c)}
		}
	}

	if err := s.CreateContainers(ctx, bundle.Containers); err != nil {
		return &PersistenceError{Op: OpCreateContainers, Err: err}
	}
	log.Debug().Int("count", len(bundle.Containers)).Msg("containers persisted")

	edges := Edges(bundle.Containers)
	for _, e := range edges {
		if err := s.CreateDistributionEdge(ctx, e.ParentID, e.ChildID); err != nil {
			return &PersistenceError{Op: OpCreateEdge, Err: fmt.Errorf("%s->%s: %w", e.ParentID, e.ChildID, err)}
		}
	}
	log.Debug().Int("count", len(edges)).Msg("distribution edges persisted")

	if err := s.CreateAccessRecords(ctx, bundle.AccessRecords); err != nil {
		return &PersistenceError{Op: OpCreateAccessRecords, Err: err}
	}
	if err := s.CreateClassifications(ctx, bundle.Classifications); err != nil {
		return &PersistenceError{Op: OpCreateClassifications, Err: err}
	}
	if err := s.CreateItems(ctx, bundle.Items); err != nil {
		return &PersistenceError{Op: OpCreateItems, Err: err}
	}

	log.Info().
		Strs("domains", bundle.Domains()).
		Int("containers", len(bundle.Containers)).
		Int("accessRecords", len(bundle.AccessRecords)).
		Int("classifications", len(bundle.Classifications)).
		Int("items", len(bundle.Items)).
		Msg("bundle persisted")
	return nil
}
