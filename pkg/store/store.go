// Package store defines the persistence collaborator that receives a finished
// domain, and the Persist driver that feeds it in dependency order.
package store

import (
	"context"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
)

// Store receives generated data in bulk. Implementations fail loudly and do
// not retry.
type Store interface {
	// Migrate prepares the schema. It may be called more than once.
	Migrate(ctx context.Context) error

	CreateContainers(ctx context.Context, containers []*models.Container) error
	CreateDistributionEdge(ctx context.Context, parentID, childID string) error
	CreateAccessRecords(ctx context.Context, records []*models.AccessRecord) error
	CreateClassifications(ctx context.Context, classifications []*models.Classification) error
	CreateItems(ctx context.Context, items []*models.Item) error

	Close() error
}

// Edge is a persisted distribution edge.
type Edge struct {
	ParentID string
	ChildID  string
}

// Edges lists the direct distribution edges of containers in container order.
func Edges(containers []*models.Container) []Edge {
	var edges []Edge
	for _, c := range containers {
		for _, child := range c.DirectChildren() {
			edges = append(edges, Edge{ParentID: c.ID, ChildID: child.ID})
		}
	}
	return edges
}
