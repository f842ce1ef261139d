package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
)

// Memory keeps everything in process and checks that every reference points
// at a record written earlier. A failing batch writes nothing.
type Memory struct {
	mu sync.RWMutex

	containers      []*models.Container
	edges           []Edge
	accessRecords   []*models.AccessRecord
	classifications []*models.Classification
	items           []*models.Item

	containerIDs      map[string]bool
	edgeIDs           map[Edge]bool
	accessIDs         map[string]bool
	classificationIDs map[string]bool
	itemIDs           map[string]bool
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		containerIDs:      map[string]bool{},
		edgeIDs:           map[Edge]bool{},
		accessIDs:         map[string]bool{},
		classificationIDs: map[string]bool{},
		itemIDs:           map[string]bool{},
	}
}

func (m *Memory) Migrate(context.Context) error {
	return nil
}

func (m *Memory) CreateContainers(_ context.Context, containers []*models.Container) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	batch := map[string]bool{}
	for _, c := range containers {
		if m.containerIDs[c.ID] || batch[c.ID] {
			return fmt.Errorf("%w: container %s", ErrDuplicate, c.ID)
		}
		batch[c.ID] = true
	}
	for _, c := range containers {
		m.containerIDs[c.ID] = true
	}
	m.containers = append(m.containers, containers...)
	return nil
}

func (m *Memory) CreateDistributionEdge(_ context.Context, parentID, childID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range []string{parentID, childID} {
		if !m.containerIDs[id] {
			return fmt.Errorf("%w: container %s", ErrNotFound, id)
		}
	}
	e := Edge{ParentID: parentID, ChildID: childID}
	if m.edgeIDs[e] {
		return fmt.Errorf("%w: edge %s->%s", ErrDuplicate, parentID, childID)
	}
	m.edgeIDs[e] = true
	m.edges = append(m.edges, e)
	return nil
}

func (m *Memory) CreateAccessRecords(_ context.Context, records []*models.AccessRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	batch := map[string]bool{}
	for _, r := range records {
		if m.accessIDs[r.ID] || batch[r.ID] {
			return fmt.Errorf("%w: access record %s", ErrDuplicate, r.ID)
		}
		if !m.containerIDs[r.ContainerID] {
			return fmt.Errorf("%w: container %s of access record %s", ErrNotFound, r.ContainerID, r.ID)
		}
		batch[r.ID] = true
	}
	for id := range batch {
		m.accessIDs[id] = true
	}
	m.accessRecords = append(m.accessRecords, records...)
	return nil
}

func (m *Memory) CreateClassifications(_ context.Context, classifications []*models.Classification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	batch := map[string]bool{}
	for _, c := range classifications {
		if m.classificationIDs[c.ID] || batch[c.ID] {
			return fmt.Errorf("%w: classification %s", ErrDuplicate, c.ID)
		}
		// parents precede their children
		if c.ParentID != "" && !m.classificationIDs[c.ParentID] && !batch[c.ParentID] {
			return fmt.Errorf("%w: parent classification %s of %s", ErrNotFound, c.ParentID, c.ID)
		}
		batch[c.ID] = true
	}
	for id := range batch {
		m.classificationIDs[id] = true
	}
	m.classifications = append(m.classifications, classifications...)
	return nil
}

func (m *Memory) CreateItems(_ context.Context, items []*models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	batch := map[string]bool{}
	for _, it := range items {
		if m.itemIDs[it.ID] || batch[it.ID] {
			return fmt.Errorf("%w: item %s", ErrDuplicate, it.ID)
		}
		if !m.containerIDs[it.ContainerID] {
			return fmt.Errorf("%w: container %s of item %s", ErrNotFound, it.ContainerID, it.ID)
		}
		if it.Classification == nil || !m.classificationIDs[it.Classification.ID] {
			return fmt.Errorf("%w: classification of item %s", ErrNotFound, it.ID)
		}
		for _, a := range it.Attachments {
			if a.Classification == nil || !m.classificationIDs[a.Classification.ID] {
				return fmt.Errorf("%w: attachment classification of item %s", ErrNotFound, it.ID)
			}
		}
		batch[it.ID] = true
	}
	for id := range batch {
		m.itemIDs[id] = true
	}
	m.items = append(m.items, items...)
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// Containers returns the stored containers in write order.
func (m *Memory) Containers() []*models.Container {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*models.Container(nil), m.containers...)
}

func (m *Memory) Edges() []Edge {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Edge(nil), m.edges...)
}

func (m *Memory) AccessRecords() []*models.AccessRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*models.AccessRecord(nil), m.accessRecords...)
}

func (m *Memory) Classifications() []*models.Classification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*models.Classification(nil), m.classifications...)
}

func (m *Memory) Items() []*models.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*models.Item(nil), m.items...)
}
