package testdatagen

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/scenario"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/structure"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/workload"
)

// Generator builds the domains of a scenario. All domains share one run and
// one random source, so a generator yields the same data for the same seed.
type Generator struct {
	run *structure.Run
	src *workload.Source
	log zerolog.Logger
}

func NewGenerator(seed uint64, log zerolog.Logger) *Generator {
	return &Generator{
		run: structure.NewRun(structure.WithLogger(log)),
		src: workload.NewSource(seed),
		log: log,
	}
}

// BuildDomain creates the containers, access records, classifications and
// items of d. The returned bundle is resolved.
func (g *Generator) BuildDomain(d scenario.Domain) (*models.Bundle, error) {
	b := g.run.Domain(d.Name, nil)
	layers, err := buildLayers(b, d)
	if err != nil {
		return nil, err
	}

	for _, su := range d.Superusers {
		perms, err := su.Permission()
		if err != nil {
			return nil, fmt.Errorf("domain %s: superuser %s: %w", d.Name, su.ID, err)
		}
		b.CreateSuperuser(su.ID, b.Containers(), perms)
	}

	bundle, err := b.Bundle()
	if err != nil {
		return nil, err
	}

	classifications := workload.NewClassificationBuilder(d.Name, g.src, nil)
	for _, cat := range d.Classifications.Categories {
		typ, err := cat.ClassificationType()
		if err != nil {
			return nil, fmt.Errorf("domain %s: %w", d.Name, err)
		}
		classifications.Build(workload.Category{Name: cat.Name, Type: typ, Children: d.Classifications.Children})
	}
	bundle.Classifications = classifications.All()

	if len(d.Workload) > 0 {
		tasks, err := workload.NewTaskBuilder(classifications, g.src, nil, d.ObjectReferences, d.MaxAttachments)
		if err != nil {
			return nil, fmt.Errorf("domain %s: %w", d.Name, err)
		}
		for i, w := range d.Workload {
			batch, err := newBatch(layers, w)
			if err != nil {
				return nil, fmt.Errorf("domain %s: workload %d: %w", d.Name, i, err)
			}
			items, err := tasks.Build(batch)
			if err != nil {
				return nil, fmt.Errorf("domain %s: workload %d: %w", d.Name, i, err)
			}
			bundle.Items = append(bundle.Items, items...)
		}
	}

	g.log.Info().
		Str("domain", d.Name).
		Int("containers", len(bundle.Containers)).
		Int("access_records", len(bundle.AccessRecords)).
		Int("classifications", len(bundle.Classifications)).
		Int("items", len(bundle.Items)).
		Msg("built domain")
	return bundle, nil
}

// buildLayers creates the personal pool and every layer of d. A pool is made
// once per source and shared by all layers pulling from it.
func buildLayers(b *structure.Builder, d scenario.Domain) ([][]*models.Container, error) {
	pools := map[string]*structure.ContainerPool{
		scenario.SourcePersonal: b.CreateSimple(d.Personal),
	}
	var layers [][]*models.Container

	lookup := func(src string) ([]*models.Container, error) {
		idx, personal, err := scenario.ParseSource(src)
		if err != nil {
			return nil, err
		}
		if personal || idx >= len(layers) {
			return nil, fmt.Errorf("source %q is not an earlier layer", src)
		}
		return layers[idx], nil
	}

	for i, l := range d.Layers {
		layer := structure.Layer{Count: l.Count, PullPerContainer: l.Pull}
		if l.Targets != "" {
			targets, err := lookup(l.Targets)
			if err != nil {
				return nil, fmt.Errorf("domain %s: layer %d: %w", d.Name, i, err)
			}
			layer.Targets = targets
		}
		if l.Pull > 0 {
			pool, ok := pools[l.From]
			if !ok {
				from, err := lookup(l.From)
				if err != nil {
					return nil, fmt.Errorf("domain %s: layer %d: %w", d.Name, i, err)
				}
				pool = structure.NewPool(from...)
				pools[l.From] = pool
			}
			layer.Pool = pool
		}

		created, err := b.BuildLayer(layer)
		if err != nil {
			return nil, fmt.Errorf("domain %s: layer %d: %w", d.Name, i, err)
		}
		layers = append(layers, created)
	}
	return layers, nil
}

// newBatch selects the transitive children of the chosen container, plus the
// container itself when asked.
func newBatch(layers [][]*models.Container, w scenario.Workload) (workload.Batch, error) {
	if w.Layer < 0 || w.Layer >= len(layers) || w.Index < 0 || w.Index >= len(layers[w.Layer]) {
		return workload.Batch{}, fmt.Errorf("no container %d in layer %d", w.Index, w.Layer)
	}
	root := layers[w.Layer][w.Index]

	batch := workload.Batch{Attachments: w.Attachments}
	if w.IncludeSelf {
		batch.Containers = append(batch.Containers, root)
	}
	batch.Containers = append(batch.Containers, root.TransitiveChildren()...)
	for _, sc := range w.States {
		state, err := sc.ItemState()
		if err != nil {
			return workload.Batch{}, err
		}
		batch.States = append(batch.States, workload.StateCount{State: state, Count: sc.Count})
	}
	return batch, nil
}
