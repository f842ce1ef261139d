package workload

import (
	"strconv"
	"strings"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/calendar"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
)

// Custom1Values are shuffled into the custom1 field of every classification.
var Custom1Values = []string{"ANR", "VNR", "RVNR", "KOLVNR"}

// Category describes a parent classification and the number of children
// created below it.
type Category struct {
	Name     string
	Type     models.ClassificationType
	Children int
}

// ClassificationBuilder creates the classifications of one domain and keeps
// them grouped by type.
type ClassificationBuilder struct {
	domain string
	src    *Source
	clock  *calendar.Scheduler

	all    []*models.Classification
	byType map[models.ClassificationType][]*models.Classification
}

// NewClassificationBuilder stamps classifications from clock, or from the
// default schedule when clock is nil.
func NewClassificationBuilder(domain string, src *Source, clock *calendar.Scheduler) *ClassificationBuilder {
	if clock == nil {
		clock = calendar.Default()
	}
	return &ClassificationBuilder{
		domain: domain,
		src:    src,
		clock:  clock,
		byType: map[models.ClassificationType][]*models.Classification{},
	}
}

// Build creates the parent of cat and its children. The parent's key is the
// category name, child keys append the child index.
func (b *ClassificationBuilder) Build(cat Category) []*models.Classification {
	parent := b.create(cat, cat.Name, "")
	created := []*models.Classification{parent}
	for i := 0; i < cat.Children; i++ {
		created = append(created, b.create(cat, cat.Name+strconv.Itoa(i), parent.ID))
	}
	return created
}

// ByType returns every classification of typ in creation order.
func (b *ClassificationBuilder) ByType(typ models.ClassificationType) []*models.Classification {
	return b.byType[typ]
}

func (b *ClassificationBuilder) All() []*models.Classification {
	return b.all
}

func (b *ClassificationBuilder) create(cat Category, key, parentID string) *models.Classification {
	c := &models.Classification{
		ID:       b.src.ID(ClassificationIDPrefix),
		Key:      key,
		ParentID: parentID,
		Category: cat.Name,
		Type:     cat.Type,
		Domain:   b.domain,
		Custom1:  b.custom1(),
		Created:  b.clock.Next(),
	}
	b.all = append(b.all, c)
	b.byType[cat.Type] = append(b.byType[cat.Type], c)
	return c
}

func (b *ClassificationBuilder) custom1() string {
	values := append([]string(nil), Custom1Values...)
	b.src.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
	return strings.Join(values, ", ")
}
