package workload

import (
	"errors"
	"fmt"
	"maps"
	"strconv"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/calendar"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
)

const (
	callbackInfos    = 5
	customAttributes = 20
)

var ErrNoClassifications = errors.New("workload: no classifications of the required type")

var (
	callbackInfo          = map[string]string{}
	customAttributeValues = map[string]string{}
)

func init() {
	for i := 1; i <= callbackInfos; i++ {
		callbackInfo["Property_"+strconv.Itoa(i)] = "Property Value of Property_" + strconv.Itoa(i)
	}
	for i := 1; i <= customAttributes; i++ {
		customAttributeValues["Custom attribute_"+strconv.Itoa(i)] = "Property value of custom attribute" + strconv.Itoa(i)
	}
}

// StateCount asks for Count items in State per container.
type StateCount struct {
	State models.ItemState
	Count int
}

// Batch places the same set of items into every container.
type Batch struct {
	Containers  []*models.Container
	States      []StateCount
	Attachments int
}

// TaskBuilder creates tasks for resolved containers.
type TaskBuilder struct {
	classifications []*models.Classification
	src             *Source
	clock           *calendar.Scheduler
	refs            *ReferenceRing
	attachments     *AttachmentBuilder
}

// NewTaskBuilder picks task classifications at random and primary object
// references from a ring of objectRefs entries. maxAttachments caps the
// attachments created by the builder; zero means unlimited. A nil clock uses
// the default schedule.
func NewTaskBuilder(classifications *ClassificationBuilder, src *Source, clock *calendar.Scheduler, objectRefs, maxAttachments int) (*TaskBuilder, error) {
	tasks := classifications.ByType(models.ClassificationTask)
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoClassifications, models.ClassificationTask)
	}
	if clock == nil {
		clock = calendar.Default()
	}
	return &TaskBuilder{
		classifications: tasks,
		src:             src,
		clock:           clock,
		refs:            NewReferenceRing(objectRefs),
		attachments:     NewAttachmentBuilder(classifications.ByType(models.ClassificationDocument), nil, maxAttachments),
	}, nil
}

// Build creates the items of batch and adds them to their containers.
func (b *TaskBuilder) Build(batch Batch) ([]*models.Item, error) {
	if batch.Attachments > 0 && len(b.attachments.documents) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoClassifications, models.ClassificationDocument)
	}

	var items []*models.Item
	for _, c := range batch.Containers {
		if !c.IsResolved() {
			return nil, fmt.Errorf("%w: items for unresolved %s", models.ErrState, c)
		}
		for _, sc := range batch.States {
			for i := 0; i < sc.Count; i++ {
				it := b.newItem(c, sc.State, batch.Attachments)
				c.AddItem(it)
				items = append(items, it)
			}
		}
	}
	return items, nil
}

func (b *TaskBuilder) newItem(c *models.Container, state models.ItemState, attachments int) *models.Item {
	return &models.Item{
		ID:               b.src.ID(TaskIDPrefix),
		State:            state,
		Domain:           c.Domain,
		Owner:            c.OwnerID,
		Note:             c.OwnerID,
		ContainerKey:     c.Key,
		ContainerID:      c.ID,
		Classification:   b.classifications[b.src.IntN(len(b.classifications))],
		PrimaryObjRef:    b.refs.Next(),
		Attachments:      b.attachments.Attachments(attachments),
		CallbackInfo:     maps.Clone(callbackInfo),
		CustomAttributes: maps.Clone(customAttributeValues),
		Created:          b.clock.Next(),
	}
}
