package testdatagen_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/scenario"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/testdatagen"
)

func domain(t *testing.T, name string) scenario.Domain {
	t.Helper()
	for _, d := range scenario.Default().Domains {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("no domain %s", name)
	return scenario.Domain{}
}

func countAttachments(items []*models.Item) int {
	n := 0
	for _, it := range items {
		n += len(it.Attachments)
	}
	return n
}

func TestGenerator(t *testing.T) {
	t.Run("domain A", func(t *testing.T) {
		b, err := testdatagen.NewGenerator(1, zerolog.Nop()).BuildDomain(domain(t, "A"))
		require.NoError(t, err)

		assert.Len(t, b.Containers, 3)
		assert.Len(t, b.Classifications, 4*101)
		require.Len(t, b.Items, 9)
		assert.Zero(t, countAttachments(b.Items))

		top := b.Containers[2]
		assert.Len(t, top.TransitiveChildren(), 2)
		assert.Equal(t, top.Key, b.Items[0].ContainerKey)
		states := map[models.ItemState]int{}
		for _, it := range b.Items {
			assert.Equal(t, "A", it.Domain)
			states[it.State]++
		}
		assert.Equal(t, map[models.ItemState]int{
			models.StateCompleted: 3,
			models.StateClaimed:   3,
			models.StateReady:     3,
		}, states)
	})

	t.Run("domain B", func(t *testing.T) {
		b, err := testdatagen.NewGenerator(1, zerolog.Nop()).BuildDomain(domain(t, "B"))
		require.NoError(t, err)

		assert.Len(t, b.Containers, 4)
		assert.Len(t, b.Items, 12)
		assert.Equal(t, 12, countAttachments(b.Items))
		for _, it := range b.Items {
			for _, a := range it.Attachments {
				assert.Equal(t, models.ClassificationDocument, a.Classification.Type)
			}
		}
	})

	t.Run("domain C", func(t *testing.T) {
		b, err := testdatagen.NewGenerator(1, zerolog.Nop()).BuildDomain(domain(t, "C"))
		require.NoError(t, err)

		assert.Len(t, b.Containers, 99+18+7+3)
		assert.Len(t, b.Items, 3*10*9)
		assert.Equal(t, 10*9*1+10*9*2, countAttachments(b.Items))

		superuser := 0
		for _, r := range b.AccessRecords {
			if r.AccessID == "superUser" {
				superuser++
				assert.Equal(t, models.PermAll, r.Permissions)
			}
		}
		assert.Equal(t, len(b.Containers), superuser)
	})

	t.Run("same seed same data", func(t *testing.T) {
		a, err := testdatagen.NewGenerator(5, zerolog.Nop()).BuildDomain(domain(t, "B"))
		require.NoError(t, err)
		b, err := testdatagen.NewGenerator(5, zerolog.Nop()).BuildDomain(domain(t, "B"))
		require.NoError(t, err)

		require.Len(t, b.Items, len(a.Items))
		for i := range a.Items {
			assert.Equal(t, a.Items[i].ID, b.Items[i].ID)
			assert.Equal(t, a.Items[i].Classification.Key, b.Items[i].Classification.Key)
		}
		assert.Equal(t, a.Containers[0].Key, b.Containers[0].Key)
	})

	t.Run("shared pool", func(t *testing.T) {
		d := scenario.Domain{
			Name:     "P",
			Personal: 3,
			Layers: []scenario.Layer{
				{Count: 1, Pull: 2, From: scenario.SourcePersonal},
				{Count: 1, Pull: 2, From: scenario.SourcePersonal},
			},
		}
		b, err := testdatagen.NewGenerator(1, zerolog.Nop()).BuildDomain(d)
		require.NoError(t, err)
		// the second layer gets the last personal container plus a fresh one
		assert.Len(t, b.Containers, 3+1+1+1)
		assert.Empty(t, b.Items)
	})

	t.Run("unknown workload container", func(t *testing.T) {
		d := domain(t, "A")
		d.Workload = []scenario.Workload{{Layer: 1, Index: 4}}
		_, err := testdatagen.NewGenerator(1, zerolog.Nop()).BuildDomain(d)
		assert.ErrorContains(t, err, "no container 4 in layer 1")
	})
}
