// Package storetest holds the behavior every store.Store must show, as a
// testify suite, plus a small generated bundle to feed it.
package storetest

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/store"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/structure"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/workload"
)

// Bundle builds domain "S": four personal containers pulled two by two under
// a layer of two groups, plus classifications and one READY task per group.
func Bundle(t testing.TB) *models.Bundle {
	t.Helper()

	b := structure.NewRun().Domain("S", nil)
	pool := b.CreateSimple(4)
	groups, err := b.BuildLayer(structure.Layer{Count: 2, PullPerContainer: 2, Pool: pool})
	require.NoError(t, err)
	bundle, err := b.Bundle()
	require.NoError(t, err)

	src := workload.NewSource(1)
	cls := workload.NewClassificationBuilder("S", src, nil)
	cls.Build(workload.Category{Name: "MANUELL", Type: models.ClassificationTask, Children: 2})
	cls.Build(workload.Category{Name: "DOKTYP_EXTERN", Type: models.ClassificationDocument, Children: 1})
	tasks, err := workload.NewTaskBuilder(cls, src, nil, 3, 0)
	require.NoError(t, err)
	items, err := tasks.Build(workload.Batch{
		Containers:  groups,
		States:      []workload.StateCount{{State: models.StateReady, Count: 1}},
		Attachments: 1,
	})
	require.NoError(t, err)

	bundle.Classifications = cls.All()
	bundle.Items = items
	return bundle
}

// Suite runs the store contract against stores made by NewStore.
type Suite struct {
	suite.Suite
	NewStore func() store.Store

	store store.Store
}

func (s *Suite) SetupTest() {
	s.store = s.NewStore()
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *Suite) TearDownTest() {
	s.NoError(s.store.Close())
}

func (s *Suite) Store() store.Store {
	return s.store
}

func (s *Suite) TestMigrateTwice() {
	s.NoError(s.store.Migrate(context.Background()))
}

func (s *Suite) TestPersistEmptyBundle() {
	s.NoError(store.Persist(context.Background(), s.store, &models.Bundle{}, zerolog.Nop()))
}

func (s *Suite) TestPersistBundle() {
	bundle := Bundle(s.T())
	s.NoError(store.Persist(context.Background(), s.store, bundle, zerolog.Nop()))
}
