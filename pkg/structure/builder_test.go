package structure_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/structure"
)

func keys(cs []*models.Container) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Key)
	}
	return out
}

func findRecord(records []*models.AccessRecord, user *models.User, c *models.Container) *models.AccessRecord {
	for _, r := range records {
		if r.User == user && r.Container == c {
			return r
		}
	}
	return nil
}

// buildLayered mirrors the largest default domain: a personal pool consumed by
// three layers of group containers.
func buildLayered(t *testing.T, run *structure.Run) *structure.Builder {
	t.Helper()
	b := run.Domain("C", nil)
	personal := b.CreateSimple(99)

	layer0, err := b.BuildLayer(structure.Layer{Count: 18, PullPerContainer: 1, Pool: personal})
	require.NoError(t, err)
	layer1, err := b.BuildLayer(structure.Layer{Count: 7, PullPerContainer: 2, Pool: structure.NewPool(layer0...)})
	require.NoError(t, err)
	_, err = b.BuildLayer(structure.Layer{Count: 3, PullPerContainer: 2, Pool: structure.NewPool(layer1...)})
	require.NoError(t, err)
	return b
}

func TestSimpleContainers(t *testing.T) {
	b := structure.NewRun().Domain("T", nil)
	p := b.CreateSimple(6)
	require.Equal(t, 6, p.Len())
	require.NoError(t, b.Resolve())

	for i, c := range b.Containers() {
		want := fmt.Sprintf("%02d", i+1)
		assert.Equal(t, "TWB"+want, c.Key)
		assert.Equal(t, []string{want}, c.OrgPath)
		assert.Equal(t, models.ContainerPersonal, c.Type)
		assert.Equal(t, "TU"+want, c.Owner.ID())
		assert.Equal(t, "TU"+want, c.OwnerID)
		assert.Equal(t, want, c.Owner.OrgLevel)
		assert.Equal(t, 1, c.Owner.HighestOwnedLevel)
		assert.Len(t, c.ID, models.IDLength)
		assert.Equal(t, "TWB"+want+strings.Repeat("X", models.IDLength-5), c.ID)
	}
	assert.Len(t, b.Users(), 6)
	assert.Equal(t, b.Containers(), b.LastLayer())

	records := b.AccessRecords()
	require.Len(t, records, 6)
	for i, r := range records {
		assert.Equal(t, models.PermAll, r.Permissions)
		assert.Equal(t, b.Containers()[i].ID, r.ContainerID)
		assert.Equal(t, b.Containers()[i].OwnerID, r.AccessID)
		assert.Equal(t, fmt.Sprint(i), r.ID)
	}
}

func TestLayerPullsFromPool(t *testing.T) {
	b := structure.NewRun().Domain("T", nil)
	personal := b.CreateSimple(4)

	layer, err := b.BuildLayer(structure.Layer{Count: 2, PullPerContainer: 2, Pool: personal})
	require.NoError(t, err)
	require.Len(t, layer, 2)
	assert.True(t, personal.IsEmpty())
	require.NoError(t, b.Resolve())

	assert.Equal(t, []string{"TWB0101", "TWB0102", "TWB0201", "TWB0202", "TWB01", "TWB02"}, keys(b.Containers()))

	records := b.AccessRecords()
	for _, parent := range layer {
		require.Len(t, parent.DirectChildren(), 2)
		for i, child := range parent.DirectChildren() {
			assert.Equal(t, append(append([]string{}, parent.OrgPath...), fmt.Sprintf("%02d", i+1)), child.OrgPath)
			assert.Same(t, parent, child.Parent())
			assert.NotSame(t, parent.Owner, child.Owner)

			reverse := findRecord(records, child.Owner, parent)
			require.NotNil(t, reverse, "owner of %s has no access to %s", child.Key, parent.Key)
			assert.Equal(t, models.PermAll, reverse.Permissions)
			assert.NotNil(t, findRecord(records, parent.Owner, child))
		}
	}
	assert.Equal(t, "TU0101", b.Containers()[0].OwnerID)
	assert.Equal(t, "TU01", layer[0].OwnerID)
}

func TestPoolShortfallCreatesPersonalContainers(t *testing.T) {
	b := structure.NewRun().Domain("T", nil)
	personal := b.CreateSimple(1)

	layer, err := b.BuildLayer(structure.Layer{Count: 1, PullPerContainer: 3, Pool: personal})
	require.NoError(t, err)
	require.NoError(t, b.Resolve())

	children := layer[0].DirectChildren()
	require.Len(t, children, 3)
	for _, c := range children {
		assert.Equal(t, models.ContainerPersonal, c.Type)
	}
	assert.Equal(t, []string{"TWB0101", "TWB01", "TWB0102", "TWB0103"}, keys(b.Containers()))

	t.Run("nil pool", func(t *testing.T) {
		b := structure.NewRun().Domain("N", nil)
		layer, err := b.BuildLayer(structure.Layer{Count: 2, PullPerContainer: 1})
		require.NoError(t, err)
		assert.Len(t, layer[0].DirectChildren(), 1)
		assert.Len(t, b.Containers(), 4)
	})
}

func TestExplicitTargetsFanOut(t *testing.T) {
	b := structure.NewRun().Domain("A", nil)
	personal := b.CreateSimple(2)
	base, err := b.BuildLayer(structure.Layer{Count: 2, PullPerContainer: 1, Pool: personal})
	require.NoError(t, err)

	top, err := b.BuildLayer(structure.Layer{Count: 2, Targets: base})
	require.NoError(t, err)
	require.NoError(t, b.Resolve())

	for _, parent := range top {
		assert.Equal(t, base, parent.DirectChildren())
		assert.Len(t, parent.TransitiveChildren(), 4)
		for _, reachable := range parent.TransitiveChildren() {
			assert.NotNil(t, findRecord(b.AccessRecords(), parent.Owner, reachable))
		}
	}
	// the first wiring fixes the org position
	assert.Same(t, top[0], base[0].Parent())
	assert.Equal(t, []*models.Container{top[0], top[1]}, base[0].DistributionSources())
	assert.Equal(t, "AWB0101", base[0].Key)
	assert.Equal(t, "AWB010101", base[0].DirectChildren()[0].Key)
	assert.True(t, personal.IsEmpty())
}

func TestExplicitTargetsWithPoolSupplement(t *testing.T) {
	b := structure.NewRun().Domain("S", nil)
	spare := b.CreateSimple(2)
	spared := spare.Remaining()
	shared := b.CreateSimple(1).Remaining()

	layer, err := b.BuildLayer(structure.Layer{Count: 2, Targets: shared, PullPerContainer: 1, Pool: spare})
	require.NoError(t, err)
	require.NoError(t, b.Resolve())

	assert.Equal(t, []*models.Container{shared[0], spared[0]}, layer[0].DirectChildren())
	assert.Equal(t, []*models.Container{shared[0], spared[1]}, layer[1].DirectChildren())
	assert.Equal(t, "SWB0101", shared[0].Key)
	assert.Equal(t, "SWB0102", layer[0].DirectChildren()[1].Key)
	assert.Equal(t, "SWB0202", layer[1].DirectChildren()[1].Key)
}

func TestInvalidLayers(t *testing.T) {
	b := structure.NewRun().Domain("T", nil)

	layer, err := b.BuildLayer(structure.Layer{Count: 0, PullPerContainer: 2})
	require.NoError(t, err)
	assert.Empty(t, layer)
	assert.Empty(t, b.Containers())

	_, err = b.BuildLayer(structure.Layer{Count: 3})
	assert.ErrorIs(t, err, structure.ErrInvalidLayer)
	assert.Empty(t, b.Containers())

	_, err = b.BuildLayer(structure.Layer{Count: 1, PullPerContainer: -1})
	assert.ErrorIs(t, err, structure.ErrInvalidLayer)
}

func TestWiringResolvedContainerFails(t *testing.T) {
	b := structure.NewRun().Domain("T", nil)
	p := b.CreateSimple(1)
	require.NoError(t, b.Resolve())

	_, err := b.BuildLayer(structure.Layer{Count: 1, PullPerContainer: 1, Pool: p})
	assert.ErrorIs(t, err, models.ErrState)

	_, err = b.BuildLayer(structure.Layer{Count: 1, Targets: b.Containers()[:1]})
	assert.ErrorIs(t, err, models.ErrState)
}

func TestWiringForeignDomainFails(t *testing.T) {
	run := structure.NewRun()
	a := run.Domain("A", nil)
	other := run.Domain("B", nil).CreateSimple(1).Remaining()

	_, err := a.BuildLayer(structure.Layer{Count: 1, Targets: other})
	assert.ErrorIs(t, err, models.ErrState)
}

func TestRejectedLayerHasNoSideEffects(t *testing.T) {
	run := structure.NewRun()
	b := run.Domain("T", nil)
	local := b.CreateSimple(2).Remaining()
	foreign := run.Domain("B", nil).CreateSimple(1).Remaining()
	p := structure.NewPool(append(local, foreign...)...)
	records := len(b.AccessRecords())

	_, err := b.BuildLayer(structure.Layer{Count: 3, PullPerContainer: 1, Pool: p})
	require.ErrorIs(t, err, models.ErrState)

	assert.Len(t, b.Containers(), 2)
	assert.Equal(t, 3, p.Len())
	assert.Len(t, b.AccessRecords(), records)
	assert.Empty(t, b.LastLayer())
	for _, c := range local {
		assert.Nil(t, c.Parent())
	}
}

func TestLayersAfterPartialResolutionFail(t *testing.T) {
	build := func(resolveEarly bool) (*structure.Builder, error) {
		b := structure.NewRun().Domain("T", nil)
		personal := b.CreateSimple(2)
		layer, err := b.BuildLayer(structure.Layer{Count: 1, PullPerContainer: 1, Pool: personal})
		require.NoError(t, err)
		if !resolveEarly {
			return b, nil
		}
		require.NoError(t, b.ResolveContainer(layer[0]))

		_, err = b.BuildLayer(structure.Layer{Count: 1, PullPerContainer: 1, Pool: personal})
		assert.Equal(t, 1, personal.Len())
		return b, err
	}

	early, err := build(true)
	require.ErrorIs(t, err, models.ErrState)
	assert.Len(t, early.Containers(), 3)
	require.NoError(t, early.Resolve())

	late, err := build(false)
	require.NoError(t, err)
	require.NoError(t, late.Resolve())

	assert.Equal(t, keys(late.Containers()), keys(early.Containers()))
}

func TestResolveWithoutOwnerFails(t *testing.T) {
	b := structure.NewRun().Domain("T", nil)
	orphan := models.NewContainer(99, "T", models.ContainerGroup)

	_, err := b.BuildLayer(structure.Layer{Count: 1, Targets: []*models.Container{orphan}})
	require.NoError(t, err)

	err = b.Resolve()
	assert.ErrorIs(t, err, models.ErrState)
}

func TestIdentifierOverflow(t *testing.T) {
	t.Run("roots", func(t *testing.T) {
		b := structure.NewRun().Domain("T", nil)
		b.CreateSimple(100)

		err := b.Resolve()
		require.ErrorIs(t, err, models.ErrIdentifierOverflow)
		var overflow *models.OverflowError
		require.ErrorAs(t, err, &overflow)
		assert.Equal(t, 100, overflow.Value)
		assert.Equal(t, "TWB99", b.Containers()[98].Key)
	})

	t.Run("siblings", func(t *testing.T) {
		b := structure.NewRun().Domain("T", nil)
		_, err := b.BuildLayer(structure.Layer{Count: 1, PullPerContainer: 100})
		require.NoError(t, err)

		assert.ErrorIs(t, b.Resolve(), models.ErrIdentifierOverflow)
	})

	t.Run("ninety nine siblings fit", func(t *testing.T) {
		b := structure.NewRun().Domain("T", nil)
		layer, err := b.BuildLayer(structure.Layer{Count: 1, PullPerContainer: 99})
		require.NoError(t, err)

		require.NoError(t, b.Resolve())
		assert.Equal(t, "TWB0199", layer[0].DirectChildren()[98].Key)
	})
}

func TestTreeInvariants(t *testing.T) {
	b := buildLayered(t, structure.NewRun())
	require.NoError(t, b.Resolve())
	require.Len(t, b.Containers(), 99+18+7+3)

	seen := map[string]bool{}
	for _, c := range b.Containers() {
		assert.False(t, seen[c.Key], "duplicate key %s", c.Key)
		seen[c.Key] = true

		assert.Len(t, c.OrgPath, c.Depth())
		assert.Equal(t, "C"+models.KeyMarker+strings.Join(c.OrgPath, ""), c.Key)
		for _, code := range c.OrgPath {
			assert.Len(t, code, models.CodeWidth)
		}
		if p := c.Parent(); p != nil {
			assert.Equal(t, p.OrgPath, c.OrgPath[:len(c.OrgPath)-1])
		}
	}

	top := b.LastLayer()
	require.Len(t, top, 3)
	// 81 unused personal, 4 unused layer0 and 1 unused layer1 containers are roots too
	assert.Equal(t, "CWB87", top[0].Key)
	assert.Len(t, top[0].TransitiveChildren(), 2+4+4)
}

func TestPermissionCoverage(t *testing.T) {
	b := buildLayered(t, structure.NewRun())
	records := b.AccessRecords()

	pairs := map[[2]any]bool{}
	for _, r := range records {
		key := [2]any{r.User, r.Container}
		assert.False(t, pairs[key], "duplicate record for %s on %s", r.User, r.Container)
		pairs[key] = true
		assert.True(t, r.Permissions.Has(models.PermImplicit))
	}

	for _, p := range b.Containers() {
		assert.True(t, pairs[[2]any{p.Owner, p}])
		for _, reachable := range p.TransitiveChildren() {
			assert.True(t, pairs[[2]any{p.Owner, reachable}])
		}
		for _, child := range p.DirectChildren() {
			assert.True(t, pairs[[2]any{child.Owner, p}])
		}
	}
}

func TestSuperuser(t *testing.T) {
	b := buildLayered(t, structure.NewRun())
	before := len(b.AccessRecords())

	su := b.CreateSuperuser("superUser", b.Containers(), models.PermRead|models.PermOpen)
	require.NoError(t, b.Resolve())

	assert.Equal(t, "superUser", su.ID())
	assert.Len(t, b.AccessRecords(), before+len(b.Containers()))
	assert.Equal(t, []*models.User{su}, b.Superusers())
	for _, c := range b.Containers() {
		r := findRecord(b.AccessRecords(), su, c)
		require.NotNil(t, r)
		assert.Equal(t, "superUser", r.AccessID)
		assert.Equal(t, models.PermRead|models.PermAppend|models.PermOpen, r.Permissions)
	}
}

func TestRepeatedGrantsUnion(t *testing.T) {
	b := structure.NewRun().Domain("T", nil)
	cs := b.CreateSimple(1).Remaining()

	su := b.CreateSuperuser("admin", cs, models.PermDistribute)
	b.Grant(su, models.PermOpen, cs...)
	b.Grant(su, models.PermRead, cs...)

	require.Len(t, b.AccessRecords(), 2)
	r := findRecord(b.AccessRecords(), su, cs[0])
	require.NotNil(t, r)
	assert.Equal(t, models.PermImplicit|models.PermDistribute|models.PermOpen, r.Permissions)
}

type snapshot struct {
	Key, ID, OwnerID string
	OrgPath          []string
}

func snapshotOf(cs []*models.Container) []snapshot {
	out := make([]snapshot, 0, len(cs))
	for _, c := range cs {
		out = append(out, snapshot{Key: c.Key, ID: c.ID, OwnerID: c.OwnerID, OrgPath: c.OrgPath})
	}
	return out
}

func TestResolutionIsOrderIndependent(t *testing.T) {
	forward := buildLayered(t, structure.NewRun())
	require.NoError(t, forward.Resolve())

	backward := buildLayered(t, structure.NewRun())
	cs := backward.Containers()
	for i := len(cs) - 1; i >= 0; i-- {
		require.NoError(t, backward.ResolveContainer(cs[i]))
	}

	if diff := cmp.Diff(snapshotOf(forward.Containers()), snapshotOf(backward.Containers())); diff != "" {
		t.Errorf("resolution order changed identifiers (-forward +backward):\n%s", diff)
	}
}

func TestResolutionIsIdempotent(t *testing.T) {
	b := buildLayered(t, structure.NewRun())
	bundle, err := b.Bundle()
	require.NoError(t, err)
	first := snapshotOf(bundle.Containers)

	require.NoError(t, b.Resolve())
	for _, c := range b.Containers() {
		require.NoError(t, b.ResolveContainer(c))
	}
	assert.Empty(t, cmp.Diff(first, snapshotOf(b.Containers())))
}

func TestRunsAreIndependent(t *testing.T) {
	first := buildLayered(t, structure.NewRun())
	second := buildLayered(t, structure.NewRun())
	require.NoError(t, first.Resolve())
	require.NoError(t, second.Resolve())

	assert.Empty(t, cmp.Diff(snapshotOf(first.Containers()), snapshotOf(second.Containers())))
	assert.Equal(t, first.AccessRecords()[0].ID, second.AccessRecords()[0].ID)
	assert.Equal(t, first.Containers()[0].CreatedAt, second.Containers()[0].CreatedAt)
}

func TestAccessIDsAreUniqueWithinRun(t *testing.T) {
	run := structure.NewRun()
	a := run.Domain("A", nil)
	a.CreateSimple(3)
	b := run.Domain("B", nil)
	b.CreateSimple(3)
	require.NoError(t, a.Resolve())
	require.NoError(t, b.Resolve())

	ids := map[string]bool{}
	for _, r := range append(a.AccessRecords(), b.AccessRecords()...) {
		assert.False(t, ids[r.ID])
		ids[r.ID] = true
	}
	assert.Len(t, ids, 6)
	assert.Equal(t, "AWB01", a.Containers()[0].Key)
	assert.Equal(t, "BWB01", b.Containers()[0].Key)
}

func TestCreationTimestamps(t *testing.T) {
	b := buildLayered(t, structure.NewRun())
	cs := b.Containers()
	for i := 1; i < len(cs); i++ {
		assert.False(t, cs[i].CreatedAt.Before(cs[i-1].CreatedAt))
		assert.Equal(t, cs[i].CreatedAt, cs[i].ModifiedAt)
	}
}
