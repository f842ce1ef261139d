package structure

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Taskana/TaskanaTestDataGenerator/internal/pool"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/calendar"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
)

// ContainerPool hands out already built containers as distribution targets.
type ContainerPool = pool.Pool[*models.Container]

func NewPool(containers ...*models.Container) *ContainerPool {
	return pool.New(containers...)
}

// Layer describes one layer of group containers.
type Layer struct {
	// Count is the number of new containers.
	Count int
	// Targets are wired under every new container.
	Targets []*models.Container
	// PullPerContainer is the number of targets each new container takes
	// from Pool. Missing ones are created as fresh personal containers.
	PullPerContainer int
	Pool             *ContainerPool
}

// Builder constructs the tree of one domain.
type Builder struct {
	domain  string
	clock   *calendar.Scheduler
	encoder *Encoder
	access  *Propagator
	log     zerolog.Logger

	containers []*models.Container
	users      []*models.User
	superusers []*models.User
	lastLayer  []*models.Container
}

func (b *Builder) Domain() string {
	return b.domain
}

// CreateSimple creates n personal containers, each with a fresh owner that has
// full access to it, and returns them as a pool for the next layer.
func (b *Builder) CreateSimple(n int) *ContainerPool {
	created := b.createContainers(n, models.ContainerPersonal)
	b.lastLayer = created
	b.log.Debug().Int("count", n).Msg("created personal containers")
	return pool.New(created...)
}

// BuildLayer creates the group containers of l and wires their distribution
// targets. A layer of zero containers is a no-op. Targets are checked before
// anything is created, so a rejected layer leaves the domain and the pool as
// they were.
func (b *Builder) BuildLayer(l Layer) ([]*models.Container, error) {
	if l.Count <= 0 {
		return nil, nil
	}
	if l.PullPerContainer < 0 {
		return nil, fmt.Errorf("%w: negative pull count %d", ErrInvalidLayer, l.PullPerContainer)
	}
	if len(l.Targets) == 0 && l.PullPerContainer == 0 {
		return nil, fmt.Errorf("%w: %d containers without distribution targets", ErrInvalidLayer, l.Count)
	}
	if b.encoder.started() {
		return nil, fmt.Errorf("%w: domain %s is already resolved", models.ErrState, b.domain)
	}
	if err := b.checkWirable(l.Targets); err != nil {
		return nil, err
	}
	if err := b.checkWirable(l.Pool.Peek(l.Count * l.PullPerContainer)); err != nil {
		return nil, err
	}

	parents := b.createContainers(l.Count, models.ContainerGroup)
	if len(l.Targets) > 0 {
		for _, parent := range parents {
			b.wire(parent, l.Targets)
		}
	}
	if l.PullPerContainer > 0 {
		for _, parent := range parents {
			children := l.Pool.Take(l.PullPerContainer)
			if missing := l.PullPerContainer - len(children); missing > 0 {
				children = append(children, b.createContainers(missing, models.ContainerPersonal)...)
			}
			b.wire(parent, children)
		}
	}

	b.lastLayer = parents
	b.log.Debug().
		Int("count", l.Count).
		Int("targets", len(l.Targets)).
		Int("pull", l.PullPerContainer).
		Int("containers", len(b.containers)).
		Msg("built layer")
	return parents, nil
}

// CreateSuperuser adds a user with a literal id and grants it perms on
// containers, independent of the tree.
func (b *Builder) CreateSuperuser(id string, containers []*models.Container, perms models.Permission) *models.User {
	u := models.NewSuperuser(id)
	b.superusers = append(b.superusers, u)
	b.Grant(u, perms, containers...)
	return u
}

// Grant gives u perms on containers. Existing records are widened.
func (b *Builder) Grant(u *models.User, perms models.Permission, containers ...*models.Container) {
	b.access.Grant(u, perms, containers...)
}

// LastLayer returns the containers created by the latest CreateSimple or
// BuildLayer call.
func (b *Builder) LastLayer() []*models.Container {
	return b.lastLayer
}

// Containers returns every container of the domain in creation order.
func (b *Builder) Containers() []*models.Container {
	return b.containers
}

// Users returns the generated container owners.
func (b *Builder) Users() []*models.User {
	return b.users
}

func (b *Builder) Superusers() []*models.User {
	return b.superusers
}

func (b *Builder) AccessRecords() []*models.AccessRecord {
	return b.access.Records()
}

// Resolve derives the identifiers of every container, owner and access
// record. It can be called again after more grants or superusers were added.
// Once it ran, BuildLayer fails with models.ErrState.
func (b *Builder) Resolve() error {
	for _, c := range b.containers {
		if err := b.encoder.Resolve(c); err != nil {
			return fmt.Errorf("resolve domain %s: %w", b.domain, err)
		}
	}
	for _, rec := range b.access.Records() {
		if err := b.encoder.Resolve(rec.Container); err != nil {
			return fmt.Errorf("resolve domain %s: %w", b.domain, err)
		}
		rec.Resolve()
	}
	return nil
}

// ResolveContainer derives the identifiers of c alone, resolving its
// ancestors and owner on the way.
func (b *Builder) ResolveContainer(c *models.Container) error {
	if err := b.encoder.Resolve(c); err != nil {
		return fmt.Errorf("resolve domain %s: %w", b.domain, err)
	}
	return nil
}

// Bundle resolves the domain and returns its containers and access records.
func (b *Builder) Bundle() (*models.Bundle, error) {
	if err := b.Resolve(); err != nil {
		return nil, err
	}
	return &models.Bundle{
		Containers:    b.containers,
		AccessRecords: b.access.Records(),
	}, nil
}

func (b *Builder) createContainers(n int, typ models.ContainerType) []*models.Container {
	created := make([]*models.Container, 0, n)
	for i := 0; i < n; i++ {
		c := models.NewContainer(len(b.containers), b.domain, typ)
		ts := b.clock.Next()
		c.CreatedAt = ts
		c.ModifiedAt = ts

		owner := models.NewUser(b.domain)
		owner.AssignOwner(c)
		b.users = append(b.users, owner)

		b.containers = append(b.containers, c)
		b.encoder.track(c)
		b.access.Grant(owner, models.PermAll, c)
		created = append(created, c)
	}
	return created
}

func (b *Builder) wire(parent *models.Container, children []*models.Container) {
	parent.AddDistributionTargets(children)
	b.access.Wire(parent, children, models.PermAll)
}

// checkWirable rejects targets whose position is already fixed or that belong
// to another domain.
func (b *Builder) checkWirable(targets []*models.Container) error {
	for _, t := range targets {
		if t.Domain != b.domain {
			return fmt.Errorf("%w: container %s of domain %s wired into domain %s", models.ErrState, t, t.Domain, b.domain)
		}
		if t.IsResolved() {
			return fmt.Errorf("%w: container %s is already resolved", models.ErrState, t)
		}
	}
	return nil
}
