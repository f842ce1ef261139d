// Package models holds the generated workbaskets, users, access records and tasks.
package models

import (
	"strings"
	"time"
)

// ContainerType distinguishes group workbaskets from personal ones.
type ContainerType string

const (
	ContainerGroup    ContainerType = "GROUP"
	ContainerPersonal ContainerType = "PERSONAL"
)

// KeyMarker separates the domain from the org path inside a container key.
const KeyMarker = "WB"

// Container is one node of a domain's workbasket tree.
//
// The identifier fields (OrgPath, Key, ID, Name, OwnerID) stay empty until the
// container is resolved by the identity encoder and never change afterwards.
// Parent is a lookup reference only; a container is owned by the DirectChildren
// list of its parent.
type Container struct {
	Seq    int
	Domain string
	Type   ContainerType
	Owner  *User

	OrgPath []string
	Key     string
	ID      string
	Name    string
	OwnerID string

	CreatedAt  time.Time
	ModifiedAt time.Time

	parent     *Container
	children   []*Container
	transitive []*Container
	reachable  map[*Container]bool
	sources    []*Container
	items      []*Item
}

// NewContainer creates an unattached container. seq orders containers of one
// domain by creation.
func NewContainer(seq int, domain string, typ ContainerType) *Container {
	return &Container{Seq: seq, Domain: domain, Type: typ}
}

// Parent returns the container whose org path this container extends, or nil
// for a root.
func (c *Container) Parent() *Container {
	return c.parent
}

// DirectChildren returns the direct distribution targets in wiring order.
func (c *Container) DirectChildren() []*Container {
	return c.children
}

// TransitiveChildren returns every container reachable through distribution edges.
func (c *Container) TransitiveChildren() []*Container {
	return c.transitive
}

// DistributionSources returns every container that has c as a direct target.
// The first one is the org parent.
func (c *Container) DistributionSources() []*Container {
	return c.sources
}

// Items returns the workload items placed into this container.
func (c *Container) Items() []*Item {
	return c.items
}

// AddItem attaches an item to the container.
func (c *Container) AddItem(it *Item) {
	c.items = append(c.items, it)
}

// IsResolved reports whether the identifier fields are set.
func (c *Container) IsResolved() bool {
	return c.ID != ""
}

// Depth is the number of org levels above and including the container.
func (c *Container) Depth() int {
	d := 1
	for p := c.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// OrgLevel joins the org path codes.
func (c *Container) OrgLevel() string {
	return strings.Join(c.OrgPath, "")
}

// AddDistributionTargets appends targets to the direct children and extends the
// transitive closure with every target and its own closure. The closure holds
// each container once. A target that has no parent yet adopts c as its parent.
func (c *Container) AddDistributionTargets(targets []*Container) {
	c.children = append(c.children, targets...)
	for _, t := range targets {
		if t.parent == nil {
			t.parent = c
		}
		t.sources = append(t.sources, c)
	}
	for _, t := range targets {
		c.reach(t)
	}
	for _, t := range targets {
		for _, below := range t.transitive {
			c.reach(below)
		}
	}
}

func (c *Container) reach(t *Container) {
	if c.reachable == nil {
		c.reachable = map[*Container]bool{}
	}
	if c.reachable[t] {
		return
	}
	c.reachable[t] = true
	c.transitive = append(c.transitive, t)
}

func (c *Container) String() string {
	if c.IsResolved() {
		return c.Key
	}
	return "unresolved " + string(c.Type) + " container in domain " + c.Domain
}
