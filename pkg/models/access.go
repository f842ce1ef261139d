package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Permission is a set of workbasket access rights.
type Permission uint8

const (
	PermRead Permission = 1 << iota
	PermAppend
	PermDistribute
	PermOpen
	PermTransfer

	// PermImplicit is part of every granted set.
	PermImplicit = PermRead | PermAppend
	// PermAll holds every access right.
	PermAll = PermRead | PermAppend | PermDistribute | PermOpen | PermTransfer
)

var permissionNames = []struct {
	perm Permission
	name string
}{
	{PermRead, "READ"},
	{PermAppend, "APPEND"},
	{PermDistribute, "DISTRIBUTE"},
	{PermOpen, "OPEN"},
	{PermTransfer, "TRANSFER"},
}

// Has reports whether every right of other is in p.
func (p Permission) Has(other Permission) bool {
	return p&other == other
}

func (p Permission) String() string {
	var names []string
	for _, pn := range permissionNames {
		if p.Has(pn.perm) {
			names = append(names, pn.name)
		}
	}
	return strings.Join(names, "|")
}

// ParsePermission reads a single access right name such as "DISTRIBUTE".
func ParsePermission(name string) (Permission, error) {
	for _, pn := range permissionNames {
		if strings.EqualFold(pn.name, name) {
			return pn.perm, nil
		}
	}
	return 0, fmt.Errorf("unknown permission %q", name)
}

// AccessRecord grants a user a set of rights on a container.
type AccessRecord struct {
	ID          string
	User        *User
	Container   *Container
	Permissions Permission

	// AccessID and ContainerID are copied from the resolved user and container.
	AccessID    string
	ContainerID string

	seq int
}

// NewAccessRecord creates a record holding perms plus the implicit rights.
// seq becomes the id unless an id is assigned before resolution.
func NewAccessRecord(seq int, user *User, container *Container, perms Permission) *AccessRecord {
	return &AccessRecord{
		User:        user,
		Container:   container,
		Permissions: perms | PermImplicit,
		seq:         seq,
	}
}

// Grant widens the record by perms.
func (r *AccessRecord) Grant(perms Permission) {
	r.Permissions |= perms | PermImplicit
}

// Resolve copies the identifiers of the already resolved user and container.
func (r *AccessRecord) Resolve() {
	if r.ID == "" {
		r.ID = strconv.Itoa(r.seq)
	}
	r.AccessID = r.User.ID()
	r.ContainerID = r.Container.ID
}
