package models

// UserMarker separates the domain from the org level inside generated user ids.
const UserMarker = "U"

// User owns containers. Generated users derive their id from the shallowest
// container they own; superusers carry a literal id.
type User struct {
	Domain string
	// HighestOwnedLevel is the greatest depth of an owned container.
	HighestOwnedLevel int
	// OrgLevel is the joined org path of the shallowest owned container.
	OrgLevel string

	id      string
	literal bool
	owned   []*Container
}

// NewUser creates a user whose id is derived during identifier resolution.
func NewUser(domain string) *User {
	return &User{Domain: domain}
}

// NewSuperuser creates a user with a fixed id.
func NewSuperuser(id string) *User {
	return &User{id: id, literal: true}
}

// ID returns the user id, empty until resolved.
func (u *User) ID() string {
	return u.id
}

// HasLiteralID reports whether the id was fixed at construction.
func (u *User) HasLiteralID() bool {
	return u.literal
}

// Owned returns the containers this user owns, in assignment order.
func (u *User) Owned() []*Container {
	return u.owned
}

// SetID stores a derived id. Literal ids are never replaced.
func (u *User) SetID(id string) {
	if u.literal {
		return
	}
	u.id = id
}

// AssignOwner makes u the owner of c.
func (u *User) AssignOwner(c *Container) {
	c.Owner = u
	u.owned = append(u.owned, c)
}

func (u *User) String() string {
	return "user=" + u.id
}
