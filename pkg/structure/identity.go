package structure

import (
	"fmt"
	"slices"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
)

// Encoder derives org paths, keys and ids from tree position.
//
// Root codes are handed out to parentless containers in creation order, and a
// child's code is its 1-based position among the parent's direct children.
// Both are memoized, so resolving containers in any order gives the same
// result. The tree must not gain edges once resolution started; the builder
// refuses new layers from then on.
type Encoder struct {
	tracked   []*models.Container
	cursor    int
	rootCodes map[*models.Container]int
	nextRoot  int
	memberIDs map[*models.Container]int
}

func newEncoder() *Encoder {
	return &Encoder{
		rootCodes: map[*models.Container]int{},
		nextRoot:  1,
		memberIDs: map[*models.Container]int{},
	}
}

// started reports whether any root code was handed out. Every resolution
// passes through the root of its container.
func (e *Encoder) started() bool {
	return len(e.rootCodes) > 0
}

func (e *Encoder) track(c *models.Container) {
	e.tracked = append(e.tracked, c)
}

// Resolve sets the identifier fields of c, its ancestors and its owner.
// Resolving an already resolved container is a no-op.
func (e *Encoder) Resolve(c *models.Container) error {
	if err := e.resolvePath(c); err != nil {
		return err
	}
	if c.OwnerID != "" {
		return nil
	}
	if err := e.resolveOwner(c.Owner); err != nil {
		return err
	}
	c.OwnerID = c.Owner.ID()
	return nil
}

func (e *Encoder) resolvePath(c *models.Container) error {
	if c.IsResolved() {
		return nil
	}
	if c.Owner == nil {
		return fmt.Errorf("%w: container %d of domain %s has no owner", models.ErrState, c.Seq, c.Domain)
	}

	var path []string
	if parent := c.Parent(); parent == nil {
		code, err := e.rootCode(c)
		if err != nil {
			return err
		}
		path = []string{code}
	} else {
		if err := e.resolvePath(parent); err != nil {
			return err
		}
		code, err := models.FormatCode(e.memberID(parent, c), models.CodeWidth)
		if err != nil {
			return fmt.Errorf("member of %s: %w", parent.Key, err)
		}
		path = append(slices.Clone(parent.OrgPath), code)
	}

	c.OrgPath = path
	c.Key = c.Domain + models.KeyMarker + c.OrgLevel()
	c.ID = models.FitToLength(c.Key, models.IDLength, models.IDFiller)
	c.Name = c.ID
	return nil
}

// rootCode numbers every parentless container created before c, so the code
// does not depend on which root is resolved first. Containers behind the
// cursor are either numbered or have a parent, which never changes.
func (e *Encoder) rootCode(c *models.Container) (string, error) {
	num, ok := e.rootCodes[c]
	for ; !ok && e.cursor < len(e.tracked); e.cursor++ {
		candidate := e.tracked[e.cursor]
		if candidate.Parent() != nil {
			continue
		}
		e.rootCodes[candidate] = e.nextRoot
		e.nextRoot++
		num, ok = e.rootCodes[c]
	}
	if !ok {
		// c was not created by this domain
		num = e.nextRoot
		e.rootCodes[c] = num
		e.nextRoot++
	}

	code, err := models.FormatCode(num, models.CodeWidth)
	if err != nil {
		return "", fmt.Errorf("root of domain %s: %w", c.Domain, err)
	}
	return code, nil
}

func (e *Encoder) memberID(parent, c *models.Container) int {
	if id, ok := e.memberIDs[c]; ok {
		return id
	}
	id := slices.Index(parent.DirectChildren(), c) + 1
	e.memberIDs[c] = id
	return id
}

// resolveOwner derives the user id from the shallowest owned container.
func (e *Encoder) resolveOwner(u *models.User) error {
	if u.ID() != "" {
		return nil
	}

	var shallowest *models.Container
	highest := 0
	for _, owned := range u.Owned() {
		if err := e.resolvePath(owned); err != nil {
			return err
		}
		if shallowest == nil || len(owned.OrgPath) < len(shallowest.OrgPath) {
			shallowest = owned
		}
		highest = max(highest, len(owned.OrgPath))
	}
	if shallowest == nil {
		return fmt.Errorf("%w: user of domain %s owns no container", models.ErrState, u.Domain)
	}

	u.HighestOwnedLevel = highest
	u.OrgLevel = shallowest.OrgLevel()
	u.SetID(u.Domain + models.UserMarker + u.OrgLevel)
	return nil
}
