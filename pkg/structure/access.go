package structure

import "github.com/Taskana/TaskanaTestDataGenerator/pkg/models"

type accessKey struct {
	user      *models.User
	container *models.Container
}

// Propagator keeps one access record per user and container. Repeated grants
// widen the existing record.
type Propagator struct {
	run     *Run
	records []*models.AccessRecord
	index   map[accessKey]*models.AccessRecord
}

func newPropagator(run *Run) *Propagator {
	return &Propagator{run: run, index: map[accessKey]*models.AccessRecord{}}
}

// Grant gives user perms on every container.
func (p *Propagator) Grant(user *models.User, perms models.Permission, containers ...*models.Container) {
	if user == nil {
		return
	}
	for _, c := range containers {
		key := accessKey{user: user, container: c}
		if rec, ok := p.index[key]; ok {
			rec.Grant(perms)
			continue
		}
		rec := models.NewAccessRecord(p.run.nextAccessSeq(), user, c, perms)
		p.index[key] = rec
		p.records = append(p.records, rec)
	}
}

// Wire grants along the edges from parent to children. The parent's owner
// reaches every child and everything below it, each child's owner reaches the
// parent only.
func (p *Propagator) Wire(parent *models.Container, children []*models.Container, perms models.Permission) {
	p.Grant(parent.Owner, perms, children...)
	for _, child := range children {
		p.Grant(parent.Owner, perms, child.TransitiveChildren()...)
	}
	for _, child := range children {
		p.Grant(child.Owner, perms, parent)
	}
}

// Records returns the access records in creation order.
func (p *Propagator) Records() []*models.AccessRecord {
	return p.records
}
