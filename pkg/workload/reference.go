package workload

import (
	"strconv"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
)

const (
	RefCompany  = "PerformanceTest Company"
	RefSystem   = "PerformanceTest System"
	RefInstance = "PerformanceTest Instance"
	RefType     = "Object Type"
)

// ReferenceRing hands out a fixed set of object references round-robin.
type ReferenceRing struct {
	refs []models.ObjectReference
	next int
}

// NewReferenceRing creates n references whose values are their indexes. A
// ring holds at least one reference.
func NewReferenceRing(n int) *ReferenceRing {
	n = max(n, 1)
	r := &ReferenceRing{refs: make([]models.ObjectReference, n)}
	for i := range r.refs {
		r.refs[i] = models.ObjectReference{
			Company:        RefCompany,
			System:         RefSystem,
			SystemInstance: RefInstance,
			Type:           RefType,
			Value:          strconv.Itoa(i),
		}
	}
	return r
}

func (r *ReferenceRing) Len() int {
	return len(r.refs)
}

func (r *ReferenceRing) Next() models.ObjectReference {
	ref := r.refs[r.next]
	r.next = (r.next + 1) % len(r.refs)
	return ref
}

func (r *ReferenceRing) Take(n int) []models.ObjectReference {
	refs := make([]models.ObjectReference, 0, n)
	for i := 0; i < n; i++ {
		refs = append(refs, r.Next())
	}
	return refs
}
