package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
)

// ErrInvalidScenario is matched by every *ValidationError.
var ErrInvalidScenario = errors.New("invalid scenario")

// ValidationError lists every problem found in a scenario.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidScenario, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidScenario
}

// Validate checks references between layers, workload selections and the
// names of permissions, states and classification types.
func (s *Scenario) Validate() error {
	v := &validator{}
	if len(s.Domains) == 0 {
		v.addf("no domains")
	}
	seen := map[string]bool{}
	for i, d := range s.Domains {
		where := fmt.Sprintf("domain %d", i)
		if d.Name == "" {
			v.addf("%s: missing name", where)
		} else {
			where = "domain " + d.Name
			if seen[d.Name] {
				v.addf("%s: duplicate name", where)
			}
			seen[d.Name] = true
		}
		v.domain(where, d)
	}
	if len(v.problems) > 0 {
		return &ValidationError{Problems: v.problems}
	}
	return nil
}

type validator struct {
	problems []string
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) domain(where string, d Domain) {
	if d.Personal < 0 {
		v.addf("%s: negative personal count", where)
	}
	for i, l := range d.Layers {
		v.layer(fmt.Sprintf("%s layer %d", where, i), i, l)
	}

	for _, u := range d.Superusers {
		if u.ID == "" {
			v.addf("%s: superuser without id", where)
		}
		if _, err := u.Permission(); err != nil {
			v.addf("%s superuser %s: %v", where, u.ID, err)
		}
	}

	hasDocuments, hasTasks := false, false
	if d.Classifications.Children < 0 {
		v.addf("%s: negative classification children", where)
	}
	for _, c := range d.Classifications.Categories {
		t, err := c.ClassificationType()
		if err != nil {
			v.addf("%s category %s: %v", where, c.Name, err)
		}
		if c.Name == "" {
			v.addf("%s: category without name", where)
		}
		hasTasks = hasTasks || t == models.ClassificationTask
		hasDocuments = hasDocuments || t == models.ClassificationDocument
	}

	if d.ObjectReferences < 0 || d.MaxAttachments < 0 {
		v.addf("%s: negative object reference or attachment count", where)
	}
	if len(d.Workload) > 0 && !hasTasks {
		v.addf("%s: workload without a TASK category", where)
	}
	for i, w := range d.Workload {
		v.workload(fmt.Sprintf("%s workload %d", where, i), d, w, hasDocuments)
	}
}

func (v *validator) layer(where string, index int, l Layer) {
	if l.Count < 0 || l.Pull < 0 {
		v.addf("%s: negative count or pull", where)
	}
	if l.Count > 0 && l.Targets == "" && l.Pull == 0 {
		v.addf("%s: neither targets nor pull", where)
	}
	if l.Pull > 0 && l.From == "" {
		v.addf("%s: pull without from", where)
	}
	for _, src := range []string{l.From, l.Targets} {
		if src == "" {
			continue
		}
		ref, personal, err := ParseSource(src)
		switch {
		case err != nil:
			v.addf("%s: %v", where, err)
		case personal && src == l.Targets:
			v.addf("%s: targets cannot name the personal pool", where)
		case !personal && ref >= index:
			v.addf("%s: %s is not an earlier layer", where, src)
		}
	}
}

func (v *validator) workload(where string, d Domain, w Workload, hasDocuments bool) {
	if w.Layer < 0 || w.Layer >= len(d.Layers) {
		v.addf("%s: no layer %d", where, w.Layer)
	} else if w.Index < 0 || w.Index >= d.Layers[w.Layer].Count {
		v.addf("%s: layer %d has no container %d", where, w.Layer, w.Index)
	}
	for _, sc := range w.States {
		if _, err := sc.ItemState(); err != nil {
			v.addf("%s: %v", where, err)
		}
		if sc.Count < 0 {
			v.addf("%s: negative %s count", where, sc.State)
		}
	}
	if w.Attachments < 0 {
		v.addf("%s: negative attachments", where)
	}
	if w.Attachments > 0 && !hasDocuments {
		v.addf("%s: attachments without a DOCUMENT category", where)
	}
}
