package models

// Bundle is the generated data of one or more domains.
type Bundle struct {
	Containers      []*Container
	AccessRecords   []*AccessRecord
	Items           []*Item
	Classifications []*Classification
}

// Union returns a new bundle holding the data of b followed by other.
// A nil other, or b itself, returns b.
func (b *Bundle) Union(other *Bundle) *Bundle {
	if other == nil || other == b {
		return b
	}
	return &Bundle{
		Containers:      concat(b.Containers, other.Containers),
		AccessRecords:   concat(b.AccessRecords, other.AccessRecords),
		Items:           concat(b.Items, other.Items),
		Classifications: concat(b.Classifications, other.Classifications),
	}
}

// Domains lists the container domains in first appearance order.
func (b *Bundle) Domains() []string {
	seen := map[string]bool{}
	var domains []string
	for _, c := range b.Containers {
		if !seen[c.Domain] {
			seen[c.Domain] = true
			domains = append(domains, c.Domain)
		}
	}
	return domains
}

func concat[T any](a, b []T) []T {
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
