// Package export writes generated bundles as CSV parameter files for load
// tests and as CBOR snapshots.
package export

// Predicate selects the objects an Exporter turns into lines.
type Predicate[T any] func(T) bool

// Producer renders one or more fields of an object.
type Producer[T any] func(T) []string

// Exporter turns objects into lines of fields. An object becomes a line only
// when every predicate accepts it. Each line holds the fields of every
// producer in registration order followed by the constants.
type Exporter[T any] struct {
	name       string
	predicates []Predicate[T]
	producers  []Producer[T]
	constants  []string
	maxLines   int
}

// New creates an exporter whose output file is called name.
func New[T any](name string) *Exporter[T] {
	return &Exporter[T]{name: name}
}

func (e *Exporter[T]) Name() string {
	return e.name
}

func (e *Exporter[T]) AddPredicate(p Predicate[T]) *Exporter[T] {
	e.predicates = append(e.predicates, p)
	return e
}

func (e *Exporter[T]) AddProducer(p Producer[T]) *Exporter[T] {
	e.producers = append(e.producers, p)
	return e
}

// AddField registers a producer of a single field.
func (e *Exporter[T]) AddField(f func(T) string) *Exporter[T] {
	return e.AddProducer(func(v T) []string { return []string{f(v)} })
}

// AddConstant appends values to every line.
func (e *Exporter[T]) AddConstant(values ...string) *Exporter[T] {
	e.constants = append(e.constants, values...)
	return e
}

// MaxLines limits the number of lines. Zero or less means no limit.
func (e *Exporter[T]) MaxLines(n int) *Exporter[T] {
	e.maxLines = n
	return e
}

// Lines filters objects, applies the line limit and renders the rest.
func (e *Exporter[T]) Lines(objects []T) [][]string {
	var lines [][]string
	for _, o := range objects {
		if e.maxLines > 0 && len(lines) == e.maxLines {
			break
		}
		if !e.accepts(o) {
			continue
		}
		var line []string
		for _, p := range e.producers {
			line = append(line, p(o)...)
		}
		line = append(line, e.constants...)
		lines = append(lines, line)
	}
	return lines
}

func (e *Exporter[T]) accepts(o T) bool {
	for _, p := range e.predicates {
		if !p(o) {
			return false
		}
	}
	return true
}
