// Package scenario describes which domains a generation run builds: their
// layered container structure, superusers, classifications and workload.
package scenario

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
)

// SourcePersonal names the pool of a domain's personal containers.
const SourcePersonal = "personal"

const layerPrefix = "layer:"

//go:embed default.yaml
var defaultScenario []byte

type Scenario struct {
	Domains []Domain `yaml:"domains"`
}

type Domain struct {
	Name string `yaml:"name"`
	// Personal is the number of simple containers created first.
	Personal         int             `yaml:"personal"`
	Layers           []Layer         `yaml:"layers"`
	Superusers       []Superuser     `yaml:"superusers"`
	Classifications  Classifications `yaml:"classifications"`
	ObjectReferences int             `yaml:"objectReferences"`
	// MaxAttachments caps the attachments of the domain; zero is unlimited.
	MaxAttachments int        `yaml:"maxAttachments"`
	Workload       []Workload `yaml:"workload"`
}

// Layer is one layer of group containers. Pull targets per container come
// from the pool named by From; Targets wires a whole earlier layer under
// every new container.
type Layer struct {
	Count   int    `yaml:"count"`
	Pull    int    `yaml:"pull"`
	From    string `yaml:"from"`
	Targets string `yaml:"targets"`
}

// Superuser gets Permissions on every container of the domain.
type Superuser struct {
	ID          string   `yaml:"id"`
	Permissions []string `yaml:"permissions"`
}

type Classifications struct {
	Children   int        `yaml:"children"`
	Categories []Category `yaml:"categories"`
}

type Category struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Workload fills the transitive children of one container, selected by
// layer and position, and optionally the container itself.
type Workload struct {
	Layer       int          `yaml:"layer"`
	Index       int          `yaml:"index"`
	IncludeSelf bool         `yaml:"includeSelf"`
	States      []StateCount `yaml:"states"`
	Attachments int          `yaml:"attachments"`
}

type StateCount struct {
	State string `yaml:"state"`
	Count int    `yaml:"count"`
}

// Default returns the built-in scenario with domains A, B and C.
func Default() *Scenario {
	s, err := Parse(defaultScenario)
	if err != nil {
		panic(err)
	}
	return s
}

// Load reads and validates the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML scenario. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseSource splits a pool or target reference into a layer index, or
// reports the personal pool with personal set.
func ParseSource(src string) (layer int, personal bool, err error) {
	if src == SourcePersonal {
		return 0, true, nil
	}
	if !strings.HasPrefix(src, layerPrefix) {
		return 0, false, fmt.Errorf("unknown source %q", src)
	}
	layer, err = strconv.Atoi(strings.TrimPrefix(src, layerPrefix))
	if err != nil || layer < 0 {
		return 0, false, fmt.Errorf("invalid layer in source %q", src)
	}
	return layer, false, nil
}

// Permission parses the permission names of u into one set.
func (u Superuser) Permission() (models.Permission, error) {
	var perms models.Permission
	for _, name := range u.Permissions {
		p, err := models.ParsePermission(name)
		if err != nil {
			return 0, err
		}
		perms |= p
	}
	return perms, nil
}

// ItemState parses the state name.
func (sc StateCount) ItemState() (models.ItemState, error) {
	switch st := models.ItemState(strings.ToUpper(sc.State)); st {
	case models.StateReady, models.StateClaimed, models.StateCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown task state %q", sc.State)
}

// ClassificationType parses the category type.
func (c Category) ClassificationType() (models.ClassificationType, error) {
	switch t := models.ClassificationType(strings.ToUpper(c.Type)); t {
	case models.ClassificationTask, models.ClassificationDocument:
		return t, nil
	}
	return "", fmt.Errorf("unknown classification type %q", c.Type)
}
