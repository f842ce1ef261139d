package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/workload"
)

const (
	DefaultDomain    = "C"
	DefaultSuperuser = "superUser"
	DefaultMaxLines  = 100000

	// MaxTransitiveChildren bounds the containers listed for permission
	// searches.
	MaxTransitiveChildren = 25
)

// Names of the scenario files, without extension.
const (
	FileReadItemFromContainer  = "00_auslesen_einer_aufgabe_aus_einem_postkorb"
	FileReadItemByID           = "01_auslesen_einer_aufgabe_per_id"
	FileSearchItemsByObjRef    = "02_suchen_von_aufgaben_mit_ordnungsbegriff"
	FileReadContainer          = "03_00_lesen_der_daten_eines_postkorbs"
	FileReadContainerByID      = "03_01_lesen_der_daten_eines_postkorbs_per_id"
	FileSearchClassification   = "04_00_suchen_einer_klassifikation"
	FileSearchClassificationID = "04_01_suchen_einer_klassifikation_per_id"
	FileReadClassification     = "05_lesen_einer_klassifikation"
	FileItemLifecycle          = "06_aufgabe_erstellen_claimen_aktualisieren_abschliessen_weiterleiten"
	FileContainersWithOpen     = "07_postkoerbe_suchen_auf_die_der_aufrufer_das_recht_open_hat"
	FileContainersWithAppend   = "08_postkoerbe_suchen_auf_die_der_aufrufer_das_recht_append_hat"
)

const custom1Separator = ", "

// File is the content of one scenario file.
type File struct {
	Name  string
	Lines [][]string
}

type ScenarioOption func(s *ScenarioExporter)

// WithDomain selects the domain whose data is exported.
func WithDomain(domain string) ScenarioOption {
	return func(s *ScenarioExporter) {
		s.domain = domain
	}
}

// WithSuperuser sets the user id written next to object reference searches.
func WithSuperuser(id string) ScenarioOption {
	return func(s *ScenarioExporter) {
		s.superuser = id
	}
}

func WithMaxLines(n int) ScenarioOption {
	return func(s *ScenarioExporter) {
		s.maxLines = n
	}
}

func WithLogger(log zerolog.Logger) ScenarioOption {
	return func(s *ScenarioExporter) {
		s.log = log
	}
}

// ScenarioExporter renders the parameter files of the load test scenarios
// from the data of one domain. Random picks come from src, so equal seeds
// produce equal files.
type ScenarioExporter struct {
	src       *workload.Source
	domain    string
	superuser string
	maxLines  int
	log       zerolog.Logger
}

func NewScenarioExporter(src *workload.Source, opts ...ScenarioOption) *ScenarioExporter {
	s := &ScenarioExporter{
		src:       src,
		domain:    DefaultDomain,
		superuser: DefaultSuperuser,
		maxLines:  DefaultMaxLines,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Export writes every scenario file into dir, creating dir when missing.
func (s *ScenarioExporter) Export(dir string, b *models.Bundle) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	for _, f := range s.Files(b) {
		if err := WriteCSV(dir, f.Name, f.Lines); err != nil {
			return err
		}
		s.log.Debug().Str("file", Path(dir, f.Name)).Int("lines", len(f.Lines)).Msg("exported")
	}
	s.log.Info().Str("dir", dir).Str("domain", s.domain).Msg("scenario files written")
	return nil
}

// Files renders the scenario files in name order.
func (s *ScenarioExporter) Files(b *models.Bundle) []File {
	containers := filter(b.Containers, func(c *models.Container) bool { return c.Domain == s.domain })
	items := filter(b.Items, func(it *models.Item) bool { return it.Domain == s.domain })
	taskClassifications := filter(b.Classifications, func(c *models.Classification) bool {
		return c.Domain == s.domain && c.Type == models.ClassificationTask
	})

	ownerByKey := make(map[string]string, len(containers))
	for _, c := range containers {
		ownerByKey[c.Key] = c.OwnerID
	}
	var firstOwner string
	if len(containers) > 0 {
		firstOwner = containers[0].OwnerID
	}

	keyDomainOwner := func(e *Exporter[*models.Container]) *Exporter[*models.Container] {
		return e.
			AddField(func(c *models.Container) string { return c.Key }).
			AddField(func(c *models.Container) string { return c.Domain }).
			AddField(func(c *models.Container) string { return c.OwnerID })
	}
	permissionSearch := func(name string) *Exporter[*models.Container] {
		return New[*models.Container](name).
			AddPredicate(func(c *models.Container) bool { return len(c.TransitiveChildren()) < MaxTransitiveChildren }).
			AddField(func(c *models.Container) string { return c.OwnerID })
	}

	var files []File
	addContainers := func(e *Exporter[*models.Container]) {
		files = append(files, File{Name: e.Name(), Lines: e.Lines(containers)})
	}
	addItems := func(e *Exporter[*models.Item]) {
		files = append(files, File{Name: e.Name(), Lines: e.Lines(items)})
	}

	addContainers(keyDomainOwner(New[*models.Container](FileReadItemFromContainer).
		AddPredicate(func(c *models.Container) bool { return len(c.Items()) > 0 })))

	addItems(New[*models.Item](FileReadItemByID).
		MaxLines(s.maxLines).
		AddField(func(it *models.Item) string { return it.ID }).
		AddField(func(it *models.Item) string {
			if owner, ok := ownerByKey[it.ContainerKey]; ok {
				return owner
			}
			return it.Owner
		}))

	addItems(New[*models.Item](FileSearchItemsByObjRef).
		AddField(func(it *models.Item) string { return it.PrimaryObjRef.Value }).
		AddConstant(s.superuser))

	addContainers(keyDomainOwner(New[*models.Container](FileReadContainer)))

	addContainers(New[*models.Container](FileReadContainerByID).
		AddField(func(c *models.Container) string { return c.ID }).
		AddField(func(c *models.Container) string { return c.OwnerID }))

	addItems(New[*models.Item](FileSearchClassification).
		MaxLines(s.maxLines).
		AddField(func(it *models.Item) string { return string(it.Classification.Type) }).
		AddField(func(it *models.Item) string { return it.Classification.Category }).
		AddField(func(it *models.Item) string { return s.pick(strings.Split(it.Classification.Custom1, custom1Separator)) }).
		AddField(func(it *models.Item) string { return it.Domain }).
		AddConstant(firstOwner))

	addItems(New[*models.Item](FileSearchClassificationID).
		MaxLines(s.maxLines).
		AddField(func(it *models.Item) string { return it.Classification.ID }).
		AddConstant(firstOwner))

	addItems(New[*models.Item](FileReadClassification).
		AddField(func(it *models.Item) string { return it.Classification.Key }).
		AddField(func(it *models.Item) string { return it.Domain }).
		AddConstant(firstOwner))

	addContainers(New[*models.Container](FileItemLifecycle).
		AddPredicate(func(c *models.Container) bool { return len(c.DirectChildren()) > 0 }).
		AddField(func(c *models.Container) string { return c.Key }).
		AddField(func(c *models.Container) string { return c.ID }).
		AddField(func(c *models.Container) string { return c.Domain }).
		AddProducer(func(*models.Container) []string {
			if len(taskClassifications) == 0 {
				return []string{"", ""}
			}
			cl := taskClassifications[s.src.IntN(len(taskClassifications))]
			return []string{cl.Key, cl.Category}
		}).
		AddField(func(c *models.Container) string { return c.DirectChildren()[0].Key }).
		AddField(func(c *models.Container) string { return c.DirectChildren()[0].ID }).
		AddField(func(c *models.Container) string { return c.OwnerID }))

	addContainers(permissionSearch(FileContainersWithOpen))
	addContainers(permissionSearch(FileContainersWithAppend))

	return files
}

func (s *ScenarioExporter) pick(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[s.src.IntN(len(values))]
}

func filter[T any](in []T, keep func(T) bool) []T {
	var out []T
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
