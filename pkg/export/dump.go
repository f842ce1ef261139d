package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Taskana/TaskanaTestDataGenerator/internal/codec"
	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
)

// DumpFormat starts every dump. The records follow as a stream of CBOR items.
const DumpFormat = "TDGDUMP01"

// Tables of dump records, written in this order.
const (
	TableWorkbasket     = "workbasket"
	TableDistribution   = "distribution_targets"
	TableAccess         = "workbasket_access_list"
	TableClassification = "classification"
	TableTask           = "task"
)

var ErrInvalidDump = errors.New("invalid dump")

// Record is one dumped row. Decoded records carry Data as map[string]any.
type Record struct {
	Table string `cbor:"table"`
	ID    string `cbor:"id"`
	Data  any    `cbor:"data"`
}

type workbasketEntry struct {
	Key       string    `cbor:"key"`
	Name      string    `cbor:"name"`
	Domain    string    `cbor:"domain"`
	Type      string    `cbor:"type"`
	Owner     string    `cbor:"owner"`
	OrgLevels []string  `cbor:"org_levels"`
	Created   time.Time `cbor:"created"`
	Modified  time.Time `cbor:"modified"`
}

type distributionEntry struct {
	Source string `cbor:"source"`
	Target string `cbor:"target"`
}

type accessEntry struct {
	WorkbasketID string `cbor:"workbasket_id"`
	AccessID     string `cbor:"access_id"`
	Permissions  string `cbor:"permissions"`
}

type classificationEntry struct {
	Key      string    `cbor:"key"`
	ParentID string    `cbor:"parent_id,omitempty"`
	Category string    `cbor:"category"`
	Type     string    `cbor:"type"`
	Domain   string    `cbor:"domain"`
	Custom1  string    `cbor:"custom1"`
	Created  time.Time `cbor:"created"`
}

type objectRefEntry struct {
	Company        string `cbor:"company"`
	System         string `cbor:"system"`
	SystemInstance string `cbor:"system_instance"`
	Type           string `cbor:"type"`
	Value          string `cbor:"value"`
}

type attachmentEntry struct {
	ClassificationID string         `cbor:"classification_id"`
	ObjectRef        objectRefEntry `cbor:"object_ref"`
}

type taskEntry struct {
	State            string            `cbor:"state"`
	Domain           string            `cbor:"domain"`
	Owner            string            `cbor:"owner"`
	Note             string            `cbor:"note"`
	WorkbasketKey    string            `cbor:"workbasket_key"`
	WorkbasketID     string            `cbor:"workbasket_id"`
	ClassificationID string            `cbor:"classification_id"`
	PrimaryObjRef    objectRefEntry    `cbor:"primary_obj_ref"`
	Attachments      []attachmentEntry `cbor:"attachments,omitempty"`
	CallbackInfo     map[string]string `cbor:"callback_info"`
	CustomAttributes map[string]string `cbor:"custom_attributes"`
	Created          time.Time         `cbor:"created"`
}

// Records flattens b into dump records: containers, distribution edges,
// access records, classifications and then items.
func Records(b *models.Bundle) []Record {
	var records []Record
	for _, c := range b.Containers {
		records = append(records, Record{Table: TableWorkbasket, ID: c.ID, Data: workbasketEntry{
			Key:       c.Key,
			Name:      c.Name,
			Domain:    c.Domain,
			Type:      string(c.Type),
			Owner:     c.OwnerID,
			OrgLevels: c.OrgPath,
			Created:   c.CreatedAt,
			Modified:  c.ModifiedAt,
		}})
	}
	for _, c := range b.Containers {
		for _, child := range c.DirectChildren() {
			records = append(records, Record{
				Table: TableDistribution,
				ID:    c.ID + "->" + child.ID,
				Data:  distributionEntry{Source: c.ID, Target: child.ID},
			})
		}
	}
	for _, r := range b.AccessRecords {
		records = append(records, Record{Table: TableAccess, ID: r.ID, Data: accessEntry{
			WorkbasketID: r.ContainerID,
			AccessID:     r.AccessID,
			Permissions:  r.Permissions.String(),
		}})
	}
	for _, c := range b.Classifications {
		records = append(records, Record{Table: TableClassification, ID: c.ID, Data: classificationEntry{
			Key:      c.Key,
			ParentID: c.ParentID,
			Category: c.Category,
			Type:     string(c.Type),
			Domain:   c.Domain,
			Custom1:  c.Custom1,
			Created:  c.Created,
		}})
	}
	for _, it := range b.Items {
		records = append(records, Record{Table: TableTask, ID: it.ID, Data: newTaskEntry(it)})
	}
	return records
}

func newTaskEntry(it *models.Item) taskEntry {
	e := taskEntry{
		State:            string(it.State),
		Domain:           it.Domain,
		Owner:            it.Owner,
		Note:             it.Note,
		WorkbasketKey:    it.ContainerKey,
		WorkbasketID:     it.ContainerID,
		ClassificationID: it.Classification.ID,
		PrimaryObjRef:    newObjectRefEntry(it.PrimaryObjRef),
		CallbackInfo:     it.CallbackInfo,
		CustomAttributes: it.CustomAttributes,
		Created:          it.Created,
	}
	for _, a := range it.Attachments {
		e.Attachments = append(e.Attachments, attachmentEntry{
			ClassificationID: a.Classification.ID,
			ObjectRef:        newObjectRefEntry(a.ObjectRef),
		})
	}
	return e
}

func newObjectRefEntry(ref models.ObjectReference) objectRefEntry {
	return objectRefEntry{
		Company:        ref.Company,
		System:         ref.System,
		SystemInstance: ref.SystemInstance,
		Type:           ref.Type,
		Value:          ref.Value,
	}
}

// WriteDump writes the format header and the records of b.
func WriteDump(w io.Writer, b *models.Bundle) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(DumpFormat); err != nil {
		return err
	}
	enc := codec.NewCBOR().NewEncoder(bw)
	for _, r := range Records(b) {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode %s %s: %w", r.Table, r.ID, err)
		}
	}
	return bw.Flush()
}

// DumpFile writes the dump of b to path.
func DumpFile(path string, b *models.Bundle) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dump: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close dump: %w", cerr)
		}
	}()
	return WriteDump(f, b)
}

// ReadDump checks the format header and decodes every record.
func ReadDump(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	header := make([]byte, len(DumpFormat))
	if _, err := io.ReadFull(br, header); err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidDump, err)
	}
	if string(header) != DumpFormat {
		return nil, fmt.Errorf("%w: unexpected header %q", ErrInvalidDump, header)
	}

	dec := codec.NewCBOR().NewDecoder(br)
	var records []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return records, fmt.Errorf("%w: record %d: %v", ErrInvalidDump, len(records), err)
		}
		records = append(records, rec)
	}
}
