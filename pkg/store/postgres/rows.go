package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
)

// orgLevels is the number of org path codes copied into their own columns.
const orgLevels = 4

type WorkbasketRow struct {
	ID        string `gorm:"primaryKey;size:40"`
	Key       string `gorm:"size:64;not null;uniqueIndex:idx_workbasket_key_domain"`
	Domain    string `gorm:"size:32;not null;uniqueIndex:idx_workbasket_key_domain"`
	Name      string `gorm:"size:255"`
	Type      string `gorm:"size:16"`
	Owner     string `gorm:"size:128;index"`
	OrgLevel1 string `gorm:"size:32"`
	OrgLevel2 string `gorm:"size:32"`
	OrgLevel3 string `gorm:"size:32"`
	OrgLevel4 string `gorm:"size:32"`
	Created   time.Time
	Modified  time.Time
}

func (WorkbasketRow) TableName() string { return "workbasket" }

type DistributionTargetRow struct {
	SourceID string `gorm:"primaryKey;size:40"`
	TargetID string `gorm:"primaryKey;size:40"`
}

func (DistributionTargetRow) TableName() string { return "distribution_targets" }

type AccessRow struct {
	ID             string `gorm:"primaryKey;size:40"`
	WorkbasketID   string `gorm:"size:40;not null;index"`
	AccessID       string `gorm:"size:255;not null;index"`
	PermRead       bool
	PermOpen       bool
	PermAppend     bool
	PermTransfer   bool
	PermDistribute bool
}

func (AccessRow) TableName() string { return "workbasket_access_list" }

type ClassificationRow struct {
	ID       string `gorm:"primaryKey;size:40"`
	Key      string `gorm:"size:32;not null"`
	ParentID string `gorm:"size:40"`
	Category string `gorm:"size:32"`
	Type     string `gorm:"size:32"`
	Domain   string `gorm:"size:32"`
	Custom1  string `gorm:"size:255"`
	Created  time.Time
}

func (ClassificationRow) TableName() string { return "classification" }

type TaskRow struct {
	ID                     string  `gorm:"primaryKey;size:40"`
	State                  string  `gorm:"size:20;index"`
	Domain                 string  `gorm:"size:32"`
	Owner                  string  `gorm:"size:32"`
	Note                   string  `gorm:"size:4096"`
	WorkbasketID           string  `gorm:"size:40;index"`
	WorkbasketKey          string  `gorm:"size:64"`
	ClassificationID       string  `gorm:"size:40"`
	ClassificationKey      string  `gorm:"size:32"`
	ClassificationCategory string  `gorm:"size:32"`
	PorCompany             string  `gorm:"size:32"`
	PorSystem              string  `gorm:"size:32"`
	PorSystemInstance      string  `gorm:"size:32"`
	PorType                string  `gorm:"size:32"`
	PorValue               string  `gorm:"size:128"`
	CallbackInfo           jsonMap `gorm:"type:text"`
	CustomAttributes       jsonMap `gorm:"type:text"`
	Created                time.Time
}

func (TaskRow) TableName() string { return "task" }

type AttachmentRow struct {
	TaskID            string `gorm:"primaryKey;size:40"`
	Position          int    `gorm:"primaryKey;autoIncrement:false"`
	ClassificationID  string `gorm:"size:40"`
	RefCompany        string `gorm:"size:32"`
	RefSystem         string `gorm:"size:32"`
	RefSystemInstance string `gorm:"size:32"`
	RefType           string `gorm:"size:32"`
	RefValue          string `gorm:"size:128"`
}

func (AttachmentRow) TableName() string { return "attachment" }

// jsonMap stores a string map as a JSON document.
type jsonMap map[string]string

func (m jsonMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *jsonMap) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), m)
	case []byte:
		return json.Unmarshal(v, m)
	}
	return fmt.Errorf("postgres: cannot scan %T into a map", src)
}

func workbasketRow(c *models.Container) WorkbasketRow {
	var levels [orgLevels]string
	copy(levels[:], c.OrgPath)
	return WorkbasketRow{
		ID:        c.ID,
		Key:       c.Key,
		Domain:    c.Domain,
		Name:      c.Name,
		Type:      string(c.Type),
		Owner:     c.OwnerID,
		OrgLevel1: levels[0],
		OrgLevel2: levels[1],
		OrgLevel3: levels[2],
		OrgLevel4: levels[3],
		Created:   c.CreatedAt,
		Modified:  c.ModifiedAt,
	}
}

func accessRow(r *models.AccessRecord) AccessRow {
	return AccessRow{
		ID:             r.ID,
		WorkbasketID:   r.ContainerID,
		AccessID:       r.AccessID,
		PermRead:       r.Permissions.Has(models.PermRead),
		PermOpen:       r.Permissions.Has(models.PermOpen),
		PermAppend:     r.Permissions.Has(models.PermAppend),
		PermTransfer:   r.Permissions.Has(models.PermTransfer),
		PermDistribute: r.Permissions.Has(models.PermDistribute),
	}
}

func classificationRow(c *models.Classification) ClassificationRow {
	return ClassificationRow{
		ID:       c.ID,
		Key:      c.Key,
		ParentID: c.ParentID,
		Category: c.Category,
		Type:     string(c.Type),
		Domain:   c.Domain,
		Custom1:  c.Custom1,
		Created:  c.Created,
	}
}

func taskRow(it *models.Item) TaskRow {
	row := TaskRow{
		ID:                it.ID,
		State:             string(it.State),
		Domain:            it.Domain,
		Owner:             it.Owner,
		Note:              it.Note,
		WorkbasketID:      it.ContainerID,
		WorkbasketKey:     it.ContainerKey,
		PorCompany:        it.PrimaryObjRef.Company,
		PorSystem:         it.PrimaryObjRef.System,
		PorSystemInstance: it.PrimaryObjRef.SystemInstance,
		PorType:           it.PrimaryObjRef.Type,
		PorValue:          it.PrimaryObjRef.Value,
		CallbackInfo:      it.CallbackInfo,
		CustomAttributes:  it.CustomAttributes,
		Created:           it.Created,
	}
	if c := it.Classification; c != nil {
		row.ClassificationID = c.ID
		row.ClassificationKey = c.Key
		row.ClassificationCategory = c.Category
	}
	return row
}

func attachmentRows(it *models.Item) []AttachmentRow {
	rows := make([]AttachmentRow, 0, len(it.Attachments))
	for i, a := range it.Attachments {
		row := AttachmentRow{
			TaskID:            it.ID,
			Position:          i,
			RefCompany:        a.ObjectRef.Company,
			RefSystem:         a.ObjectRef.System,
			RefSystemInstance: a.ObjectRef.SystemInstance,
			RefType:           a.ObjectRef.Type,
			RefValue:          a.ObjectRef.Value,
		}
		if a.Classification != nil {
			row.ClassificationID = a.Classification.ID
		}
		rows = append(rows, row)
	}
	return rows
}
