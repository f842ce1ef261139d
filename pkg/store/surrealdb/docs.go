package surrealdb

import (
	"time"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/models"
)

type workbasketDoc struct {
	ID       string    `json:"id"`
	Key      string    `json:"key"`
	Domain   string    `json:"domain"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Owner    string    `json:"owner"`
	OrgPath  []string  `json:"org_path"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

type accessDoc struct {
	ID          string   `json:"id"`
	Workbasket  string   `json:"workbasket"`
	AccessID    string   `json:"access_id"`
	Permissions []string `json:"permissions"`
}

type classificationDoc struct {
	ID       string    `json:"id"`
	Key      string    `json:"key"`
	Parent   string    `json:"parent,omitempty"`
	Category string    `json:"category"`
	Type     string    `json:"type"`
	Domain   string    `json:"domain"`
	Custom1  string    `json:"custom1"`
	Created  time.Time `json:"created"`
}

type objectRefDoc struct {
	Company        string `json:"company"`
	System         string `json:"system"`
	SystemInstance string `json:"system_instance"`
	Type           string `json:"type"`
	Value          string `json:"value"`
}

type attachmentDoc struct {
	Classification string       `json:"classification"`
	ObjectRef      objectRefDoc `json:"object_ref"`
}

type taskDoc struct {
	ID               string            `json:"id"`
	State            string            `json:"state"`
	Domain           string            `json:"domain"`
	Owner            string            `json:"owner"`
	Note             string            `json:"note"`
	Workbasket       string            `json:"workbasket"`
	WorkbasketKey    string            `json:"workbasket_key"`
	Classification   string            `json:"classification"`
	PrimaryObjRef    objectRefDoc      `json:"primary_obj_ref"`
	Attachments      []attachmentDoc   `json:"attachments"`
	CallbackInfo     map[string]string `json:"callback_info"`
	CustomAttributes map[string]string `json:"custom_attributes"`
	Created          time.Time         `json:"created"`
}

func newWorkbasketDoc(c *models.Container) workbasketDoc {
	return workbasketDoc{
		ID:       c.ID,
		Key:      c.Key,
		Domain:   c.Domain,
		Name:     c.Name,
		Type:     string(c.Type),
		Owner:    c.OwnerID,
		OrgPath:  c.OrgPath,
		Created:  c.CreatedAt,
		Modified: c.ModifiedAt,
	}
}

func newAccessDoc(r *models.AccessRecord) accessDoc {
	var perms []string
	for _, p := range []models.Permission{models.PermRead, models.PermAppend, models.PermDistribute, models.PermOpen, models.PermTransfer} {
		if r.Permissions.Has(p) {
			perms = append(perms, p.String())
		}
	}
	return accessDoc{
		ID:          r.ID,
		Workbasket:  r.ContainerID,
		AccessID:    r.AccessID,
		Permissions: perms,
	}
}

func newClassificationDoc(c *models.Classification) classificationDoc {
	return classificationDoc{
		ID:       c.ID,
		Key:      c.Key,
		Parent:   c.ParentID,
		Category: c.Category,
		Type:     string(c.Type),
		Domain:   c.Domain,
		Custom1:  c.Custom1,
		Created:  c.Created,
	}
}

func newObjectRefDoc(ref models.ObjectReference) objectRefDoc {
	return objectRefDoc{
		Company:        ref.Company,
		System:         ref.System,
		SystemInstance: ref.SystemInstance,
		Type:           ref.Type,
		Value:          ref.Value,
	}
}

func newTaskDoc(it *models.Item) taskDoc {
	doc := taskDoc{
		ID:               it.ID,
		State:            string(it.State),
		Domain:           it.Domain,
		Owner:            it.Owner,
		Note:             it.Note,
		Workbasket:       it.ContainerID,
		WorkbasketKey:    it.ContainerKey,
		PrimaryObjRef:    newObjectRefDoc(it.PrimaryObjRef),
		Attachments:      []attachmentDoc{},
		CallbackInfo:     it.CallbackInfo,
		CustomAttributes: it.CustomAttributes,
		Created:          it.Created,
	}
	if it.Classification != nil {
		doc.Classification = it.Classification.ID
	}
	for _, a := range it.Attachments {
		ad := attachmentDoc{ObjectRef: newObjectRefDoc(a.ObjectRef)}
		if a.Classification != nil {
			ad.Classification = a.Classification.ID
		}
		doc.Attachments = append(doc.Attachments, ad)
	}
	return doc
}
