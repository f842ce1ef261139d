package models

import "time"

// ItemState is the lifecycle state of a task.
type ItemState string

const (
	StateReady     ItemState = "READY"
	StateClaimed   ItemState = "CLAIMED"
	StateCompleted ItemState = "COMPLETED"
)

// ClassificationType separates task classifications from document ones.
type ClassificationType string

const (
	ClassificationTask     ClassificationType = "TASK"
	ClassificationDocument ClassificationType = "DOCUMENT"
)

// Classification categorizes tasks and attachments.
type Classification struct {
	ID       string
	Key      string
	ParentID string
	Category string
	Type     ClassificationType
	Domain   string
	Custom1  string
	Created  time.Time
}

// ObjectReference points at a business object outside the task system.
type ObjectReference struct {
	Company        string
	System         string
	SystemInstance string
	Type           string
	Value          string
}

// Attachment links a task to a document.
type Attachment struct {
	Classification *Classification
	ObjectRef      ObjectReference
}

// Item is a task placed into a container.
type Item struct {
	ID               string
	State            ItemState
	Domain           string
	Owner            string
	Note             string
	ContainerKey     string
	ContainerID      string
	Classification   *Classification
	PrimaryObjRef    ObjectReference
	Attachments      []Attachment
	CallbackInfo     map[string]string
	CustomAttributes map[string]string
	Created          time.Time
}
