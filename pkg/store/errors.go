package store

import (
	"errors"
	"fmt"
)

var (
	// ErrPersistence is matched by every *PersistenceError.
	ErrPersistence = errors.New("persistence failed")

	ErrDuplicate = errors.New("duplicate record")
	ErrNotFound  = errors.New("referenced record not found")
)

// Op names the bulk operation that failed.
type Op string

const (
	OpMigrate               Op = "migrate"
	OpCreateContainers      Op = "create containers"
	OpCreateEdge            Op = "create distribution edge"
	OpCreateAccessRecords   Op = "create access records"
	OpCreateClassifications Op = "create classifications"
	OpCreateItems           Op = "create items"
)

// PersistenceError wraps a store failure with the operation it happened in.
type PersistenceError struct {
	Op  Op
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
