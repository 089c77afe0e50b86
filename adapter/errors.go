package adapter

import (
	"errors"
	"fmt"
)

var (
	ErrGroupTranslation     = errors.New("group translation failed")
	ErrLabelTooLong         = errors.New("label too long")
	ErrMalformedLabel       = errors.New("malformed label")
	ErrCorruptWideElement   = errors.New("corrupt wide element")
	ErrInconsistentElection = errors.New("inconsistent election")
)

// GroupTranslationError is returned when a group cannot be carried between
// the storage side and the mix-net. It is fatal for the session.
type GroupTranslationError struct {
	Reason string
	Err    error
}

func (e *GroupTranslationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bridge: %s: %v", e.Reason, e.Err)
	}
	return "bridge: " + e.Reason
}

func (e *GroupTranslationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrGroupTranslation}
	}
	return []error{ErrGroupTranslation, e.Err}
}

// GroupWarning reports that a group rebuilt from trusted storage-side
// parameters failed the structure check. The group is still usable.
type GroupWarning struct {
	Err error
}

func (e *GroupWarning) Error() string {
	return fmt.Sprintf("bridge: group structure check failed: %v", e.Err)
}

func (e *GroupWarning) Unwrap() error {
	return e.Err
}

// LabelTooLongError is returned when a label does not fit into one group
// element after padding.
type LabelTooLongError struct {
	Slot     Slot
	Path     string
	Len      int
	Capacity int
}

func (e *LabelTooLongError) Error() string {
	return fmt.Sprintf("label: %s label at %s is %d bytes, capacity is %d", e.Slot, where(e.Path), e.Len, e.Capacity)
}

func (e *LabelTooLongError) Unwrap() error {
	return ErrLabelTooLong
}

// MalformedLabelError is returned when a label is not valid UTF-8 or a group
// element does not decode to a label.
type MalformedLabelError struct {
	Slot Slot
	Path string
	Err  error
}

func (e *MalformedLabelError) Error() string {
	return fmt.Sprintf("label: malformed %s label at %s: %v", e.Slot, where(e.Path), e.Err)
}

func (e *MalformedLabelError) Unwrap() []error {
	return []error{ErrMalformedLabel, e.Err}
}

// CorruptWideElementError is returned when one mixed element cannot be
// unpacked. It concerns that element only.
type CorruptWideElementError struct {
	Index int
	Err   error
}

func (e *CorruptWideElementError) Error() string {
	return fmt.Sprintf("unpack: element %d: %v", e.Index, e.Err)
}

func (e *CorruptWideElementError) Unwrap() []error {
	return []error{ErrCorruptWideElement, e.Err}
}

// InconsistentElectionError is returned when a batch mixes elements of
// different elections. It is fatal for the batch.
type InconsistentElectionError struct {
	Index int
	Want  string
	Got   string
}

func (e *InconsistentElectionError) Error() string {
	return fmt.Sprintf("guard: element %d belongs to election %q, batch belongs to %q", e.Index, e.Got, e.Want)
}

func (e *InconsistentElectionError) Unwrap() error {
	return ErrInconsistentElection
}

func where(path string) string {
	if path == "" {
		return "<unknown>"
	}
	return path
}
