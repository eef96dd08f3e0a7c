package models

import (
	"image"

	"github.com/google/uuid"
)

type WorkItemStatus string

const (
	ItemPending    WorkItemStatus = "pending"
	ItemProcessing WorkItemStatus = "processing"
	ItemCompleted  WorkItemStatus = "completed"
	ItemError      WorkItemStatus = "error"
)

// WorkItem is one chunk of a sliced page queued for translation.
//
// Status moves Pending -> Processing -> Completed|Error, plus the explicit
// user-triggered Reset from a terminal state back to Pending. Generation is
// bumped on every Reset so that a stale response from an earlier dispatch can
// be recognized and discarded. All mutation happens under the scheduler's
// lock; WorkItem itself carries no synchronization.
type WorkItem struct {
	ID     string
	Index  int // ordinal position within the page, stable output order
	Top    int // source row range this chunk was cut from
	Bottom int

	Image  *image.NRGBA
	Status WorkItemStatus
	Result *image.NRGBA
	Err    error

	Generation uint64
}

func NewWorkItem(index int, img *image.NRGBA) *WorkItem {
	return &WorkItem{
		ID:     uuid.New().String(),
		Index:  index,
		Image:  img,
		Status: ItemPending,
	}
}

// Terminal reports whether the item has reached a final state.
func (w *WorkItem) Terminal() bool {
	return w.Status == ItemCompleted || w.Status == ItemError
}

// Complete records a successful translation result.
func (w *WorkItem) Complete(result *image.NRGBA) {
	w.Status = ItemCompleted
	w.Result = result
	w.Err = nil
}

// Fail records a translation failure. The item stays failed until the user
// explicitly resets it; there is no automatic retry.
func (w *WorkItem) Fail(err error) {
	w.Status = ItemError
	w.Result = nil
	w.Err = err
}

// Reset returns a terminal item to Pending for another attempt, clearing any
// prior result and bumping the generation so late responses from the previous
// dispatch are dropped. Reset on a non-terminal item is a no-op.
func (w *WorkItem) Reset() bool {
	if !w.Terminal() {
		return false
	}
	w.Status = ItemPending
	w.Result = nil
	w.Err = nil
	w.Generation++
	return true
}
