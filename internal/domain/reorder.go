package domain

// DragState is the transient state of an in-progress term drag.
// Target is nil until the pointer is over a drop position.
type DragState struct {
	Source int
	Target *int
}

// Active reports whether a drag is in progress
func (d *DragState) Active() bool {
	return d != nil
}

// DropIndex returns where an element taken from source lands when dropped before
// the element currently at target, after the removal shift. Used both for the
// preview placeholder and for the committed plan.
func DropIndex(source, target, length int) int {
	if target < 0 {
		target = 0
	}
	if target > length {
		target = length
	}
	if source < target {
		return target - 1
	}
	return target
}

// RowInsertionPoint converts the row a dragged term is dropped on into an
// insertion point: dropping below the source lands after the row, dropping
// above lands before it.
func RowInsertionPoint(source, row int) int {
	if row > source {
		return row + 1
	}
	return row
}

// PlanReorder moves the term at source to the insertion point target (0..len,
// len meaning "to the end"). It returns nil when the move is invalid or leaves
// the order unchanged, in which case no reorder should be issued.
func PlanReorder(terms []Term, source int, target *int) []Term {
	if len(terms) < 2 || target == nil {
		return nil
	}
	if source < 0 || source >= len(terms) {
		return nil
	}

	insertAt := DropIndex(source, *target, len(terms))

	moved := terms[source]
	next := make([]Term, 0, len(terms))
	next = append(next, terms[:source]...)
	next = append(next, terms[source+1:]...)
	next = append(next[:insertAt], append([]Term{moved}, next[insertAt:]...)...)

	if sameOrder(terms, next) {
		return nil
	}
	return next
}

func sameOrder(a, b []Term) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
