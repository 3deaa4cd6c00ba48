// Package history provides the bounded undo/redo log of document snapshots.
package history

import "github.com/vovakirdan/trackforge/internal/mapdoc"

// DefaultMaxDepth is the undo depth used when none is configured.
const DefaultMaxDepth = 20

// Log keeps two stacks of snapshots. The undo stack is bounded and evicts
// its oldest entry when full; the redo stack is unbounded but is cleared by
// every new record. All entries are deep copies, so later edits to the live
// document cannot corrupt history.
type Log struct {
	maxDepth int
	undo     []mapdoc.Snapshot
	redo     []mapdoc.Snapshot
}

// New creates a log holding at most maxDepth undo entries.
// A non-positive depth falls back to DefaultMaxDepth.
func New(maxDepth int) *Log {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Log{maxDepth: maxDepth}
}

// MaxDepth returns the undo capacity.
func (l *Log) MaxDepth() int {
	return l.maxDepth
}

// Record pushes the pre-edit state and clears redo.
func (l *Log) Record(before mapdoc.Snapshot) {
	l.undo = append(l.undo, before.Clone())
	if over := len(l.undo) - l.maxDepth; over > 0 {
		// Drop the oldest entries, keep the newest.
		l.undo = append(l.undo[:0:0], l.undo[over:]...)
	}
	l.redo = nil
}

// Undo returns the state to restore and files current under redo.
// ok is false, and nothing changes, when there is nothing to undo.
func (l *Log) Undo(current mapdoc.Snapshot) (prev mapdoc.Snapshot, ok bool) {
	if len(l.undo) == 0 {
		return mapdoc.Snapshot{}, false
	}
	l.redo = append(l.redo, current.Clone())
	prev = l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	return prev.Clone(), true
}

// Redo is the mirror of Undo.
func (l *Log) Redo(current mapdoc.Snapshot) (next mapdoc.Snapshot, ok bool) {
	if len(l.redo) == 0 {
		return mapdoc.Snapshot{}, false
	}
	l.undo = append(l.undo, current.Clone())
	if over := len(l.undo) - l.maxDepth; over > 0 {
		l.undo = append(l.undo[:0:0], l.undo[over:]...)
	}
	next = l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	return next.Clone(), true
}

// CanUndo reports whether Undo would do anything.
func (l *Log) CanUndo() bool {
	return len(l.undo) > 0
}

// CanRedo reports whether Redo would do anything.
func (l *Log) CanRedo() bool {
	return len(l.redo) > 0
}

// Depth returns the number of undo entries.
func (l *Log) Depth() int {
	return len(l.undo)
}

// RedoDepth returns the number of redo entries.
func (l *Log) RedoDepth() int {
	return len(l.redo)
}

// Clear drops all history, e.g. after a different document is loaded.
func (l *Log) Clear() {
	l.undo = nil
	l.redo = nil
}
