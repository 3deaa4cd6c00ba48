package editor

import (
	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
)

// Tool is the active editing tool.
type Tool uint8

const (
	ToolPath Tool = iota
	ToolDecoration
	ToolDelete
)

// Tools lists every tool in cycling order.
func Tools() []Tool {
	return []Tool{ToolPath, ToolDecoration, ToolDelete}
}

func (t Tool) String() string {
	switch t {
	case ToolPath:
		return "path"
	case ToolDecoration:
		return "decoration"
	case ToolDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Next returns the tool after t, wrapping around.
func (t Tool) Next() Tool {
	return Tool((int(t) + 1) % len(Tools()))
}

// Command is a discrete keyboard intent.
type Command uint8

const (
	CmdUndo Command = iota
	CmdRedo
	CmdToggleSymmetry
	CmdDeleteLast
)

func (c Command) String() string {
	switch c {
	case CmdUndo:
		return "undo"
	case CmdRedo:
		return "redo"
	case CmdToggleSymmetry:
		return "toggleSymmetry"
	case CmdDeleteLast:
		return "deleteLast"
	default:
		return "unknown"
	}
}

// Input is one resolved pointer action: a tool applied at a cell. Decoration
// names the type to place with ToolDecoration; when empty the session's
// selected type is used.
type Input struct {
	Tool       Tool
	Cell       core.Point
	Decoration mapdoc.DecorationType
}

// RebuildFunc receives the full path and decoration list after every
// accepted change. Consumers rebuild from scratch each time.
type RebuildFunc func(path []core.Point, decorations []mapdoc.Decoration)
