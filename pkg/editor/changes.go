package editor

import (
	"fmt"
	"slices"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
)

// Change is one tracked edit. From is nil for added nodes, To is nil
// for removed ones.
type Change struct {
	Path string
	From nbt.Tag
	To   nbt.Tag
}

// Modified reports whether the tree differs from the pristine state.
func (e *Editor) Modified() bool { return len(e.changes) > 0 }

// Changes lists the tracked edits in the order they were first made.
// Edits that restored the pristine value are not listed.
func (e *Editor) Changes() []Change {
	out := make([]Change, 0, len(e.changes))
	for _, path := range e.order {
		if ch, ok := e.changes[path]; ok {
			out = append(out, *ch)
		}
	}
	return out
}

// record merges an edit into the change set. Editing a path back to its
// first recorded value drops the change entirely.
func (e *Editor) record(path string, from, to nbt.Tag) {
	if ch, ok := e.changes[path]; ok {
		ch.To = nbt.Copy(to)
		if nbt.Equal(ch.From, ch.To) {
			e.drop(path)
		}
		return
	}
	if nbt.Equal(from, to) {
		return
	}
	e.changes[path] = &Change{Path: path, From: nbt.Copy(from), To: nbt.Copy(to)}
	e.order = append(e.order, path)
}

func (e *Editor) drop(path string) {
	delete(e.changes, path)
	e.order = slices.DeleteFunc(e.order, func(s string) bool { return s == path })
}

// Revert undoes the tracked edit at path. A node that was removed comes
// back at the end of its compound, not at its original position.
func (e *Editor) Revert(path string) error {
	ch, ok := e.changes[path]
	if !ok {
		return fmt.Errorf("no change at %q", path)
	}
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	loc, err := e.locate(p)
	if err != nil {
		return err
	}
	switch {
	case ch.From == nil: // added, take it out again
		if loc.compound != nil {
			loc.compound.Remove(loc.name)
		} else if loc.index < loc.list.Len() {
			loc.list.Remove(loc.index)
		}
	case ch.To == nil: // removed, put it back
		if loc.compound != nil {
			loc.compound.Put(loc.name, nbt.Copy(ch.From))
		} else {
			loc.list.Insert(min(loc.index, loc.list.Len()), nbt.Copy(ch.From))
		}
	default:
		loc.set(nbt.Copy(ch.From))
	}
	e.drop(path)
	return nil
}

// RevertAll restores the pristine tree, including entry order.
func (e *Editor) RevertAll() {
	e.file.Root = nbt.CopyRoot(e.original)
	e.changes = map[string]*Change{}
	e.order = nil
}
