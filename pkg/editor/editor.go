// Package editor provides a change-tracking editing session over a
// decoded level.dat tree. Nodes are addressed by dot paths, edits never
// change a node's kind, and unknown names come back with similarly
// spelled candidates.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/AdamJauhari/Bedrock-Editor/pkg/internal/suggest"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/leveldat"
	"github.com/AdamJauhari/Bedrock-Editor/pkg/nbt"
)

// ErrRecovered is returned by Save for trees the fallback scanner
// rebuilt. Call MarkTrusted to save one anyway.
var ErrRecovered = errors.New("refusing to save a heuristically recovered tree")

// NotFoundError reports a name that does not exist in its enclosing
// compound, along with similarly spelled entries.
type NotFoundError struct {
	Path        string
	Name        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no field %q in %q", e.Name, e.Path)
	}
	return fmt.Sprintf("no field %q in %q, did you mean %s?",
		e.Name, e.Path, strings.Join(e.Suggestions, ", "))
}

// KindMismatchError reports an edit that would change a node's kind.
type KindMismatchError struct {
	Path string
	Want nbt.Kind
	Got  nbt.Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("cannot change %q from %s to %s", e.Path, e.Want, e.Got)
}

// Editor is an editing session over a single decoded file. It keeps the
// pristine tree around so changes can be listed and reverted. Not safe
// for concurrent use.
type Editor struct {
	// Log receives one event per applied edit at verbosity 1.
	Log logr.Logger

	file     *leveldat.File
	original nbt.Root

	order   []string
	changes map[string]*Change
}

// New starts an editing session over f.
func New(f *leveldat.File) (*Editor, error) {
	if f == nil || f.Root.Compound == nil {
		return nil, errors.New("leveldat file has no tag tree")
	}
	return &Editor{
		file:     f,
		original: nbt.CopyRoot(f.Root),
		changes:  map[string]*Change{},
	}, nil
}

// File returns the underlying file with the current tree.
func (e *Editor) File() *leveldat.File { return e.file }

// Root returns the current tree.
func (e *Editor) Root() nbt.Root { return e.file.Root }

// Recovered reports whether the tree came from the fallback scanner.
func (e *Editor) Recovered() bool { return e.file.Recovered }

// MarkTrusted clears the recovered flag so the tree can be saved.
// The caller owns the risk of persisting an approximated tree.
func (e *Editor) MarkTrusted() { e.file.Recovered = false }

// Get returns the node at path.
func (e *Editor) Get(path string) (nbt.Tag, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	loc, err := e.locate(p)
	if err != nil {
		return nil, err
	}
	return e.fetch(loc, path)
}

// Set replaces the node at path with t. The new value must have the
// node's kind, and for lists the element kind as well.
func (e *Editor) Set(path string, t nbt.Tag) error {
	if t == nil {
		return errors.New("value is nil")
	}
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	loc, err := e.locate(p)
	if err != nil {
		return err
	}
	old, err := e.fetch(loc, path)
	if err != nil {
		return err
	}
	if old.Kind() != t.Kind() {
		return &KindMismatchError{Path: path, Want: old.Kind(), Got: t.Kind()}
	}
	if oldList, ok := old.(*nbt.List); ok {
		newList := t.(*nbt.List)
		oldElem, newElem := oldList.ElementKind(), newList.ElementKind()
		if oldElem != newElem && oldElem != nbt.TagEnd && newElem != nbt.TagEnd {
			return fmt.Errorf("cannot change %q list elements from %s to %s",
				path, oldElem, newElem)
		}
	}
	loc.set(t)
	e.record(path, old, t)
	e.Log.V(1).Info("field updated", "path", path,
		"from", nbt.SNBT(old), "to", nbt.SNBT(t))
	return nil
}

// SetString parses input as a stringified value of the node's kind and
// stores it at path. String nodes take the input verbatim.
func (e *Editor) SetString(path, input string) error {
	old, err := e.Get(path)
	if err != nil {
		return err
	}
	t, err := ParseForKind(old.Kind(), input)
	if err != nil {
		return fmt.Errorf("value for %q: %w", path, err)
	}
	return e.Set(path, t)
}

// Add creates the node at path. A compound entry must not exist yet, a
// list index must be at most the list length and appends when equal.
func (e *Editor) Add(path string, t nbt.Tag) error {
	if t == nil {
		return errors.New("value is nil")
	}
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	loc, err := e.locate(p)
	if err != nil {
		return err
	}
	if loc.compound != nil {
		if loc.compound.Has(loc.name) {
			return fmt.Errorf("field %q already exists", path)
		}
		loc.compound.Put(loc.name, t)
	} else {
		l := loc.list
		if loc.index > l.Len() {
			return fmt.Errorf("index %d out of range in %q, list has %d elements",
				loc.index, path, l.Len())
		}
		if l.Len() > 0 && l.ElementKind() != t.Kind() {
			return &KindMismatchError{Path: path, Want: l.ElementKind(), Got: t.Kind()}
		}
		l.Insert(loc.index, t)
	}
	e.record(path, nil, t)
	e.Log.V(1).Info("field added", "path", path, "value", nbt.SNBT(t))
	return nil
}

// Remove deletes the node at path.
func (e *Editor) Remove(path string) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	loc, err := e.locate(p)
	if err != nil {
		return err
	}
	old, err := e.fetch(loc, path)
	if err != nil {
		return err
	}
	if loc.compound != nil {
		loc.compound.Remove(loc.name)
	} else {
		loc.list.Remove(loc.index)
	}
	e.record(path, old, nil)
	e.Log.V(1).Info("field removed", "path", path, "was", nbt.SNBT(old))
	return nil
}

// Save encodes the current tree and writes it to path, then makes the
// current tree the new pristine state. Recovered trees are refused until
// MarkTrusted is called.
func (e *Editor) Save(path string, backup bool) error {
	if e.file.Recovered {
		return ErrRecovered
	}
	n := len(e.changes)
	if err := leveldat.WriteFile(e.file, path, backup); err != nil {
		return err
	}
	e.original = nbt.CopyRoot(e.file.Root)
	e.changes = map[string]*Change{}
	e.order = nil
	e.Log.Info("file saved", "path", path, "changes", n)
	return nil
}

// location addresses a single writable slot, either a named entry of a
// compound or an element of a list.
type location struct {
	compound *nbt.Compound
	list     *nbt.List
	name     string
	index    int
}

func (loc location) get() (nbt.Tag, bool) {
	if loc.compound != nil {
		return loc.compound.Get(loc.name)
	}
	if loc.index < 0 || loc.index >= loc.list.Len() {
		return nil, false
	}
	return loc.list.At(loc.index), true
}

func (loc location) set(t nbt.Tag) {
	if loc.compound != nil {
		loc.compound.Put(loc.name, t)
		return
	}
	loc.list.SetAt(loc.index, t)
}

// locate walks the tree to the slot the final step addresses. The slot
// itself may be vacant, Add relies on that.
func (e *Editor) locate(p Path) (location, error) {
	if len(p) == 0 {
		return location{}, errors.New("empty path")
	}
	cur := nbt.Tag(e.file.Root.Compound)
	walked := ""
	for si, step := range p {
		c, ok := cur.(*nbt.Compound)
		if !ok {
			return location{}, fmt.Errorf("%q is not a compound", walked)
		}
		last := si == len(p)-1
		if last && len(step.Indices) == 0 {
			return location{compound: c, name: step.Name}, nil
		}
		t, ok := c.Get(step.Name)
		if !ok {
			return location{}, e.notFound(p.String(), step.Name, c)
		}
		walked = joinPath(walked, step.Name)
		for ii, idx := range step.Indices {
			l, ok := t.(*nbt.List)
			if !ok {
				return location{}, fmt.Errorf("%q is not a list", walked)
			}
			if last && ii == len(step.Indices)-1 {
				return location{list: l, index: idx}, nil
			}
			if idx >= l.Len() {
				return location{}, fmt.Errorf("index %d out of range in %q, list has %d elements",
					idx, walked, l.Len())
			}
			t = l.At(idx)
			walked += fmt.Sprintf("[%d]", idx)
		}
		cur = t
	}
	return location{}, errors.New("empty path")
}

// fetch reads the slot and turns vacancy into the right error.
func (e *Editor) fetch(loc location, path string) (nbt.Tag, error) {
	t, ok := loc.get()
	if ok {
		return t, nil
	}
	if loc.compound != nil {
		return nil, e.notFound(path, loc.name, loc.compound)
	}
	return nil, fmt.Errorf("index %d out of range in %q, list has %d elements",
		loc.index, path, loc.list.Len())
}

func (e *Editor) notFound(path, name string, c *nbt.Compound) error {
	return &NotFoundError{
		Path:        path,
		Name:        name,
		Suggestions: suggest.Names(name, c.Keys()),
	}
}

func joinPath(walked, name string) string {
	if walked == "" {
		return name
	}
	return walked + "." + name
}
