package testcase

import (
	"fmt"

	"github.com/google/uuid"
)

// Item is one element of a step sequence: a typed payload plus the
// editor-level flags that do not belong to the engine dialect.
type Item struct {
	ID       string
	Enabled  *bool // nil means enabled
	Expanded bool
	Step     Step
}

// IsEnabled reports whether the item takes part in projection and
// execution. Absence of the flag means enabled.
func (it *Item) IsEnabled() bool {
	return it.Enabled == nil || *it.Enabled
}

// Clone returns a deep copy of the item with a fresh id.
func (it *Item) Clone() *Item {
	out := &Item{
		ID:       uuid.NewString(),
		Expanded: it.Expanded,
		Step:     it.Step.Clone(),
	}
	if it.Enabled != nil {
		v := *it.Enabled
		out.Enabled = &v
	}
	return out
}

// NewItem creates an item wrapping a blank payload of the given kind,
// named "<type> 步骤" by convention.
func NewItem(t StepType) *Item {
	return &Item{
		ID:   uuid.NewString(),
		Step: newStep(t),
	}
}

func newStep(t StepType) Step {
	name := fmt.Sprintf("%s 步骤", t)
	base := BaseStep{StepType: t, StepName: name}
	switch t {
	case StepRequest:
		return &RequestStep{BaseStep: base, Method: "GET"}
	case StepDatabase:
		return &DatabaseStep{BaseStep: base}
	case StepWait:
		return &WaitStep{BaseStep: base, Seconds: 1}
	case StepLoop:
		return &LoopStep{BaseStep: base, Times: "1"}
	case StepScript:
		return &ScriptStep{BaseStep: base, Language: "javascript"}
	case StepConcurrent:
		return &ConcurrentStep{BaseStep: base}
	case StepCondition:
		return &ConditionStep{BaseStep: base, Operator: AssertEq}
	default:
		return &BaseStep{StepType: t, StepName: name}
	}
}

// Document holds one test case plus the editor selection state and
// exposes the mutation operations the editor performs. All operations
// are synchronous; a document is owned by a single editor session.
type Document struct {
	Case     *TestCase
	selected string
}

// NewDocument creates a document around an empty test case.
func NewDocument(name string) *Document {
	return &Document{Case: &TestCase{Name: name}}
}

// Open wraps an existing test case in a document.
func Open(tc *TestCase) *Document {
	return &Document{Case: tc}
}

// AddStep inserts a new item of the given kind at index in the top-level
// sequence (index < 0 or past the end appends). The new item starts
// expanded and selected.
func (d *Document) AddStep(t StepType, index int) *Item {
	it := NewItem(t)
	it.Expanded = true
	items := d.Case.Items
	if index < 0 || index > len(items) {
		index = len(items)
	}
	items = append(items, nil)
	copy(items[index+1:], items[index:])
	items[index] = it
	d.Case.Items = items
	d.selected = it.ID
	return it
}

// UpdateStep applies fn to the payload of the item with the given id,
// searching nested sequences too. Unknown ids are a silent no-op; the
// return value only tells the caller whether anything was touched.
func (d *Document) UpdateStep(id string, fn func(Step)) bool {
	it := findItem(d.Case.Items, id)
	if it == nil {
		return false
	}
	fn(it.Step)
	return true
}

// DeleteStep removes the item with the given id from whichever sequence
// holds it. Deleting the selected item clears the selection.
func (d *Document) DeleteStep(id string) bool {
	if !removeItem(itemLists(d.Case), id) {
		return false
	}
	if d.selected == id {
		d.selected = ""
	}
	return true
}

// DuplicateStep deep-copies the item with the given id and inserts the
// copy directly after the source. Returns nil for unknown ids.
func (d *Document) DuplicateStep(id string) *Item {
	for _, list := range itemLists(d.Case) {
		for i, it := range *list {
			if it.ID != id {
				continue
			}
			dup := it.Clone()
			items := append(*list, nil)
			copy(items[i+2:], items[i+1:])
			items[i+1] = dup
			*list = items
			return dup
		}
	}
	return nil
}

// ToggleExpand flips the expanded flag of the item with the given id.
func (d *Document) ToggleExpand(id string) bool {
	it := findItem(d.Case.Items, id)
	if it == nil {
		return false
	}
	it.Expanded = !it.Expanded
	return true
}

// ToggleEnabled flips the enabled flag. An absent flag counts as enabled,
// so the first toggle disables the item.
func (d *Document) ToggleEnabled(id string) bool {
	it := findItem(d.Case.Items, id)
	if it == nil {
		return false
	}
	v := !it.IsEnabled()
	it.Enabled = &v
	return true
}

// Reorder moves the top-level item at from to position to, keeping the
// relative order of all other items. Out-of-range indexes are a no-op.
func (d *Document) Reorder(from, to int) bool {
	items := d.Case.Items
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return false
	}
	if from == to {
		return true
	}
	it := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items, nil)
	copy(items[to+1:], items[to:])
	items[to] = it
	d.Case.Items = items
	return true
}

// Select marks the item with the given id as selected.
func (d *Document) Select(id string) {
	if findItem(d.Case.Items, id) != nil {
		d.selected = id
	}
}

// Selected returns the currently selected item, or nil.
func (d *Document) Selected() *Item {
	if d.selected == "" {
		return nil
	}
	return findItem(d.Case.Items, d.selected)
}

// findItem searches a sequence and its nested sequences for an id.
func findItem(items []*Item, id string) *Item {
	for _, it := range items {
		if it.ID == id {
			return it
		}
		for _, child := range childLists(it.Step) {
			if found := findItem(*child, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// itemLists returns every item sequence of the case, root first, so
// structural mutations can address nested steps uniformly.
func itemLists(tc *TestCase) []*[]*Item {
	lists := []*[]*Item{&tc.Items}
	var walk func(items []*Item)
	walk = func(items []*Item) {
		for _, it := range items {
			for _, child := range childLists(it.Step) {
				lists = append(lists, child)
				walk(*child)
			}
		}
	}
	walk(tc.Items)
	return lists
}

func childLists(s Step) []*[]*Item {
	switch v := s.(type) {
	case *LoopStep:
		return []*[]*Item{&v.Steps}
	case *ConcurrentStep:
		return []*[]*Item{&v.Steps}
	case *ConditionStep:
		return []*[]*Item{&v.Then, &v.Else}
	}
	return nil
}

func removeItem(lists []*[]*Item, id string) bool {
	for _, list := range lists {
		for i, it := range *list {
			if it.ID == id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return true
			}
		}
	}
	return false
}
