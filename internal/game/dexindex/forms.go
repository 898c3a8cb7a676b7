package dexindex

import (
	"fmt"
	"sort"

	"github.com/roguedex/gamedata/internal/game/species"
)

// Forms maps each species to its form keys ordered by form index.
type Forms struct {
	keys map[species.ID][]string
}

// BuildForms derives the valid forms of every species.
func BuildForms(table *species.Table) (*Forms, error) {
	keys := make(map[species.ID][]string, table.Len())
	for _, id := range table.IDs() {
		record, _ := table.Get(id)
		if len(record.Forms) == 0 {
			keys[id] = nil
			continue
		}

		forms := make([]species.Form, len(record.Forms))
		copy(forms, record.Forms)
		seenKeys := make(map[string]struct{}, len(forms))
		seenIndexes := make(map[int]struct{}, len(forms))
		for _, form := range forms {
			if form.Index < 0 {
				return nil, invalidRecord("species", itoa(id),
					fmt.Sprintf("species %d form %q has a negative index", id, form.Key))
			}
			if _, exists := seenKeys[form.Key]; exists {
				return nil, invalidRecord("species", itoa(id),
					fmt.Sprintf("species %d declares form %q twice", id, form.Key))
			}
			if _, exists := seenIndexes[form.Index]; exists {
				return nil, invalidRecord("species", itoa(id),
					fmt.Sprintf("species %d declares form index %d twice", id, form.Index))
			}
			seenKeys[form.Key] = struct{}{}
			seenIndexes[form.Index] = struct{}{}
		}
		sort.Slice(forms, func(i, j int) bool { return forms[i].Index < forms[j].Index })

		ordered := make([]string, len(forms))
		for i, form := range forms {
			ordered[i] = form.Key
		}
		keys[id] = ordered
	}
	return &Forms{keys: keys}, nil
}

// Of returns the ordered form keys of id, or nil when it has no alternate
// forms.
func (f *Forms) Of(id species.ID) []string {
	if f == nil {
		return nil
	}
	keys := f.keys[id]
	if keys == nil {
		return nil
	}
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Valid reports whether key is a form of id. Species without alternate forms
// accept only the empty key.
func (f *Forms) Valid(id species.ID, key string) bool {
	if f == nil {
		return false
	}
	keys, ok := f.keys[id]
	if !ok {
		return false
	}
	if keys == nil {
		return key == ""
	}
	for _, candidate := range keys {
		if candidate == key {
			return true
		}
	}
	return false
}

// Len returns the number of species with alternate forms.
func (f *Forms) Len() int {
	if f == nil {
		return 0
	}
	count := 0
	for _, keys := range f.keys {
		if keys != nil {
			count++
		}
	}
	return count
}

// Map returns a copy of the index restricted to species with alternate forms.
func (f *Forms) Map() map[species.ID][]string {
	out := make(map[species.ID][]string)
	if f == nil {
		return out
	}
	for id, keys := range f.keys {
		if keys != nil {
			out[id] = f.Of(id)
		}
	}
	return out
}
