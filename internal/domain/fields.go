package domain

import (
	"errors"
	"strings"
)

// ErrNoSingleSelect indicates a project has no SINGLE_SELECT fields.
var ErrNoSingleSelect = errors.New("no SINGLE_SELECT fields found in project")

// SelectStatusField picks the field that most likely holds an item's status:
// 1. A SINGLE_SELECT field named "Status" (case-insensitive)
// 2. Else the only SINGLE_SELECT field, if there is exactly one
// 3. Else nil, with every SINGLE_SELECT field returned as candidates
func SelectStatusField(fields []FieldDef) (selected *FieldDef, candidates []FieldDef, err error) {
	var singleSelect []FieldDef
	for _, field := range fields {
		if field.Type == FieldTypeSingleSelect {
			singleSelect = append(singleSelect, field)
		}
	}

	if len(singleSelect) == 0 {
		return nil, nil, ErrNoSingleSelect
	}

	for i := range singleSelect {
		if strings.EqualFold(singleSelect[i].Name, "Status") {
			return &singleSelect[i], nil, nil
		}
	}

	if len(singleSelect) == 1 {
		return &singleSelect[0], nil, nil
	}

	return nil, singleSelect, nil
}

// OptionByName returns the option of a single-select field with the given
// name (case-insensitive).
func (f FieldDef) OptionByName(name string) (Option, bool) {
	for _, opt := range f.Options {
		if strings.EqualFold(opt.Name, name) {
			return opt, true
		}
	}
	return Option{}, false
}
