package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusField() FieldDef {
	return FieldDef{
		ID:   "field_status",
		Name: "Status",
		Type: FieldTypeSingleSelect,
		Options: []Option{
			{ID: "opt_todo", Name: "Todo"},
			{ID: "opt_inprogress", Name: "In Progress"},
			{ID: "opt_done", Name: "Done"},
		},
	}
}

func priorityField() FieldDef {
	return FieldDef{
		ID:   "field_priority",
		Name: "Priority",
		Type: FieldTypeSingleSelect,
		Options: []Option{
			{ID: "opt_high", Name: "High"},
			{ID: "opt_low", Name: "Low"},
		},
	}
}

func TestSelectStatusField_AutoPicksStatus(t *testing.T) {
	fields := []FieldDef{
		{ID: "field_title", Name: "Title", Type: FieldTypeText},
		priorityField(),
		statusField(),
	}

	selected, candidates, err := SelectStatusField(fields)

	require.NoError(t, err)
	require.NotNil(t, selected)
	assert.Equal(t, "field_status", selected.ID)
	assert.Nil(t, candidates)
}

func TestSelectStatusField_CaseInsensitive(t *testing.T) {
	field := statusField()
	field.Name = "STATUS"

	selected, _, err := SelectStatusField([]FieldDef{priorityField(), field})

	require.NoError(t, err)
	require.NotNil(t, selected)
	assert.Equal(t, "field_status", selected.ID)
}

func TestSelectStatusField_SingleCandidate(t *testing.T) {
	fields := []FieldDef{
		{ID: "field_title", Name: "Title", Type: FieldTypeText},
		priorityField(),
	}

	selected, candidates, err := SelectStatusField(fields)

	require.NoError(t, err)
	require.NotNil(t, selected)
	assert.Equal(t, "field_priority", selected.ID)
	assert.Nil(t, candidates)
}

func TestSelectStatusField_MultipleCandidates(t *testing.T) {
	other := priorityField()
	other.ID = "field_size"
	other.Name = "Size"

	selected, candidates, err := SelectStatusField([]FieldDef{priorityField(), other})

	require.NoError(t, err)
	assert.Nil(t, selected)
	assert.Len(t, candidates, 2)
}

func TestSelectStatusField_NoSingleSelect(t *testing.T) {
	fields := []FieldDef{{ID: "field_title", Name: "Title", Type: FieldTypeText}}

	selected, candidates, err := SelectStatusField(fields)

	assert.ErrorIs(t, err, ErrNoSingleSelect)
	assert.Nil(t, selected)
	assert.Nil(t, candidates)
}

func TestFieldDef_OptionByName(t *testing.T) {
	field := statusField()

	opt, ok := field.OptionByName("done")
	require.True(t, ok)
	assert.Equal(t, "opt_done", opt.ID)

	_, ok = field.OptionByName("Blocked")
	assert.False(t, ok)
}
