package ability

import (
	"testing"

	apperrors "github.com/roguedex/gamedata/internal/platform/errors"
)

func TestNewTable(t *testing.T) {
	table, err := NewTable([]Ability{
		{ID: 66, Name: "Blaze", Generation: 3},
		{ID: 9, Name: "Static", Generation: 3},
	})
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("len = %d, want 2", table.Len())
	}
	got, ok := table.Get(66)
	if !ok || got.Name != "Blaze" {
		t.Fatalf("get 66 = %+v, %v", got, ok)
	}
	if table.Has(10) {
		t.Fatal("expected ability 10 to be absent")
	}
	if table.Has(500) {
		t.Fatal("expected out-of-range ability to be absent")
	}
	ids := table.IDs()
	if len(ids) != 2 || ids[0] != 9 || ids[1] != 66 {
		t.Fatalf("ids = %v", ids)
	}
}

func TestNewTableRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []Ability
		code    apperrors.Code
	}{
		{
			name:    "duplicate",
			records: []Ability{{ID: 1, Name: "Stench", Generation: 3}, {ID: 1, Name: "Drizzle", Generation: 3}},
			code:    apperrors.CodeDuplicateID,
		},
		{
			name:    "zero id",
			records: []Ability{{ID: 0, Name: "Nothing", Generation: 3}},
			code:    apperrors.CodeInvalidRecord,
		},
		{
			name:    "missing name",
			records: []Ability{{ID: 2, Generation: 3}},
			code:    apperrors.CodeInvalidRecord,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTable(tc.records)
			if !apperrors.HasCode(err, tc.code) {
				t.Fatalf("err = %v, want code %s", err, tc.code)
			}
		})
	}
}

func TestNilTable(t *testing.T) {
	var table *Table
	if table.Len() != 0 || table.Has(1) || table.IDs() != nil {
		t.Fatal("expected nil table to be empty")
	}
}
