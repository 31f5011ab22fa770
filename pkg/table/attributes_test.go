package table

import (
	"reflect"
	"testing"

	"github.com/jorgebotas/gocyto/pkg/errors"
)

func TestParseAttributes(t *testing.T) {
	data := "gene\tcount\tratio\tlabel\tempty\n" +
		"A\t3\t0.5\tx\tNA\n" +
		"B\t\t1\ty\t\n" +
		"C\tNaN\t2.25\t7\tnull\n"

	tab, err := ParseAttributes([]byte(data), "gene")
	if err != nil {
		t.Fatalf("ParseAttributes: %v", err)
	}
	if !reflect.DeepEqual(tab.Keys, []string{"A", "B", "C"}) {
		t.Errorf("Keys = %v", tab.Keys)
	}
	if !reflect.DeepEqual(tab.ColumnNames(), []string{"count", "ratio", "label", "empty"}) {
		t.Errorf("ColumnNames = %v", tab.ColumnNames())
	}

	types := map[string]ColumnType{"count": Integer, "ratio": Double, "label": String, "empty": String}
	for name, want := range types {
		c, ok := tab.Column(name)
		if !ok {
			t.Fatalf("missing column %q", name)
		}
		if c.Type != want {
			t.Errorf("column %q type = %s, want %s", name, c.Type, want)
		}
	}

	count, _ := tab.Column("count")
	if !reflect.DeepEqual(count.Values, []string{"3", "", ""}) {
		t.Errorf("count values = %q, missing markers should be empty", count.Values)
	}
	if v, ok := tab.Lookup(count, "A"); !ok || v != "3" {
		t.Errorf("Lookup(A) = %q, %v", v, ok)
	}
	if _, ok := tab.Lookup(count, "Z"); ok {
		t.Error("Lookup of unknown key should fail")
	}
}

func TestParseAttributesSkipsEmptyKeys(t *testing.T) {
	data := "gene\tv\nA\t1\n\t2\nNA\t3\n"
	tab, err := ParseAttributes([]byte(data), "gene")
	if err != nil {
		t.Fatal(err)
	}
	if tab.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tab.Len())
	}
	v, _ := tab.Column("v")
	if got, ok := tab.Lookup(v, "NA"); !ok || got != "3" {
		t.Errorf("Lookup(NA) = %q, %v; identifiers are not missing markers", got, ok)
	}
}

func TestParseAttributesErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		key  string
		code errors.Code
	}{
		{"missing key column", "name\tv\nA\t1\n", "gene", errors.ErrCodeInvalidColumn},
		{"duplicate key", "gene\tv\nA\t1\nB\t2\nA\t3\n", "gene", errors.ErrCodeInvalidInput},
		{"duplicate column", "gene\tv\tv\nA\t1\t2\n", "gene", errors.ErrCodeInvalidColumn},
		{"empty key name", "gene\tv\n", "", errors.ErrCodeInvalidColumn},
		{"empty file", "", "gene", errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAttributes([]byte(tt.data), tt.key)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestInferType(t *testing.T) {
	tests := []struct {
		values []string
		want   ColumnType
	}{
		{[]string{"1", "2", "-3"}, Integer},
		{[]string{"1", "", "2"}, Integer},
		{[]string{"1", "2.5"}, Double},
		{[]string{"1e3", "0.1"}, Double},
		{[]string{"1", "a"}, String},
		{[]string{"2.5", "x"}, String},
		{[]string{"", ""}, String},
		{nil, String},
	}
	for _, tt := range tests {
		if got := inferType(tt.values); got != tt.want {
			t.Errorf("inferType(%q) = %s, want %s", tt.values, got, tt.want)
		}
	}
}

func TestColumnTyped(t *testing.T) {
	ints := &Column{Type: Integer, Values: []string{"4", ""}}
	if v := ints.Typed(0); v != int64(4) {
		t.Errorf("Typed(0) = %#v, want int64(4)", v)
	}
	if v := ints.Typed(1); v != nil {
		t.Errorf("Typed(1) = %#v, want nil", v)
	}
	dbl := &Column{Type: Double, Values: []string{"0.5"}}
	if v := dbl.Typed(0); v != 0.5 {
		t.Errorf("Typed(0) = %#v, want 0.5", v)
	}
	str := &Column{Type: String, Values: []string{"7"}}
	if v := str.Typed(0); v != "7" {
		t.Errorf("Typed(0) = %#v, want \"7\"", v)
	}
}

func TestColumnDistinct(t *testing.T) {
	c := &Column{Values: []string{"2", "1", "", "2", "3", "1"}}
	if got := c.Distinct(); !reflect.DeepEqual(got, []string{"2", "1", "3"}) {
		t.Errorf("Distinct() = %v", got)
	}
}
