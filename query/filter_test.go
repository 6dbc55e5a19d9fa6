package query

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

// fakeElement is a fully scripted element for filter tests.
type fakeElement struct {
	text     string
	visible  bool
	value    string
	checked  bool
	selected []string
	options  []string
	rows     [][]string
	err      error
}

func (f *fakeElement) Text(context.Context) (string, error)    { return f.text, f.err }
func (f *fakeElement) Visible(context.Context) (bool, error)   { return f.visible, f.err }
func (f *fakeElement) Value(context.Context) (string, error)   { return f.value, f.err }
func (f *fakeElement) Checked(context.Context) (bool, error)   { return f.checked, f.err }
func (f *fakeElement) SelectedOptions(context.Context) ([]string, error) {
	return f.selected, f.err
}
func (f *fakeElement) OptionLabels(context.Context) ([]string, error) { return f.options, f.err }
func (f *fakeElement) Rows(context.Context) ([][]string, error)       { return f.rows, f.err }

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestFilter_NoFilters(t *testing.T) {
	elems := []Element{&fakeElement{}, &fakeElement{}}
	got, err := Filter(context.Background(), elems, Options{Count: intPtr(2)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (Count is not a filter)", len(got))
	}
}

func intPtr(n int) *int { return &n }

func TestFilter_Text(t *testing.T) {
	elems := []Element{
		&fakeElement{text: "Hello   world"},
		&fakeElement{text: "Goodbye"},
	}
	got, err := Filter(context.Background(), elems, Options{Text: "Hello world"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 (whitespace-normalized containment)", len(got))
	}
}

func TestFilter_TextPattern(t *testing.T) {
	elems := []Element{
		&fakeElement{text: "Order #123"},
		&fakeElement{text: "Order pending"},
	}
	got, err := Filter(context.Background(), elems, Options{TextPattern: regexp.MustCompile(`#\d+`)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
}

func TestFilter_Visible(t *testing.T) {
	elems := []Element{
		&fakeElement{visible: true},
		&fakeElement{visible: false},
	}
	got, err := Filter(context.Background(), elems, Options{Visible: boolPtr(false)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 hidden element", len(got))
	}
}

func TestFilter_WithValue(t *testing.T) {
	elems := []Element{
		&fakeElement{value: "alice@example.com"},
		&fakeElement{value: ""},
	}
	// Empty string is a meaningful value filter, distinct from unset.
	got, err := Filter(context.Background(), elems, Options{With: strPtr("")})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 empty-valued element", len(got))
	}
}

func TestFilter_Checked(t *testing.T) {
	elems := []Element{
		&fakeElement{checked: true},
		&fakeElement{checked: false},
	}
	got, err := Filter(context.Background(), elems, Options{Checked: boolPtr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
}

func TestFilter_SelectedAndOptions(t *testing.T) {
	sel := &fakeElement{
		selected: []string{"France"},
		options:  []string{"France", "Germany", "Italy"},
	}
	elems := []Element{sel}

	got, err := Filter(context.Background(), elems, Options{Selected: []string{"France"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatal("selected France should match")
	}

	got, err = Filter(context.Background(), elems, Options{Selected: []string{"Germany"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatal("selected Germany should not match")
	}

	got, err = Filter(context.Background(), elems, Options{OptionLabels: []string{"Italy", "France"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatal("option labels should match regardless of order")
	}

	got, err = Filter(context.Background(), elems, Options{OptionLabels: []string{"Spain"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatal("missing option should not match")
	}
}

func TestFilter_Rows(t *testing.T) {
	table := &fakeElement{rows: [][]string{
		{"Name", "Qty"},
		{"Apples", "3"},
		{"Pears ", " 5"},
	}}
	elems := []Element{table}

	got, err := Filter(context.Background(), elems, Options{Rows: [][]string{{"Pears", "5"}}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatal("row should match after cell normalization")
	}

	got, err = Filter(context.Background(), elems, Options{Rows: [][]string{{"Apples"}}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatal("partial row must not match")
	}
}

func TestFilter_AccessorError(t *testing.T) {
	sentinel := errors.New("boom")
	elems := []Element{&fakeElement{err: sentinel}}
	_, err := Filter(context.Background(), elems, Options{Text: "x"})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}
}

func TestNormalizeSpace(t *testing.T) {
	if got := NormalizeSpace("  a \t b\nc  "); got != "a b c" {
		t.Fatalf("NormalizeSpace = %q", got)
	}
}
