package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
)

// liveElement adapts a Rod element to the query.Element accessors. State is
// read from the live DOM on every call; properties, not attributes, so a
// checkbox toggled by script reads as checked.
type liveElement struct {
	el *rod.Element
}

func (e *liveElement) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *liveElement) Visible(ctx context.Context) (bool, error) {
	return e.el.Context(ctx).Visible()
}

func (e *liveElement) Value(ctx context.Context) (string, error) {
	res, err := e.el.Context(ctx).Eval(`() => String(this.value ?? "")`)
	if err != nil {
		return "", fmt.Errorf("browser: element value: %w", err)
	}
	return res.Value.Str(), nil
}

func (e *liveElement) Checked(ctx context.Context) (bool, error) {
	res, err := e.el.Context(ctx).Eval(`() => !!this.checked`)
	if err != nil {
		return false, fmt.Errorf("browser: element checked: %w", err)
	}
	return res.Value.Bool(), nil
}

func (e *liveElement) SelectedOptions(ctx context.Context) ([]string, error) {
	return e.stringList(ctx,
		`() => Array.from(this.selectedOptions || []).map(o => o.textContent.trim())`)
}

func (e *liveElement) OptionLabels(ctx context.Context) ([]string, error) {
	return e.stringList(ctx,
		`() => Array.from(this.options || []).map(o => o.textContent.trim())`)
}

func (e *liveElement) Rows(ctx context.Context) ([][]string, error) {
	res, err := e.el.Context(ctx).Eval(
		`() => Array.from(this.rows || []).map(r => Array.from(r.cells).map(c => c.textContent.trim()))`)
	if err != nil {
		return nil, fmt.Errorf("browser: element rows: %w", err)
	}
	var rows [][]string
	for _, r := range res.Value.Arr() {
		var cells []string
		for _, c := range r.Arr() {
			cells = append(cells, c.Str())
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func (e *liveElement) stringList(ctx context.Context, js string) ([]string, error) {
	res, err := e.el.Context(ctx).Eval(js)
	if err != nil {
		return nil, fmt.Errorf("browser: element eval: %w", err)
	}
	var out []string
	for _, v := range res.Value.Arr() {
		out = append(out, v.Str())
	}
	return out, nil
}
