package staticdom_test

import (
	"context"
	"strings"
	"testing"

	"github.com/hazyhaar/domassert/matcher"
	"github.com/hazyhaar/domassert/poll"
	"github.com/hazyhaar/domassert/query"
	"github.com/hazyhaar/domassert/selector"
	"github.com/hazyhaar/domassert/staticdom"
)

const fixture = `<html><body>
<nav><a href="/home">Home</a></nav>
<main>
  <h1 class="title">Dashboard</h1>
  <p>Welcome back, Alice</p>
  <a href="/logout" id="logout">Sign out</a>
  <button id="refresh">Refresh</button>
  <form>
    <label for="email">Email</label>
    <input type="text" id="email" name="email" value="alice@example.com">
    <label><input type="checkbox" name="tos" checked> Terms</label>
    <label for="country">Country</label>
    <select id="country" name="country">
      <option>France</option>
      <option selected>Germany</option>
      <option>Italy</option>
    </select>
  </form>
  <table id="orders">
    <caption>Orders</caption>
    <tr><th>Item</th><th>Qty</th></tr>
    <tr><td>Apples</td><td>3</td></tr>
  </table>
  <div style="display: none">Secret</div>
</main>
</body></html>`

// scope wraps a static document in a zero-budget matcher: the tree is inert,
// so every assertion is decided by a single probe.
func scope(t *testing.T, doc *staticdom.Document) *matcher.Scope {
	t.Helper()
	return matcher.New(doc, matcher.WithWait(poll.Waiter{}))
}

func parse(t *testing.T) *staticdom.Document {
	t.Helper()
	doc, err := staticdom.ParseString(fixture)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func assert(t *testing.T, got bool, err error, want bool, name string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	if got != want {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestCSSAndContent(t *testing.T) {
	ctx := context.Background()
	s := scope(t, parse(t))

	got, err := s.HasCSS(ctx, "h1.title", query.Options{})
	assert(t, got, err, true, "HasCSS h1.title")

	got, err = s.HasCSS(ctx, "h1.title", query.Options{Text: "Dashboard"})
	assert(t, got, err, true, "HasCSS with text")

	got, err = s.HasNoCSS(ctx, ".missing", query.Options{})
	assert(t, got, err, true, "HasNoCSS .missing")

	got, err = s.HasContent(ctx, "Welcome back, Alice", query.Options{})
	assert(t, got, err, true, "HasContent")

	got, err = s.HasNoContent(ctx, "Goodbye", query.Options{})
	assert(t, got, err, true, "HasNoContent")
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	s := scope(t, parse(t))
	two := 2

	got, err := s.HasCSS(ctx, "a", query.Options{Count: &two})
	assert(t, got, err, true, "two anchors")

	got, err = s.HasNoCSS(ctx, "a", query.Options{Count: &two})
	assert(t, got, err, false, "HasNo with exact count present")
}

func TestLinksAndButtons(t *testing.T) {
	ctx := context.Background()
	s := scope(t, parse(t))

	got, err := s.HasLink(ctx, "Sign out", query.Options{})
	assert(t, got, err, true, "link by text")

	got, err = s.HasLink(ctx, "logout", query.Options{})
	assert(t, got, err, true, "link by id")

	got, err = s.HasNoLink(ctx, "Register", query.Options{})
	assert(t, got, err, true, "absent link")

	got, err = s.HasButton(ctx, "Refresh", query.Options{})
	assert(t, got, err, true, "button by text")

	got, err = s.HasNoButton(ctx, "Delete", query.Options{})
	assert(t, got, err, true, "absent button")
}

func TestFields(t *testing.T) {
	ctx := context.Background()
	s := scope(t, parse(t))

	got, err := s.HasField(ctx, "Email", query.Options{})
	assert(t, got, err, true, "field by label")

	v := "alice@example.com"
	got, err = s.HasField(ctx, "email", query.Options{With: &v})
	assert(t, got, err, true, "field with value")

	wrong := "bob@example.com"
	got, err = s.HasField(ctx, "email", query.Options{With: &wrong})
	assert(t, got, err, false, "field with wrong value")

	got, err = s.HasCheckedField(ctx, "tos", query.Options{})
	assert(t, got, err, true, "checked checkbox")

	got, err = s.HasUncheckedField(ctx, "tos", query.Options{})
	assert(t, got, err, false, "checkbox is not unchecked")
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	s := scope(t, parse(t))

	got, err := s.HasSelect(ctx, "Country", query.Options{})
	assert(t, got, err, true, "select by label")

	got, err = s.HasSelect(ctx, "country", query.Options{Selected: []string{"Germany"}})
	assert(t, got, err, true, "selected option")

	got, err = s.HasSelect(ctx, "country", query.Options{Selected: []string{"France"}})
	assert(t, got, err, false, "unselected option")

	got, err = s.HasSelect(ctx, "country", query.Options{OptionLabels: []string{"France", "Germany", "Italy"}})
	assert(t, got, err, true, "offered options")
}

func TestTable(t *testing.T) {
	ctx := context.Background()
	s := scope(t, parse(t))

	got, err := s.HasTable(ctx, "Orders", query.Options{})
	assert(t, got, err, true, "table by caption")

	got, err = s.HasTable(ctx, "orders", query.Options{Rows: [][]string{{"Apples", "3"}}})
	assert(t, got, err, true, "table row")

	got, err = s.HasTable(ctx, "orders", query.Options{Rows: [][]string{{"Apples", "5"}}})
	assert(t, got, err, false, "wrong cell")
}

func TestVisibility(t *testing.T) {
	ctx := context.Background()
	s := scope(t, parse(t))
	hidden := false
	shown := true

	got, err := s.HasContent(ctx, "Secret", query.Options{Visible: &hidden})
	assert(t, got, err, true, "hidden content found when asked for hidden")

	got, err = s.HasContent(ctx, "Secret", query.Options{Visible: &shown})
	assert(t, got, err, false, "hidden content not visible")
}

func TestWithin(t *testing.T) {
	ctx := context.Background()
	doc := parse(t)

	nav, err := doc.Within("//nav")
	if err != nil {
		t.Fatal(err)
	}
	s := scope(t, nav)

	got, err := s.HasLink(ctx, "Home", query.Options{})
	assert(t, got, err, true, "link inside nav")

	got, err = s.HasNoLink(ctx, "Sign out", query.Options{})
	assert(t, got, err, true, "outside link not in scope")

	if _, err := doc.Within("//aside"); err == nil {
		t.Fatal("Within with no match should error")
	}
}

func TestQueryErrors(t *testing.T) {
	ctx := context.Background()
	doc := parse(t)

	if _, err := doc.Query(ctx, selector.XPath("//["), query.Options{}); err == nil {
		t.Fatal("invalid xpath should error")
	}
}

func TestHTML(t *testing.T) {
	doc := parse(t)
	out, err := doc.HTML(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "<h1 class=\"title\">Dashboard</h1>") {
		t.Fatalf("render missing heading: %q", out)
	}
}
