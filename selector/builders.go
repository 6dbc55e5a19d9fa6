package selector

import (
	"fmt"
	"strings"
)

// normalizeSpace collapses runs of whitespace to single spaces and trims,
// mirroring XPath's normalize-space() so locator text compares on equal terms.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// fieldKinds restricts input matching to form fields a user can read or fill.
const fieldKinds = "not(@type='submit' or @type='reset' or @type='image' or @type='button' or @type='hidden')"

// Content matches the innermost elements whose normalized text contains the
// given fragment. The innermost restriction keeps a match on "Hello" from
// also returning html, body, and every ancestor in between.
func Content(text string) Selector {
	l := Literal(normalizeSpace(text))
	cond := fmt.Sprintf("contains(normalize-space(string(.)), %s)", l)
	return XPath(fmt.Sprintf(".//*[%s][not(.//*[%s])]", cond, cond))
}

// Link matches anchors with an href whose id, title, visible text, or
// contained image alt equals (or for text, contains) the locator.
func Link(locator string) Selector {
	l := Literal(locator)
	return XPath(fmt.Sprintf(
		".//a[@href][@id=%s or @title=%s or contains(normalize-space(string(.)), %s) or .//img[@alt=%s]]",
		l, l, l, l))
}

// Button matches button elements and button-like inputs by id, value, title,
// visible text, or image alt.
func Button(locator string) Selector {
	l := Literal(locator)
	inputs := fmt.Sprintf(
		".//input[@type='submit' or @type='reset' or @type='image' or @type='button'][@id=%s or @value=%s or @title=%s]",
		l, l, l)
	images := fmt.Sprintf(".//input[@type='image'][@alt=%s]", l)
	buttons := fmt.Sprintf(
		".//button[@id=%s or @value=%s or @title=%s or contains(normalize-space(string(.)), %s)]",
		l, l, l, l)
	return XPath(inputs + " | " + images + " | " + buttons)
}

// Field matches form fields (input, textarea, select) by id, name,
// placeholder, a label's for attribute, or nesting inside a matching label.
func Field(locator string) Selector {
	l := Literal(locator)
	self := fmt.Sprintf("self::input[%s] or self::textarea or self::select", fieldKinds)
	direct := fmt.Sprintf(
		".//*[%s][@id=%s or @name=%s or @placeholder=%s or @id=//label[normalize-space(string(.))=%s]/@for]",
		self, l, l, l, l)
	nested := fmt.Sprintf(".//label[normalize-space(string(.))=%s]//*[%s]", l, self)
	return XPath(direct + " | " + nested)
}

// Select matches select boxes by id, name, label for-reference, or label
// nesting.
func Select(locator string) Selector {
	l := Literal(locator)
	direct := fmt.Sprintf(
		".//select[@id=%s or @name=%s or @id=//label[normalize-space(string(.))=%s]/@for]",
		l, l, l)
	nested := fmt.Sprintf(".//label[normalize-space(string(.))=%s]//select", l)
	return XPath(direct + " | " + nested)
}

// Table matches tables by id or caption text.
func Table(locator string) Selector {
	l := Literal(locator)
	return XPath(fmt.Sprintf(
		".//table[@id=%s or .//caption[normalize-space(string(.))=%s]]", l, l))
}
