package suite

import (
	"context"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// snippetLimit bounds how much page context a failure detail carries.
const snippetLimit = 2000

// failureSnippet captures the target's current HTML as markdown so a failed
// check's record shows what the page actually contained. Capture failures
// degrade to an empty detail rather than masking the check result.
func failureSnippet(ctx context.Context, t Target) string {
	h, err := t.HTML(ctx)
	if err != nil {
		return ""
	}
	md, err := htmltomarkdown.ConvertString(h)
	if err != nil {
		return ""
	}
	if len(md) > snippetLimit {
		md = md[:snippetLimit] + "\n…(truncated)"
	}
	return md
}
