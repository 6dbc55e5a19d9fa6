package browser

import (
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// blockNames maps CDP resource types to the plural kind names accepted in
// Config.ResourceBlocking.
var blockNames = map[string]string{
	"image":      "images",
	"font":       "fonts",
	"media":      "media",
	"stylesheet": "stylesheets",
}

// blockPolicy is the set of resource kinds to refuse, keyed by config name.
type blockPolicy map[string]bool

func newBlockPolicy(kinds []string) blockPolicy {
	p := make(blockPolicy, len(kinds))
	for _, k := range kinds {
		p[strings.ToLower(k)] = true
	}
	return p
}

func (p blockPolicy) blocks(resType string) bool {
	rt := strings.ToLower(resType)
	if name, ok := blockNames[rt]; ok {
		return p[name]
	}
	return p[rt]
}

// applyResourceBlocking intercepts requests on a page and fails those the
// policy refuses. Structural queries never need pixels or glyphs, so the
// blocked resources change nothing the assertions can observe.
func applyResourceBlocking(page *rod.Page, kinds []string, logger *slog.Logger) error {
	policy := newBlockPolicy(kinds)
	var blocked atomic.Int64

	router := page.HijackRequests()
	router.MustAdd("*", func(ctx *rod.Hijack) {
		resType := string(ctx.Request.Type())
		if policy.blocks(resType) {
			logger.Debug("browser: blocked resource",
				"type", resType, "url", ctx.Request.URL().String(), "total", blocked.Add(1))
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})
	go router.Run()

	return nil
}
