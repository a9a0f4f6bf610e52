// Package content provides CMS content services: Liquid rendering of
// page and post bodies against site settings, and blog import from an
// existing RSS feed.
package content

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/optiflow/site-backend/internal/pkg/logger"
	"github.com/osteele/liquid"
)

// Renderer renders Liquid tags in CMS bodies. Editors reference site
// settings like {{ site_name }} or {{ contact_phone }} so contact details
// live in one place. Parsed templates are cached by content hash.
type Renderer struct {
	engine *liquid.Engine
	cache  sync.Map // md5(body) -> *liquid.Template
}

// NewRenderer creates a renderer with the site's custom filters.
func NewRenderer() *Renderer {
	engine := liquid.NewEngine()

	// Fallback value: {{ contact_phone | default: "contact us" }}
	engine.RegisterFilter("default", func(value interface{}, defaultVal string) interface{} {
		if value == nil {
			return defaultVal
		}
		if s := fmt.Sprintf("%v", value); s == "" || s == "<nil>" {
			return defaultVal
		}
		return value
	})

	// Current year for copyright lines: {{ "now" | year }}
	engine.RegisterFilter("year", func(_ string) string {
		return time.Now().Format("2006")
	})

	return &Renderer{engine: engine}
}

// Render expands Liquid tags in body using the settings as bindings.
// A template error never breaks content delivery: the raw body is
// returned and the error logged.
func (r *Renderer) Render(body string, settings map[string]string) string {
	if !strings.Contains(body, "{{") && !strings.Contains(body, "{%") {
		return body
	}

	tpl, err := r.parse(body)
	if err != nil {
		logger.Warn("content template parse failed", "error", err)
		return body
	}

	bindings := make(map[string]interface{}, len(settings))
	for k, v := range settings {
		bindings[k] = v
	}

	out, err := tpl.RenderString(bindings)
	if err != nil {
		logger.Warn("content template render failed", "error", err)
		return body
	}
	return out
}

func (r *Renderer) parse(body string) (*liquid.Template, error) {
	sum := md5.Sum([]byte(body))
	key := hex.EncodeToString(sum[:])

	if cached, ok := r.cache.Load(key); ok {
		return cached.(*liquid.Template), nil
	}

	tpl, err := r.engine.ParseString(body)
	if err != nil {
		return nil, err
	}
	r.cache.Store(key, tpl)
	return tpl, nil
}
