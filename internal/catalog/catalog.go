// Package catalog tracks which models each provider offers.
package catalog

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/KpathaK21/CodeWizard/internal/models"
)

// Fallback returns the built-in catalog used until the backend answers.
func Fallback() map[string][]string {
	return map[string][]string{
		models.ProviderOpenAI:    {"gpt-3.5-turbo", "gpt-4o", "gpt-4-turbo"},
		models.ProviderAnthropic: {"claude-3-opus", "claude-3-sonnet", "claude-3-haiku"},
	}
}

// Lister fetches the provider -> models mapping from the backend.
type Lister interface {
	Models(ctx context.Context) (map[string][]string, error)
}

type Catalog struct {
	models map[string][]string
}

func New() *Catalog {
	return &Catalog{models: Fallback()}
}

// Load performs a single fetch. Providers present in the response replace
// their current list; the others keep what they had. On error the catalog
// is left untouched.
func (c *Catalog) Load(ctx context.Context, lister Lister) (map[string][]string, error) {
	fetched, err := lister.Models(ctx)
	if err != nil {
		return c.Snapshot(), fmt.Errorf("load model catalog: %w", err)
	}
	c.Merge(fetched)
	return c.Snapshot(), nil
}

// Merge replaces the lists of the providers in fetched and keeps the rest.
// It lets a caller fetch off its own goroutine and apply the result later.
func (c *Catalog) Merge(fetched map[string][]string) {
	merged := c.Snapshot()
	for provider, list := range fetched {
		merged[provider] = slices.Clone(list)
	}
	c.models = merged
}

// DefaultModel returns the first model of provider, or "" if there is none.
func (c *Catalog) DefaultModel(provider string) string {
	list := c.models[provider]
	if len(list) == 0 {
		return ""
	}
	return list[0]
}

func (c *Catalog) Models(provider string) []string {
	return slices.Clone(c.models[provider])
}

func (c *Catalog) Contains(provider, model string) bool {
	return slices.Contains(c.models[provider], model)
}

// Providers lists known providers: openai and anthropic first, then any
// others the backend reported, alphabetically.
func (c *Catalog) Providers() []string {
	var out []string
	for _, p := range []string{models.ProviderOpenAI, models.ProviderAnthropic} {
		if _, ok := c.models[p]; ok {
			out = append(out, p)
		}
	}
	var extra []string
	for p := range c.models {
		if p != models.ProviderOpenAI && p != models.ProviderAnthropic {
			extra = append(extra, p)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func (c *Catalog) Snapshot() map[string][]string {
	out := make(map[string][]string, len(c.models))
	for p, list := range c.models {
		out[p] = slices.Clone(list)
	}
	return out
}
