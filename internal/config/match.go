package config

import (
	"strings"

	"github.com/lorekeeper/lorekeeper/internal/providers"
)

// MatchResult is the resolved LLM provider config and registry name for a model.
type MatchResult struct {
	Provider *ProviderConfig
	Name     string // e.g. "openrouter", "ollama"
}

// usable reports whether spec can serve requests with the credentials in p.
func usable(spec providers.ProviderSpec, p *ProviderConfig) bool {
	return spec.KeyOptional || p.APIKey != ""
}

// MatchProvider resolves which provider config and registry entry to use for model.
// If model is empty, agent.model is used.
//
// Priority order:
//  0. agent.provider, when set, names the registry entry outright
//  1. Explicit provider prefix in model string (e.g. "deepseek/deepseek-chat" → deepseek)
//  2. Keyword match in model name (registry order)
//  3. Fallback: first provider with an API key configured
func (c *Config) MatchProvider(model string) MatchResult {
	if model == "" {
		model = c.Agent.Model
	}
	if forced := strings.ReplaceAll(strings.ToLower(c.Agent.Provider), "-", "_"); forced != "" {
		if p := c.ProviderByName(forced); p != nil {
			return MatchResult{Provider: p, Name: forced}
		}
	}

	modelLower := strings.ToLower(model)
	modelNorm := strings.ReplaceAll(modelLower, "-", "_")
	modelPrefix, _, hasPrefix := strings.Cut(modelLower, "/")
	normalizedPrefix := strings.ReplaceAll(modelPrefix, "-", "_")

	kwMatches := func(kw string) bool {
		kw = strings.ToLower(kw)
		kwNorm := strings.ReplaceAll(kw, "-", "_")
		return strings.Contains(modelLower, kw) || strings.Contains(modelNorm, kwNorm)
	}

	// 1. Explicit provider prefix wins.
	if hasPrefix {
		for _, spec := range providers.PROVIDERS {
			p := c.ProviderByName(spec.Name)
			if p == nil || normalizedPrefix != spec.Name {
				continue
			}
			if usable(spec, p) || c.Agent.APIKey != "" {
				return MatchResult{Provider: p, Name: spec.Name}
			}
		}
	}

	// 2. Keyword match.
	for _, spec := range providers.PROVIDERS {
		p := c.ProviderByName(spec.Name)
		if p == nil {
			continue
		}
		matched := false
		for _, kw := range spec.Keywords {
			if kwMatches(kw) {
				matched = true
				break
			}
		}
		if matched && (usable(spec, p) || c.Agent.APIKey != "") {
			return MatchResult{Provider: p, Name: spec.Name}
		}
	}

	// 3. Fallback: first configured provider.
	for _, spec := range providers.PROVIDERS {
		p := c.ProviderByName(spec.Name)
		if p != nil && p.APIKey != "" {
			return MatchResult{Provider: p, Name: spec.Name}
		}
	}

	return MatchResult{}
}

// GetProvider returns the matched ProviderConfig for model (or nil).
func (c *Config) GetProvider(model string) *ProviderConfig {
	return c.MatchProvider(model).Provider
}

// GetProviderName returns the registry name of the matched provider (or "").
func (c *Config) GetProviderName(model string) string {
	return c.MatchProvider(model).Name
}

// GetAPIBase resolves the effective API base URL for model.
// Precedence: agent.apiBase > provider apiBase > spec default.
func (c *Config) GetAPIBase(model string) string {
	if c.Agent.APIBase != "" {
		return c.Agent.APIBase
	}
	result := c.MatchProvider(model)
	if result.Provider != nil && result.Provider.APIBase != "" {
		return result.Provider.APIBase
	}
	if result.Name != "" {
		if spec := providers.FindByName(result.Name); spec != nil {
			return spec.DefaultAPIBase
		}
	}
	return ""
}

// GetAPIKey returns the API key for model (or "").
func (c *Config) GetAPIKey(model string) string {
	if c.Agent.APIKey != "" {
		return c.Agent.APIKey
	}
	if p := c.GetProvider(model); p != nil {
		return p.APIKey
	}
	return ""
}

// ProviderParams collects everything needed to construct the LLM provider
// for agent.model. ok is false when no provider can serve the model.
func (c *Config) ProviderParams() (providers.Params, bool) {
	model := c.Agent.Model
	result := c.MatchProvider(model)
	if result.Provider == nil {
		return providers.Params{}, false
	}
	return providers.Params{
		APIKey:         c.GetAPIKey(model),
		APIBase:        c.GetAPIBase(model),
		ExtraHeaders:   result.Provider.ExtraHeaders,
		DefaultModel:   model,
		ProviderName:   result.Name,
		RequestTimeout: c.Timeout(),
	}, true
}
