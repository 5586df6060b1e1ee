package config

import "testing"

func TestMatchProvider_DefaultIsOllama(t *testing.T) {
	cfg := DefaultConfig()
	got := cfg.MatchProvider("")
	if got.Name != "ollama" {
		t.Fatalf("expected ollama, got %q", got.Name)
	}
	if base := cfg.GetAPIBase(""); base != "http://localhost:11434/v1" {
		t.Errorf("unexpected base %q", base)
	}
	if key := cfg.GetAPIKey(""); key != "" {
		t.Errorf("ollama needs no key, got %q", key)
	}
}

func TestMatchProvider_PrefixNeedsKey(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.MatchProvider("deepseek/deepseek-chat"); got.Name != "" {
		t.Fatalf("deepseek without a key should not match, got %q", got.Name)
	}

	cfg.Providers.DeepSeek.APIKey = "sk-ds"
	got := cfg.MatchProvider("deepseek/deepseek-chat")
	if got.Name != "deepseek" {
		t.Fatalf("expected deepseek, got %q", got.Name)
	}
	if base := cfg.GetAPIBase("deepseek/deepseek-chat"); base != "https://api.deepseek.com/v1" {
		t.Errorf("expected spec default base, got %q", base)
	}
}

func TestMatchProvider_KeywordAndFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Providers.OpenAI.APIKey = "sk-oa"
	if got := cfg.MatchProvider("gpt-4o-mini"); got.Name != "openai" {
		t.Errorf("keyword match: expected openai, got %q", got.Name)
	}

	cfg = DefaultConfig()
	cfg.Providers.OpenRouter.APIKey = "sk-or-x"
	if got := cfg.MatchProvider("mistral-large"); got.Name != "openrouter" {
		t.Errorf("fallback: expected openrouter, got %q", got.Name)
	}
}

func TestMatchProvider_ForcedAndOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Agent.Model = "llama3.1"
	cfg.Agent.Provider = "vllm"
	cfg.Agent.APIBase = "http://gpu-box:8000/v1"
	cfg.Agent.APIKey = "token"

	params, ok := cfg.ProviderParams()
	if !ok {
		t.Fatal("expected forced provider to resolve")
	}
	if params.ProviderName != "vllm" {
		t.Errorf("expected vllm, got %q", params.ProviderName)
	}
	if params.APIBase != "http://gpu-box:8000/v1" || params.APIKey != "token" {
		t.Errorf("agent overrides not applied: %+v", params)
	}
	if params.RequestTimeout != cfg.Timeout() {
		t.Errorf("timeout not propagated: %v", params.RequestTimeout)
	}
}

func TestProviderParams_Unresolvable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Agent.Model = "mistral-large"
	if _, ok := cfg.ProviderParams(); ok {
		t.Fatal("expected no provider for an unknown model without keys")
	}
}
