package muster

import "time"

// Config holds configuration for the Muster engine.
type Config struct {
	// CacheTTL is the time-to-live for cached authorization results.
	// Zero means no caching.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// EnableHierarchyCap enforces the rank comparison on any-scoped
	// actions aimed at a member. Defaults to true.
	EnableHierarchyCap *bool `json:"enable_hierarchy_cap,omitempty"`

	// EnableDecisionLog records every authorization decision to the
	// decision log store. Defaults to true.
	EnableDecisionLog *bool `json:"enable_decision_log,omitempty"`

	// DecisionLogAllows includes allow decisions in the log. Defaults
	// to false — denies only, to keep the log small on the hot path.
	DecisionLogAllows bool `json:"decision_log_allows,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	t := true
	return Config{
		EnableHierarchyCap: &t,
		EnableDecisionLog:  &t,
	}
}

func (c Config) hierarchyCapEnabled() bool { return c.EnableHierarchyCap == nil || *c.EnableHierarchyCap }
func (c Config) decisionLogEnabled() bool  { return c.EnableDecisionLog == nil || *c.EnableDecisionLog }
