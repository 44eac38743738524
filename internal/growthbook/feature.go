// Package growthbook provides a client for the GrowthBook features REST API
// and helpers that derive display summaries from a feature's rule set.
package growthbook

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// DefaultEnvironment is the environment used for enrichment and summaries
// unless a caller asks for a different one.
const DefaultEnvironment = "production"

// ValueType enumerates the value types a feature can carry.
type ValueType string

const (
	ValueTypeBoolean ValueType = "boolean"
	ValueTypeString  ValueType = "string"
	ValueTypeNumber  ValueType = "number"
	ValueTypeJSON    ValueType = "json"
)

// RuleType enumerates the targeting rule kinds.
type RuleType string

const (
	RuleForce      RuleType = "force"
	RuleRollout    RuleType = "rollout"
	RuleExperiment RuleType = "experiment"
)

// Feature is a GrowthBook feature flag as returned by the features API.
// It is never persisted locally; it is fetched on demand.
type Feature struct {
	ID           string                        `json:"id"`
	Key          string                        `json:"key"`
	ValueType    ValueType                     `json:"valueType"`
	DefaultValue any                           `json:"defaultValue"`
	Description  string                        `json:"description,omitempty"`
	Tags         []string                      `json:"tags"`
	Environments map[string]FeatureEnvironment `json:"environments"`
	Revision     *Revision                     `json:"revision,omitempty"`
}

// FeatureEnvironment is one environment's configuration within a feature.
type FeatureEnvironment struct {
	Enabled bool   `json:"enabled"`
	Rules   []Rule `json:"rules"`
}

// Rule is one targeting/rollout/experiment directive within an environment.
type Rule struct {
	Type          RuleType       `json:"type"`
	Description   string         `json:"description,omitempty"`
	Enabled       *bool          `json:"enabled,omitempty"`
	Condition     map[string]any `json:"condition,omitempty"`
	Value         any            `json:"value,omitempty"`
	Variations    []Variation    `json:"variations,omitempty"`
	Coverage      *float64       `json:"coverage,omitempty"`
	HashAttribute string         `json:"hashAttribute,omitempty"`
	TrackingKey   string         `json:"trackingKey,omitempty"`
}

// Variation is one arm of an experiment rule.
type Variation struct {
	Value  any     `json:"value"`
	Weight float64 `json:"weight"`
	Name   string  `json:"name,omitempty"`
	Key    string  `json:"key,omitempty"`
}

// Revision describes the most recent published revision of a feature.
type Revision struct {
	Version     int    `json:"version"`
	Comment     string `json:"comment"`
	PublishedAt string `json:"publishedAt"`
}

// ExperimentInfo is the shaped view of one experiment rule.
type ExperimentInfo struct {
	Type        string         `json:"type"` // always "experiment"
	Description string         `json:"description,omitempty"`
	Variations  []Variation    `json:"variations"`
	Coverage    float64        `json:"coverage"`
	Condition   map[string]any `json:"condition,omitempty"`
	TrackingKey string         `json:"trackingKey,omitempty"`
}

// EnvironmentStatus summarizes one environment's rule set with flag-level
// existence checks. Rule counts ignore each rule's own enabled flag.
type EnvironmentStatus struct {
	Enabled        bool `json:"enabled"`
	HasExperiments bool `json:"hasExperiments"`
	HasRollouts    bool `json:"hasRollouts"`
	HasOverrides   bool `json:"hasOverrides"`
	RuleCount      int  `json:"ruleCount"`
}

// IsEnabled reports whether the rule is enabled. Absence of the enabled
// field counts as enabled.
func (r Rule) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// TypeLabel returns a display label for the rule's type. Unknown types are
// returned unchanged.
func (r Rule) TypeLabel() string {
	switch r.Type {
	case RuleExperiment:
		return "A/B Test"
	case RuleRollout:
		return "Gradual Rollout"
	case RuleForce:
		return "Override"
	default:
		return string(r.Type)
	}
}

// ExtractExperiments returns the shaped experiment rules for the given
// environment. Rules explicitly disabled are skipped. A missing environment
// yields an empty list, not an error.
func (f *Feature) ExtractExperiments(environment string) []ExperimentInfo {
	env, ok := f.Environments[environment]
	if !ok {
		return []ExperimentInfo{}
	}

	infos := []ExperimentInfo{}
	for _, rule := range env.Rules {
		if rule.Type != RuleExperiment || !rule.IsEnabled() {
			continue
		}
		variations := rule.Variations
		if variations == nil {
			variations = []Variation{}
		}
		coverage := 1.0
		if rule.Coverage != nil {
			coverage = *rule.Coverage
		}
		infos = append(infos, ExperimentInfo{
			Type:        string(RuleExperiment),
			Description: rule.Description,
			Variations:  variations,
			Coverage:    coverage,
			Condition:   rule.Condition,
			TrackingKey: rule.TrackingKey,
		})
	}
	return infos
}

// TargetingSummary renders the environment's targeting conditions as
// human-readable strings, one per rule that carries a condition. Rules with
// no condition are skipped. When the environment is missing, has no rules, or
// no rule produced a summary, the single entry "All users" is returned.
func (f *Feature) TargetingSummary(environment string) []string {
	env, ok := f.Environments[environment]
	if !ok || len(env.Rules) == 0 {
		return []string{"All users"}
	}

	var summaries []string
	for _, rule := range env.Rules {
		if len(rule.Condition) == 0 {
			continue
		}
		if clause := renderCondition(rule.Condition); clause != "" {
			summaries = append(summaries, clause)
		}
	}

	if len(summaries) == 0 {
		return []string{"All users"}
	}
	return summaries
}

// Status returns the environment's status summary. A missing environment
// yields the zero status, not an error.
func (f *Feature) Status(environment string) EnvironmentStatus {
	env, ok := f.Environments[environment]
	if !ok {
		return EnvironmentStatus{}
	}

	status := EnvironmentStatus{
		Enabled:   env.Enabled,
		RuleCount: len(env.Rules),
	}
	for _, rule := range env.Rules {
		switch rule.Type {
		case RuleExperiment:
			status.HasExperiments = true
		case RuleRollout:
			status.HasRollouts = true
		case RuleForce:
			status.HasOverrides = true
		}
	}
	return status
}

// HasTargeting reports whether at least one rule in the environment carries
// a non-empty condition.
func (f *Feature) HasTargeting(environment string) bool {
	env, ok := f.Environments[environment]
	if !ok {
		return false
	}
	for _, rule := range env.Rules {
		if len(rule.Condition) > 0 {
			return true
		}
	}
	return false
}

// EnvironmentRules returns the rule list for the given environment, never nil.
func (f *Feature) EnvironmentRules(environment string) []Rule {
	env, ok := f.Environments[environment]
	if !ok || env.Rules == nil {
		return []Rule{}
	}
	return env.Rules
}

// renderCondition renders a condition mapping as clauses joined by " AND ".
// Attribute names are sorted for deterministic output.
func renderCondition(cond map[string]any) string {
	keys := make([]string, 0, len(cond))
	for k := range cond {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	for _, key := range keys {
		clauses = append(clauses, renderMatcher(key, cond[key]))
	}
	return strings.Join(clauses, " AND ")
}

// renderMatcher renders a single attribute/matcher pair. Matchers are either
// plain literals or objects carrying a MongoDB-style operator key.
func renderMatcher(key string, value any) string {
	obj, ok := value.(map[string]any)
	if !ok {
		return key + " = " + formatScalar(value)
	}

	if in, ok := obj["$in"]; ok {
		if list, ok := in.([]any); ok {
			parts := make([]string, len(list))
			for i, v := range list {
				parts[i] = formatScalar(v)
			}
			return key + ": " + strings.Join(parts, ", ")
		}
	}
	if v, ok := obj["$eq"]; ok {
		return key + " = " + formatScalar(v)
	}
	if v, ok := obj["$ne"]; ok {
		return key + " ≠ " + formatScalar(v)
	}
	if v, ok := obj["$gt"]; ok {
		return key + " > " + formatScalar(v)
	}
	if v, ok := obj["$gte"]; ok {
		return key + " ≥ " + formatScalar(v)
	}
	if v, ok := obj["$lt"]; ok {
		return key + " < " + formatScalar(v)
	}
	if v, ok := obj["$lte"]; ok {
		return key + " ≤ " + formatScalar(v)
	}

	// Unrecognized operator object: fall back to its JSON form.
	raw, _ := json.Marshal(obj)
	return key + ": " + string(raw)
}

// formatScalar renders a JSON scalar the way it would appear to a user,
// without quotes around strings.
func formatScalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return "null"
	default:
		raw, _ := json.Marshal(x)
		return string(raw)
	}
}
