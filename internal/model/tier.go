package model

import (
	"fmt"
	"strings"
)

// Tier selects which backend model answers the salary queries.
type Tier string

const (
	TierHaiku  Tier = "haiku"
	TierSonnet Tier = "sonnet"
	TierOpus   Tier = "opus"
)

// Model returns the backend model identifier for the tier, or "" for an unknown tier.
func (t Tier) Model() string {
	switch t {
	case TierHaiku:
		return "claude-3-haiku-20240307"
	case TierSonnet:
		return "claude-3-sonnet-20240229"
	case TierOpus:
		return "claude-3-opus-20240229"
	}
	return ""
}

// ParseTier converts user input into a Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if t.Model() == "" {
		return "", fmt.Errorf("unknown tier %q (choose haiku, sonnet or opus)", s)
	}
	return t, nil
}

// Tiers lists the selectable tiers, cheapest first.
func Tiers() []Tier {
	return []Tier{TierHaiku, TierSonnet, TierOpus}
}
