package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// CardEntry describes one playable card as configured in duelgrid_config.json.
// Speed is the cross-fight initiative key: higher speed resolves first.
type CardEntry struct {
	Name  string `json:"name"`
	Speed int    `json:"speed"`
	Power int    `json:"power"`
	Cost  int    `json:"cost"`
}

type rawConfig struct {
	CardList []CardEntry `json:"card_list"`
	Server   *struct {
		Address string `json:"address"`
	} `json:"server"`
	// Seconds a planning phase may stay open before stalled players are
	// auto-ended. Zero disables the scanner.
	ActionTimeoutSeconds int `json:"action_timeout_seconds"`
	// Upper bound on each client-completion rendezvous wait.
	RendezvousTimeoutSeconds int `json:"rendezvous_timeout_seconds"`
	CardsPerDraw             int `json:"cards_per_draw"`
	StartingHitPoints        int `json:"starting_hit_points"`
	StartingEnergy           int `json:"starting_energy"`
	Pairing                  *struct {
		PreferSameKind bool   `json:"prefer_same_kind"`
		PreferredKind  string `json:"preferred_kind"`
	} `json:"pairing"`
}

// LoadedConfig is the validated runtime configuration.
type LoadedConfig struct {
	Cards             []CardEntry
	ServerAddress     string
	ActionTimeout     time.Duration
	RendezvousTimeout time.Duration
	CardsPerDraw      int
	StartingHitPoints int
	StartingEnergy    int
	PreferSameKind    bool
	PreferredKind     string
}

// LoadConfig reads the configuration file at path. It requires a non-empty
// `card_list`; all other keys have defaults.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.CardList) == 0 {
		return nil, fmt.Errorf("config file %s: card_list is empty (provide a 'card_list' array)", path)
	}

	// Cross-entry validation: unique card names (case-insensitive) and
	// sane initiative values. Speed ties across fights fall back to
	// submission order, but a non-positive speed is almost always a typo.
	nameSet := make(map[string]struct{}, len(rc.CardList))
	for _, c := range rc.CardList {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("config file %s: card entry missing 'name'", path)
		}
		ln := strings.ToLower(strings.TrimSpace(c.Name))
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate card name '%s'", path, c.Name)
		}
		nameSet[ln] = struct{}{}
		if c.Speed <= 0 {
			return nil, fmt.Errorf("config file %s: card '%s' has non-positive speed %d", path, c.Name, c.Speed)
		}
		if c.Power < 0 {
			return nil, fmt.Errorf("config file %s: card '%s' has negative power %d", path, c.Name, c.Power)
		}
	}

	out := &LoadedConfig{
		Cards:             rc.CardList,
		ServerAddress:     ":8080",
		ActionTimeout:     60 * time.Second,
		RendezvousTimeout: 10 * time.Second,
		CardsPerDraw:      3,
		StartingHitPoints: 30,
		StartingEnergy:    3,
	}
	if rc.Server != nil && rc.Server.Address != "" {
		out.ServerAddress = rc.Server.Address
	}
	if rc.ActionTimeoutSeconds > 0 {
		out.ActionTimeout = time.Duration(rc.ActionTimeoutSeconds) * time.Second
	}
	if rc.RendezvousTimeoutSeconds > 0 {
		out.RendezvousTimeout = time.Duration(rc.RendezvousTimeoutSeconds) * time.Second
	}
	if rc.CardsPerDraw > 0 {
		out.CardsPerDraw = rc.CardsPerDraw
	}
	if rc.StartingHitPoints > 0 {
		out.StartingHitPoints = rc.StartingHitPoints
	}
	if rc.StartingEnergy > 0 {
		out.StartingEnergy = rc.StartingEnergy
	}
	if rc.Pairing != nil {
		out.PreferSameKind = rc.Pairing.PreferSameKind
		out.PreferredKind = rc.Pairing.PreferredKind
	}
	return out, nil
}
