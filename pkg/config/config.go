// Package config loads runtime settings for the state layer from the
// environment, optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries the knobs surfaced to deployments.
type Config struct {
	// DurableDir is the directory backing the durable storage adapter. Empty
	// keeps durable state in memory.
	DurableDir string

	// MobileBreakpoint is the viewport width, in pixels, below which the UI
	// is treated as mobile.
	MobileBreakpoint int

	Activity struct {
		Enabled bool
		Channel string
	}

	CartPolicy struct {
		// Engine selects the rule evaluator: "expr", "cel" or "js".
		Engine string
		// Expression is the boolean rule gating cart additions. Empty
		// disables the policy.
		Expression string
	}
}

// Load reads configuration from the environment. When path is non-empty the
// .env file at path is loaded first; a missing file is not an error.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	cfg.DurableDir = os.Getenv("APPSTATE_DURABLE_DIR")

	cfg.MobileBreakpoint = 640
	if raw := os.Getenv("APPSTATE_MOBILE_BREAKPOINT"); raw != "" {
		breakpoint, err := strconv.Atoi(raw)
		if err != nil || breakpoint <= 0 {
			return nil, fmt.Errorf("invalid APPSTATE_MOBILE_BREAKPOINT %q", raw)
		}
		cfg.MobileBreakpoint = breakpoint
	}

	cfg.Activity.Enabled = os.Getenv("APPSTATE_ACTIVITY_ENABLED") == "true"
	cfg.Activity.Channel = os.Getenv("APPSTATE_ACTIVITY_CHANNEL")
	if cfg.Activity.Channel == "" {
		cfg.Activity.Channel = "appstate"
	}

	cfg.CartPolicy.Engine = os.Getenv("APPSTATE_CART_POLICY_ENGINE")
	if cfg.CartPolicy.Engine == "" {
		cfg.CartPolicy.Engine = "expr"
	}
	cfg.CartPolicy.Expression = os.Getenv("APPSTATE_CART_POLICY")

	return cfg, nil
}
