package config

import (
	"fmt"
	"strings"

	apperrors "hiprompt/pkg/errors"
)

// Placeholder credentials shipped in templates count as missing.
const (
	PlaceholderURL = "https://placeholder.supabase.co"
	PlaceholderKey = "placeholder-key"
)

// Setting is one required variable and whether it is configured.
type Setting struct {
	Name       string   `json:"name"`
	Aliases    []string `json:"aliases,omitempty"`
	Configured bool     `json:"configured"`
}

// Diagnostics describes whether the gateway credentials are usable.
type Diagnostics struct {
	Driver   string    `json:"driver"`
	Settings []Setting `json:"settings"`
}

// Diagnose inspects the gateway credentials. The memory driver needs none.
func (c *Config) Diagnose() Diagnostics {
	d := Diagnostics{Driver: c.Gateway.Driver}
	if c.Gateway.Driver == DriverMemory {
		return d
	}

	d.Settings = []Setting{
		{
			Name:       "HIPROMPT_SUPABASE_URL",
			Aliases:    urlAliases,
			Configured: c.Supabase.URL != "" && c.Supabase.URL != PlaceholderURL,
		},
		{
			Name:       "HIPROMPT_SUPABASE_ANON_KEY",
			Aliases:    keyAliases,
			Configured: c.Supabase.AnonKey != "" && c.Supabase.AnonKey != PlaceholderKey,
		},
	}
	return d
}

// OK reports whether every setting is configured.
func (d Diagnostics) OK() bool {
	for _, s := range d.Settings {
		if !s.Configured {
			return false
		}
	}
	return true
}

// Err returns a configuration error listing each setting, or nil.
func (d Diagnostics) Err() error {
	if d.OK() {
		return nil
	}
	settings := make(map[string]bool, len(d.Settings))
	for _, s := range d.Settings {
		settings[s.Name] = s.Configured
	}
	return apperrors.NewConfiguration("gateway credentials are missing", settings)
}

// Instructions renders setup help for the terminal and the diagnostic page.
func (d Diagnostics) Instructions() string {
	var b strings.Builder
	b.WriteString("Hi Prompt is not configured.\n\n")
	b.WriteString("Set the following variables in your environment or in a .env file:\n\n")
	for _, s := range d.Settings {
		status := "configured"
		if !s.Configured {
			status = "missing"
		}
		fmt.Fprintf(&b, "  %-28s %s", s.Name, status)
		if len(s.Aliases) > 0 {
			fmt.Fprintf(&b, "  (or %s)", strings.Join(s.Aliases, ", "))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nBoth values are shown in the Supabase dashboard under Project Settings > API.\n")
	b.WriteString("Use HIPROMPT_GATEWAY_DRIVER=memory to run against an in-process store instead.\n")
	return b.String()
}
