// Package config loads application configuration from environment
// variables with development defaults. Call Load followed by Validate at
// startup; Validate reports all problems at once via errors.Join so a
// misconfigured deployment fails with the full list rather than one
// missing variable at a time.
package config
