// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. Tracing goes through the global
// OpenTelemetry provider, which is a no-op unless an SDK is installed.
package services
