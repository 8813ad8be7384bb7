// Package domain contains the core business entities for burrow.
// It has no dependencies on infrastructure, keeping business logic pure.
package domain
