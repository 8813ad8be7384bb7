// Package driving provides interfaces for entry points (primary/inbound ports).
package driving
