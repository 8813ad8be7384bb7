// Package services contains the core pipeline orchestration: ingestion,
// retrieval and answer generation. Services depend only on ports and
// domain types; adapters are injected at construction.
package services
