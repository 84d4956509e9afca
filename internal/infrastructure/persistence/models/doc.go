// Package models holds the GORM row types for the warehouse schema.
// Domain aggregates stay free of ORM tags; each file here pairs a
// table definition with mappers to and from the domain type.
//
//   - base.go: shared key/timestamp and optimistic-lock columns
//   - identity.go: staff accounts
//   - inventory.go: snapshots, snapshot lines, count entries
//   - layout.go: floor map slots
//   - alert.go: operational alerts
//   - equipment.go: equipment registry
//   - audit.go: audit trail entries
package models
