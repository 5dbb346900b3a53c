// Package models contains GORM persistence models that map to database tables.
// Domain aggregates stay free of ORM tags; each model carries ToDomain and
// FromDomain mappers and the repositories only ever touch models.
//
//   - base.go: shared identity, version and tenant columns
//   - finance.go: invoices, invoice links, statement transactions, expenses
//   - scheduling.go: appointments and replacement credits
//   - attendance.go: check-ins
package models
