// Package domain contains the core domain entities and value objects for docship.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (HTTP, file system, logging) and
// contains only pure business logic.
//
// # Entities
//
//   - [DocumentRef]: One document to submit (identifier plus content path)
//   - [Outcome]: The classified result of a single submit attempt
//   - [LedgerEntry]: One row of the failure ledger
//   - [Progress]: Running tallies of a batch pass
//   - [Token]: Session token obtained from the authorization handshake
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain
