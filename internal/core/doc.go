// Package core provides the business logic for contact submissions.
//
// This package holds the domain model and the rules around it, independent of
// any transport or storage engine. The web layer, the CLI and tests all go
// through [Service].
//
// # Storage
//
// Persistence is abstracted behind [Store]. Implementations live under
// internal/store (PostgreSQL, SQL Server and a key-value backed local mirror)
// and share the filter semantics in internal/query:
//
//   - name and email: case-insensitive substring
//   - platform: exact, case-sensitive
//   - startDate / endDate: inclusive bounds on the timestamp
//
// Results are always ordered by timestamp descending, ties broken by id.
//
// # Error Handling
//
// Operations return one of:
//
//   - [*ValidationError]: missing or malformed input
//   - [ErrNotFound]: no submission with the given id
//   - [ErrNoData]: export of an empty store
//   - [*StoreError]: any failure of the underlying store
//
// [MapError] converts any of these to a user-facing message with a support code.
package core
