// Package core provides the business logic for the registros service.
//
// This package holds the domain logic independent of any transport. It is used
// by the HTTP handlers in internal/web, by the registros CLI and by tests
// without modification.
//
// # Architecture
//
// The package is organized around a few concepts:
//
//   - Column Resolver: [ResolveColumns] maps an arbitrary header row onto the
//     four canonical fields using a fixed synonym table.
//   - Sheet Importer: [ImportSheet] validates and normalizes every data row of a
//     sheet, [ImportWorkbook] runs it over the requested sheets of a [Workbook].
//   - Reconciliation: the [Service] checks every candidate against the [Store]
//     and creates it or reports it as a duplicate, inside one [Batch].
//   - Service: the entry point for imports, exports and CRUD operations.
//
// # Import Flow
//
//  1. The client calls [Service.ImportUpload] with the uploaded file
//  2. The file is spooled to the uploads directory and opened as a [Workbook]
//  3. Each requested sheet is resolved and imported into a [SheetOutcome]
//  4. Candidates are reconciled in a single batch, committed when anything was created
//  5. The temporary file is removed and the import is recorded in the history
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - REG001-REG005: Registro errors (email taken, not found, invalid program)
//   - FILE001-FILE004: File errors (size, extension, unreadable, missing)
//   - IMP001: Import errors (too many concurrent imports)
//   - DB001-DB007: Database errors (constraints, connections)
//   - UPL004-UPL005: Request cancelled or timed out
package core
