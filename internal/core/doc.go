// Package core provides the merge pipeline for shipment and invoice exports.
//
// This package holds all domain logic independent of any UI or transport
// layer. It can be used by web handlers, CLI tools, or tests without
// modification. Every function is pure: inputs are never mutated and derived
// tables are fresh snapshots.
//
// # Pipeline
//
// [Run] wires the components together:
//
//  1. [Resolve] locates the tracking column in each table by keyword hint
//  2. [NormalizeTracking] canonicalizes every key value, repairing
//     spreadsheet scientific notation ("1.5E+11" becomes "150000000000")
//  3. [Merge] left-joins the invoice onto the shipments
//  4. [Filter] narrows the merged rows by recipient, service and ship date
//  5. [WriteCSV] or [WriteXLSX] serializes the result for download
//
// # Tables
//
// A [Table] is an ordered header plus rows of tagged [Value] scalars
// (missing, string or number). [ParseCSV] and [ParseXLSX] build tables from
// uploaded bytes, stripping a UTF-8 BOM and sanitizing invalid UTF-8.
//
// # Error Handling
//
// The pipeline fails with one of three typed errors:
//
//   - [MissingUploadError]: one or both inputs absent
//   - [ColumnResolutionError]: no tracking column in one or both tables
//   - [NormalizationError]: one or more key values could not be repaired
//
// Any error can be mapped to a user-facing message with [MapError]. Each
// category has a code for support reference (UPL, COL, NORM, FILE, WS, REQ).
package core
