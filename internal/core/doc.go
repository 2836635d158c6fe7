// Package core provides the business logic for extracting items and error
// messages from uploaded report files.
//
// This package contains all domain logic independent of any UI or transport
// layer. It is used by the web handlers and by the errextract CLI.
//
// # Pipeline
//
// A processing run moves through three states:
//
//  1. Loaded: [Load] parses a .csv or .xlsx file into a [Table]. There is no
//     header row; the first row is data.
//  2. Extracted: [Extract] reads the third column of every [Row] and applies
//     [ExtractItem] and [ExtractError] to it.
//  3. Cleaned: [Clean] keeps only rows where both values are present and not
//     blank, producing a [CleanedTable].
//
// A table with two or fewer columns stops the run with a [SchemaError]. Files
// that cannot be parsed stop it with an [InputFormatError].
//
// [Process] runs all three steps and [WriteCSV] serializes the result for
// download as processed_data.csv.
//
// # Service
//
// [Service] wraps the pipeline with a concurrency limit ([UploadLimiter]) and
// optional run history ([RunStore], backed by PostgreSQL via [PgRunStore]).
// [Service.StartRetentionScheduler] purges old run summaries in the background.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a code for support reference:
//
//   - FILE001-FILE006: File errors (size, format, encoding, missing file)
//   - COL001: Not enough columns
//   - UPL002, UPL004, UPL005: Processing slot and request lifecycle errors
//   - DB004-DB006: History database errors
//   - HIST001: Run history requested but not configured
//   - RATE001: Rate limiting
package core
