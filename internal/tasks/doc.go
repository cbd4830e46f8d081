// Package tasks orchestrates long-running setlist operations with real-time progress reporting.
//
// # Core Operations
//
//  1. [ExportEngine.BulkExport] : Export many setlists to disk
//     - Resolves each setlist's songs from the relational store
//     - Fans out to a bounded worker pool writing CSV, Markdown, text or JSON
//     - Writes a manifest summarizing successes and failures
//
//  2. [ExportEngine.Publish] : Publish a setlist to a band
//     - Resolves the setlist and uploads each song's audio asset, rate limited
//     - Creates the shared setlist on the collaboration backend
//     - Announces it in the band's chat channel
//
// # Progress Reporting
//
// All operations push [ProgressUpdate] events through non-blocking channels;
// updates use select with default so a slow consumer never stalls the work.
package tasks
