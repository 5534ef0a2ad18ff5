// Package tasks composes the api resource wrappers into the multi-call operations behind the dashboard.
//
// # Operations
//
//  1. [Dashboard.Overview] : loads account, sources, jobs and (optionally) system health concurrently
//     - each section is independent; failures are collected in [OverviewResult.Errors]
//     - recent runs are fetched per job with bounded concurrency
//     - [Stats] are computed from whatever loaded
//
//  2. [Dashboard.BulkAction] : run, pause or resume many jobs
//     - rate-limited worker pool
//     - per-job results, never aborts on a single failure
//
// [FilterJobs], [SortJobs], [FilterSources] and [SortSources] implement the list views' client-side
// filtering.
//
// # Progress Reporting
//
// Operations accept an optional channel of [ProgressUpdate]. Updates use select with default so a slow
// or absent reader never blocks the operation.
package tasks
