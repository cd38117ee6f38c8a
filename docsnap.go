// Package docsnap keeps a queryable snapshot of a small set of public
// documentation sites fresh. It crawls each configured source breadth-first,
// stages the extracted pages, and swaps the staged snapshots into production
// atomically so readers never observe a partial refresh.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, cron/).
package docsnap
