// Package cleanup implements retention-based deletion of case folders.
//
// # Retention Policy
//
// Cases whose status is closed and whose last update is at least the
// configured retention period in the past become eligible for cleanup. The
// sweep deletes each eligible case's on-disk folder; by default the case
// record itself is left untouched to preserve audit history (delete_records
// turns on dual deletion).
//
// # Sweep Semantics
//
// A sweep evaluates the eligible set once at run start, then processes cases
// sequentially. A per-case failure (permission error, I/O error, timeout) is
// recorded in the run result and does not abort the batch; the failed case
// remains eligible and is retried on the next run. A failure to query the
// case store aborts the whole run before any deletion happens.
//
// Folder deletion is idempotent: a folder that is already gone counts as a
// successful deletion, not an error. Because of that, sweeps tolerate
// crash/restart without coordination — the store record is the authority for
// case visibility and the folder is a disposable artifact cache.
//
// Only one sweep runs at a time. A trigger that arrives while a sweep is in
// flight fails fast with ErrSweepInProgress rather than running concurrently.
//
// # Basic Usage
//
//	sweeper := cleanup.NewSweeper(repo, folders, &cleanup.Config{
//	    RetentionDays: 90,
//	})
//
//	result, err := sweeper.Sweep(ctx, cleanup.TriggerManual)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Printf("deleted %d case folders (%d errors)", result.Deleted, result.Errors)
//
// Scheduled execution lives in the schedule subpackage.
package cleanup
