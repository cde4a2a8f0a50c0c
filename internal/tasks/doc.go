// Package tasks orchestrates document-to-playlist reconciliation with real-time progress reporting.
//
// # Core Operations
//
// The [SyncEngine] interface defines three operations:
//
//  1. [SyncEngine.Resolve] : Fill the resolution cache for a document
//     - Parses the markdown tracklist
//     - Searches uncached tracks on YouTube, joining in durations
//     - Caches every outcome, including searches that found nothing
//
//  2. [SyncEngine.Sync] : Reconcile an existing playlist with a document
//     - Diffs the resolved document against the live playlist
//     - Applies adds, then reorders, then removals
//     - Leaves items it does not recognize alone unless told otherwise
//
//  3. [SyncEngine.Create] : Build a new playlist from a document
//     - Creates the playlist, then runs the same phased reconciliation
//     - Checkpoints the playlist ID immediately so an interrupted run
//       never creates a duplicate
//
// # Planning
//
// [BuildPlan] treats both sides as multisets so duplicate entries pair off
// occurrence by occurrence. Reorders move only the items outside the longest
// increasing subsequence of document order, which is the minimum possible
// number of position updates. Every planned position is the 0-based index
// the playlist will have when that operation executes.
//
// # Checkpoints
//
// Runs persist a [Checkpoint] after every mutation. When quota runs out mid
// run the checkpoint survives, and rerunning the same command re-derives a
// fresh plan against live state and finishes the remainder. Completed runs
// delete their checkpoint.
//
// # Progress Reporting
//
// All operations send [ProgressUpdate] values over an optional channel.
// Updates use select with default so a slow or absent listener never blocks
// reconciliation.
//
// # Implementation
//
// [ReconcileEngine] implements [SyncEngine] with dependencies on:
//   - [services.API] : typed YouTube Data API client
//   - [cache.Store] : persistent track resolution cache
//   - [CheckpointStore] : interrupted-run state
package tasks
