// Package models defines domain entities and persistence interfaces for the ytlist reconciliation tool.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs carrying parsed and remote data
//   - [Track] : One row of a playlist document
//   - [SearchMatch] : A candidate video from a search, in service ranking order
//   - [Resolution] : The cached search outcome for one track
//   - [Playlist] : Remote playlist metadata
//   - [LiveItem] : One entry of a remote playlist (membership ID + video ID + position)
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [Run] : A recorded invocation of a mutating command, shown by `ytlist history`
//
// Persistent entities implement the [Model] interface providing ID generation,
// timestamps, and validation. The [Repository] interface defines standard CRUD
// operations for database access.
package models
