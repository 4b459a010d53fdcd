// Package database provides SQLite-based storage for the srcpgear run history.
//
// This package implements the HistoryDB, which stores every optimisation run
// with its request, status, record and search statistics. The history serves
// two purposes:
//   - listing and re-displaying past runs
//   - returning a stored result when the same request is repeated
//
// Repeated requests are recognised by the run fingerprint, a hash over the
// request and the search constants. A changed bound or resolver constant
// produces a new fingerprint, so stale results are never served.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because it is a
// single file and the CGO-free driver keeps cross-compilation simple.
// WAL mode lets a history listing read while an optimisation run writes.
package database
