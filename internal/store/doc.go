// Package store provides SQLite-backed durable storage for the calorie log.
//
// The store keeps a single table, meals, partitioned by an opaque
// YYYY-MM-DD date key:
//   - Meal CRUD: add, update, delete and clear, scoped by date
//   - Aggregation: per-date totals computed with GROUP BY in SQLite
//   - Suggestions: distinct (name, calories) pairs ranked for autocomplete
//   - Bulk import: JSON upsert with per-item validation in one transaction
//   - Export: flat JSON entries, or a template when the log is empty
//
// # Ordering
//
// Every date-scoped read returns meals ORDER BY time ASC, created_at ASC,
// rowid ASC. Reads coalesce a NULL time to "12:00", so callers never see an
// empty time.
//
// # Schema Versions
//
// The schema version lives in PRAGMA user_version. Migrations are additive
// only and each one commits together with its version bump:
//
//	1 - meals(id, date, name, calories CHECK > 0, created_at)
//	2 - meals.time TEXT DEFAULT '12:00'
//	3 - meals.ingredients TEXT
//
// Column additions probe PRAGMA table_info first, so a database left
// half-migrated by an interrupted run still converges on the latest version.
//
// # Database Configuration
//
//   - Single connection: SQLite serialises writers anyway
//   - WAL mode: readers do not block the writer
//   - synchronous=FULL: a returned write is on disk
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - _txlock=immediate: transactions take the write lock at BEGIN
//
// The connection is opened lazily on first use and kept for the lifetime of
// the Store.
package store
