package mysql

// Note: the id column holds the remote id as text; ordering is done in Go (numeric ids sort numerically).
const insertRestaurantsPrefix = "INSERT INTO restaurants\n  (id, name, cuisine_type, neighborhood, raw)\nVALUES "

const insertRestaurantsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  name         = VALUES(name),\n" +
	"  cuisine_type = VALUES(cuisine_type),\n" +
	"  neighborhood = VALUES(neighborhood),\n" +
	"  raw          = VALUES(raw),\n" +
	"  updated_at   = CURRENT_TIMESTAMP\n"

const selectRestaurantsSQL = `SELECT id, raw FROM restaurants`

const deleteRestaurantSQL = `DELETE FROM restaurants WHERE id = ?`

// -----------------------------------------------------------------------------
// PENDING REVIEW SLOT
// -----------------------------------------------------------------------------

// One row per slot name; a second failure overwrites the first payload.
const upsertPendingSQL = `
INSERT INTO pending_requests (slot, payload)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  payload  = VALUES(payload),
  saved_at = CURRENT_TIMESTAMP
`

const selectPendingSQL = `SELECT payload FROM pending_requests WHERE slot = ?`

const deletePendingSQL = `DELETE FROM pending_requests WHERE slot = ?`
