// Package syncx contains the synchronization core shared by the client and
// the server: the enumerated set of synchronizable tables, the typed row
// records that cross the wire, ingestion validation, the last-write-wins
// conflict resolver and the push/pull message types.
package syncx

// Synchronizable tables. The set is fixed; payload tables that are not
// listed here are ignored by both sides, never synchronized.
const (
	TableCategories         = "categories"
	TableIncome             = "income"
	TableExpense            = "expense"
	TableInventoryItems     = "inventory_items"
	TableInventoryMovements = "inventory_movements"
	TableCattle             = "cattle"
	TableVaccinations       = "vaccinations"
)

// Tables lists every synchronizable table in push/apply order. Parent
// tables come before the tables that reference them so a single batch
// created offline applies cleanly.
var Tables = []string{
	TableCategories,
	TableIncome,
	TableExpense,
	TableInventoryItems,
	TableInventoryMovements,
	TableCattle,
	TableVaccinations,
}

// IsSyncTable reports whether name is one of the synchronizable tables.
func IsSyncTable(name string) bool {
	_, ok := specs[name]
	return ok
}
