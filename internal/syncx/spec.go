package syncx

// TableSpec describes one synchronizable table: its full column list (meta
// columns first, in the order Record.Values/Fields produce them) and a
// factory for empty records. Repositories on both sides build their SQL
// from these specs so the column order is defined in exactly one place.
type TableSpec struct {
	Name    string
	Columns []string
	New     func() Record
}

var specs = map[string]TableSpec{
	TableCategories: {
		Name:    TableCategories,
		Columns: append(metaColumns[:len(metaColumns):len(metaColumns)], "name", "is_direct_cost"),
		New:     func() Record { return &Category{} },
	},
	TableIncome: {
		Name:    TableIncome,
		Columns: append(metaColumns[:len(metaColumns):len(metaColumns)], "date", "description", "amount", "source"),
		New:     func() Record { return &Income{} },
	},
	TableExpense: {
		Name:    TableExpense,
		Columns: append(metaColumns[:len(metaColumns):len(metaColumns)], "date", "category_id", "description", "amount", "vendor", "is_unplanned"),
		New:     func() Record { return &Expense{} },
	},
	TableInventoryItems: {
		Name:    TableInventoryItems,
		Columns: append(metaColumns[:len(metaColumns):len(metaColumns)], "name", "type", "unit", "min_level", "expires_at"),
		New:     func() Record { return &InventoryItem{} },
	},
	TableInventoryMovements: {
		Name:    TableInventoryMovements,
		Columns: append(metaColumns[:len(metaColumns):len(metaColumns)], "item_id", "date", "qty", "cost_total", "movement_type", "note"),
		New:     func() Record { return &InventoryMovement{} },
	},
	TableCattle: {
		Name:    TableCattle,
		Columns: append(metaColumns[:len(metaColumns):len(metaColumns)], "tag", "birth_date", "notes"),
		New:     func() Record { return &Cattle{} },
	},
	TableVaccinations: {
		Name:    TableVaccinations,
		Columns: append(metaColumns[:len(metaColumns):len(metaColumns)], "cattle_id", "vaccine_item_id", "date", "dose", "cost", "next_due_date"),
		New:     func() Record { return &Vaccination{} },
	},
}

// Spec returns the table spec for a synchronizable table. The second return
// value is false for unknown tables; callers treat those as no-ops, not
// errors.
func Spec(table string) (TableSpec, bool) {
	s, ok := specs[table]
	return s, ok
}
