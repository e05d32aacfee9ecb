package syncx

// Typed records, one per synchronizable table. Payload fields mirror the
// farm schema; the sync layer never interprets them beyond validation.
// Boolean-ish columns (is_direct_cost, is_unplanned) are 0/1 integers and
// calendar dates are YYYY-MM-DD strings, matching the stored format on
// every replica.

// Record is one synchronizable row. Values and Fields are aligned with the
// column list of the table's Spec, meta columns first.
type Record interface {
	Table() string
	SyncMeta() *Meta

	// Values returns the column values for inserts.
	Values() []any
	// Fields returns scan destinations for reads.
	Fields() []any
}

type Category struct {
	Meta
	Name         string `json:"name" validate:"required"`
	IsDirectCost int64  `json:"is_direct_cost"`
}

func (c *Category) Table() string { return TableCategories }
func (c *Category) SyncMeta() *Meta { return &c.Meta }
func (c *Category) Values() []any {
	return append(c.Meta.values(), c.Name, c.IsDirectCost)
}
func (c *Category) Fields() []any {
	return append(c.Meta.fields(), &c.Name, &c.IsDirectCost)
}

type Income struct {
	Meta
	Date        string  `json:"date" validate:"required"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Source      string  `json:"source"`
}

func (i *Income) Table() string { return TableIncome }
func (i *Income) SyncMeta() *Meta { return &i.Meta }
func (i *Income) Values() []any {
	return append(i.Meta.values(), i.Date, i.Description, i.Amount, i.Source)
}
func (i *Income) Fields() []any {
	return append(i.Meta.fields(), &i.Date, &i.Description, &i.Amount, &i.Source)
}

type Expense struct {
	Meta
	Date        string  `json:"date" validate:"required"`
	CategoryID  string  `json:"category_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Vendor      string  `json:"vendor"`
	IsUnplanned int64   `json:"is_unplanned"`
}

func (e *Expense) Table() string { return TableExpense }
func (e *Expense) SyncMeta() *Meta { return &e.Meta }
func (e *Expense) Values() []any {
	return append(e.Meta.values(), e.Date, e.CategoryID, e.Description, e.Amount, e.Vendor, e.IsUnplanned)
}
func (e *Expense) Fields() []any {
	return append(e.Meta.fields(), &e.Date, &e.CategoryID, &e.Description, &e.Amount, &e.Vendor, &e.IsUnplanned)
}

type InventoryItem struct {
	Meta
	Name      string  `json:"name" validate:"required"`
	Type      string  `json:"type" validate:"required,oneof=FEED INPUT VACCINE"`
	Unit      string  `json:"unit" validate:"required"`
	MinLevel  float64 `json:"min_level"`
	ExpiresAt string  `json:"expires_at"`
}

func (i *InventoryItem) Table() string { return TableInventoryItems }
func (i *InventoryItem) SyncMeta() *Meta { return &i.Meta }
func (i *InventoryItem) Values() []any {
	return append(i.Meta.values(), i.Name, i.Type, i.Unit, i.MinLevel, i.ExpiresAt)
}
func (i *InventoryItem) Fields() []any {
	return append(i.Meta.fields(), &i.Name, &i.Type, &i.Unit, &i.MinLevel, &i.ExpiresAt)
}

type InventoryMovement struct {
	Meta
	ItemID       string  `json:"item_id" validate:"required"`
	Date         string  `json:"date" validate:"required"`
	Qty          float64 `json:"qty"`
	CostTotal    float64 `json:"cost_total"`
	MovementType string  `json:"movement_type" validate:"required,oneof=IN OUT"`
	Note         string  `json:"note"`
}

func (m *InventoryMovement) Table() string { return TableInventoryMovements }
func (m *InventoryMovement) SyncMeta() *Meta { return &m.Meta }
func (m *InventoryMovement) Values() []any {
	return append(m.Meta.values(), m.ItemID, m.Date, m.Qty, m.CostTotal, m.MovementType, m.Note)
}
func (m *InventoryMovement) Fields() []any {
	return append(m.Meta.fields(), &m.ItemID, &m.Date, &m.Qty, &m.CostTotal, &m.MovementType, &m.Note)
}

type Cattle struct {
	Meta
	Tag       string `json:"tag" validate:"required"`
	BirthDate string `json:"birth_date"`
	Notes     string `json:"notes"`
}

func (c *Cattle) Table() string { return TableCattle }
func (c *Cattle) SyncMeta() *Meta { return &c.Meta }
func (c *Cattle) Values() []any {
	return append(c.Meta.values(), c.Tag, c.BirthDate, c.Notes)
}
func (c *Cattle) Fields() []any {
	return append(c.Meta.fields(), &c.Tag, &c.BirthDate, &c.Notes)
}

type Vaccination struct {
	Meta
	CattleID      string  `json:"cattle_id" validate:"required"`
	VaccineItemID string  `json:"vaccine_item_id" validate:"required"`
	Date          string  `json:"date" validate:"required"`
	Dose          string  `json:"dose"`
	Cost          float64 `json:"cost"`
	NextDueDate   string  `json:"next_due_date"`
}

func (v *Vaccination) Table() string { return TableVaccinations }
func (v *Vaccination) SyncMeta() *Meta { return &v.Meta }
func (v *Vaccination) Values() []any {
	return append(v.Meta.values(), v.CattleID, v.VaccineItemID, v.Date, v.Dose, v.Cost, v.NextDueDate)
}
func (v *Vaccination) Fields() []any {
	return append(v.Meta.fields(), &v.CattleID, &v.VaccineItemID, &v.Date, &v.Dose, &v.Cost, &v.NextDueDate)
}
