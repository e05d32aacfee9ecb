package syncx

// DefaultCategory is one of the cost categories every new farm starts with.
type DefaultCategory struct {
	Name         string
	IsDirectCost int64
}

// DefaultCategories is seeded on farm creation by whichever replica creates
// the farm, so server-created and offline-created farms look the same.
var DefaultCategories = []DefaultCategory{
	{Name: "Ração", IsDirectCost: 1},
	{Name: "Vacinas", IsDirectCost: 1},
	{Name: "Mão de obra", IsDirectCost: 1},
	{Name: "Manutenção", IsDirectCost: 1},
	{Name: "Combustível", IsDirectCost: 1},
	{Name: "Imprevistos", IsDirectCost: 0},
	{Name: "Outros", IsDirectCost: 0},
}
