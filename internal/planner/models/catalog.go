package models

// ============================================================
// Furniture catalog
// ============================================================

// CatalogItem describes a furniture preset. Dimensions are meters.
type CatalogItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Width    float64 `json:"width"`
	Depth    float64 `json:"depth"`
	Height   float64 `json:"height"`
}

// DefaultCatalogItem is substituted for catalog ids that do not resolve.
var DefaultCatalogItem = CatalogItem{
	ID:       "",
	Name:     "Object",
	Category: "generic",
	Width:    0.5,
	Depth:    0.5,
	Height:   0.5,
}

var catalog = []CatalogItem{
	{ID: "sofa-3", Name: "Sofa (3 seats)", Category: "living", Width: 2.1, Depth: 0.9, Height: 0.85},
	{ID: "armchair", Name: "Armchair", Category: "living", Width: 0.85, Depth: 0.85, Height: 0.9},
	{ID: "coffee-table", Name: "Coffee table", Category: "living", Width: 1.1, Depth: 0.6, Height: 0.45},
	{ID: "tv-unit", Name: "TV unit", Category: "living", Width: 1.8, Depth: 0.4, Height: 0.5},
	{ID: "bed-double", Name: "Double bed", Category: "bedroom", Width: 1.6, Depth: 2.0, Height: 0.5},
	{ID: "bed-single", Name: "Single bed", Category: "bedroom", Width: 0.9, Depth: 2.0, Height: 0.5},
	{ID: "wardrobe", Name: "Wardrobe", Category: "bedroom", Width: 1.2, Depth: 0.6, Height: 2.2},
	{ID: "dining-table", Name: "Dining table", Category: "dining", Width: 1.6, Depth: 0.9, Height: 0.75},
	{ID: "chair", Name: "Chair", Category: "dining", Width: 0.45, Depth: 0.5, Height: 0.9},
	{ID: "kitchen-base", Name: "Kitchen base cabinet", Category: "kitchen", Width: 0.6, Depth: 0.6, Height: 0.9},
	{ID: "kitchen-wall", Name: "Kitchen wall cabinet", Category: "kitchen", Width: 0.6, Depth: 0.35, Height: 0.7},
	{ID: "fridge", Name: "Fridge", Category: "kitchen", Width: 0.6, Depth: 0.65, Height: 1.85},
	{ID: "bathtub", Name: "Bathtub", Category: "bathroom", Width: 1.7, Depth: 0.75, Height: 0.6},
	{ID: "shower", Name: "Shower tray", Category: "bathroom", Width: 0.9, Depth: 0.9, Height: 0.1},
	{ID: "toilet", Name: "Toilet", Category: "bathroom", Width: 0.4, Depth: 0.65, Height: 0.8},
	{ID: "washbasin", Name: "Washbasin", Category: "bathroom", Width: 0.6, Depth: 0.45, Height: 0.85},
}

// Catalog returns a copy of the static furniture catalog.
func Catalog() []CatalogItem {
	out := make([]CatalogItem, len(catalog))
	copy(out, catalog)
	return out
}

// LookupCatalogItem finds a catalog item by id.
func LookupCatalogItem(id string) (CatalogItem, bool) {
	for _, item := range catalog {
		if item.ID == id {
			return item, true
		}
	}
	return CatalogItem{}, false
}

// ResolveCatalogItem returns the catalog item for id or DefaultCatalogItem
// when the id is unknown.
func ResolveCatalogItem(id string) CatalogItem {
	if item, ok := LookupCatalogItem(id); ok {
		return item
	}
	def := DefaultCatalogItem
	def.ID = id
	return def
}
