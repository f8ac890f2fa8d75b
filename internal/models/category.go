package models

import "slices"

// ViewKind tells a navigation layer what to show when a category is opened.
type ViewKind string

const (
	ViewLeaf          ViewKind = "leaf"
	ViewSubcategories ViewKind = "subcategories"
)

const (
	CategoryTrucar     = "Trucar"
	CategoryEncarregar = "Encarregar"
	CategoryFactures   = "Factures"
	CategoryNotes      = "Notes"
	CategoryCompra     = "Compra"
	CategoryVenda      = "Venda"
)

const (
	SubPassades  = "Passades"
	SubPerPassar = "Per passar"
	SubPerPagar  = "Per pagar"
	SubPerCobrar = "Per cobrar"
)

// CategoryRoute is a routing table entry for one category.
type CategoryRoute struct {
	Name          string   `json:"name"`
	View          ViewKind `json:"view"`
	Subcategories []string `json:"subcategories,omitempty"`
}

// Categories is the fixed category routing table in display order.
var Categories = []CategoryRoute{
	{Name: CategoryTrucar, View: ViewLeaf},
	{Name: CategoryEncarregar, View: ViewLeaf},
	{Name: CategoryFactures, View: ViewSubcategories, Subcategories: []string{SubPassades, SubPerPassar, SubPerPagar, SubPerCobrar}},
	{Name: CategoryNotes, View: ViewLeaf},
	{Name: CategoryCompra, View: ViewSubcategories, Subcategories: []string{SubPassades, SubPerPassar}},
	{Name: CategoryVenda, View: ViewSubcategories, Subcategories: []string{SubPassades, SubPerPassar}},
}

// LookupCategory returns the route for name.
func LookupCategory(name string) (CategoryRoute, bool) {
	for _, c := range Categories {
		if c.Name == name {
			return c, true
		}
	}
	return CategoryRoute{}, false
}

// ValidSubcategory reports whether sub is allowed under the category route.
func (c CategoryRoute) ValidSubcategory(sub string) bool {
	return slices.Contains(c.Subcategories, sub)
}

// CategoryNames lists the category names in display order.
func CategoryNames() []string {
	out := make([]string, len(Categories))
	for i, c := range Categories {
		out[i] = c.Name
	}
	return out
}
