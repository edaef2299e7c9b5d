package entity

import "strings"

// Category clasifica un ítem de inventario. Conjunto cerrado.
type Category string

// Categorías válidas de ítems.
const (
	CategoryVegetable Category = "Vegetable"
	CategoryFruit     Category = "Fruit"
	CategoryMeat      Category = "Meat"
	CategoryDairy     Category = "Dairy"
	CategoryBeverage  Category = "Beverage"
	CategoryCondiment Category = "Condiment"
	CategoryGrain     Category = "Grain"
	CategoryFrozen    Category = "Frozen"
)

// Categories devuelve todas las categorías en orden de presentación.
func Categories() []Category {
	return []Category{
		CategoryVegetable, CategoryFruit, CategoryMeat, CategoryDairy,
		CategoryBeverage, CategoryCondiment, CategoryGrain, CategoryFrozen,
	}
}

// Valid indica si la categoría pertenece al conjunto cerrado.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory acepta la categoría sin importar mayúsculas ("vegetable", "VEGETABLE").
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, known := range Categories() {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}
