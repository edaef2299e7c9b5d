package inventory

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// CleanName recorta espacios y colapsa los espacios internos del nombre visible.
func CleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// NameKey devuelve la clave de unicidad de un nombre: limpio, NFC y sin distinción
// de mayúsculas ("  Tomate " y "tomate" comparten clave).
func NameKey(name string) string {
	// cases.Caser guarda estado: se crea uno por llamada.
	return cases.Fold().String(norm.NFC.String(CleanName(name)))
}
