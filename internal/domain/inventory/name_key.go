package inventory

import (
	"strings"

	"golang.org/x/text/cases"
)

// NameKey normaliza un nombre de producto para conciliación: case folding Unicode
// y espacios colapsados. "  Tornillo  M8 " y "tornillo m8" producen la misma clave.
func NameKey(name string) string {
	// Un Caser guarda estado; no se comparte entre goroutines.
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}
