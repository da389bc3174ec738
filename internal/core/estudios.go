package core

import "slices"

// Estudios is the fixed set of recognized study programs, in display order.
var Estudios = []string{
	"Desarrollo Web",
	"Desarrollo Móvil",
	"Bases de Datos",
	"Redes y Seguridad",
	"Diseño Gráfico",
	"Marketing Digital",
	"Administración de Empresas",
	"Contabilidad",
	"Electricidad",
	"Sistemas",
}

// IsValidEstudio reports whether s is exactly one of Estudios.
func IsValidEstudio(s string) bool {
	return slices.Contains(Estudios, s)
}
