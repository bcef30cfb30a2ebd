package models

// Region is the geographic partition a vendor belongs to and a non-top-tier
// administrator is restricted to.
type Region string

// RegionAll is the unrestricted sentinel carried by top-tier administrators.
const RegionAll Region = "Todos"

var Regions = []Region{
	"Amazonas",
	"Anzoátegui",
	"Apure",
	"Aragua",
	"Barinas",
	"Bolívar",
	"Carabobo",
	"Cojedes",
	"Delta Amacuro",
	"Falcón",
	"Guárico",
	"Lara",
	"Mérida",
	"Miranda",
	"Monagas",
	"Nueva Esparta",
	"Portuguesa",
	"Sucre",
	"Táchira",
	"Trujillo",
	"Vargas",
	"Yaracuy",
	"Zulia",
	"Distrito Capital",
}

func (r Region) Valid() bool {
	if r == RegionAll {
		return true
	}
	for _, known := range Regions {
		if r == known {
			return true
		}
	}
	return false
}
