package models

// Category labels a product and is one of the things a promotion can target.
type Category string

var Categories = []Category{
	"Cerveza",
	"Ron",
	"Whisky",
	"Vodka",
	"Tequila",
	"Ginebra",
	"Vino Tinto",
	"Vino Blanco",
	"Vino Rosado",
	"Aguardiente / Anisados",
	"Sangría / Cocteles Preparados",
	"Brandy / Coñac",
	"Licores / Cremas",
	"Champagne / Espumosos",
	"Bebidas sin Alcohol",
	"Hamburguesas",
	"Perros Calientes (Hot Dogs)",
	"Pizzas",
	"Salchipapas / Papas Fritas",
	"Pepitos",
	"Empanadas",
	"Tacos / Burritos",
	"Tequeños / Dedos de Queso",
	"Shawarmas / Döner Kebab",
	"Alitas de Pollo / Costillas",
	"Parrilla / Pinchos",
	"Pastelitos",
	"Mazorcas / Elotes",
	"Dulces / Postres",
	"Snacks / Pasapalos",
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
