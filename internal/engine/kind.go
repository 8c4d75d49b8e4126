package engine

// Category decides when a building fires and who it pays.
type Category int

const (
	CategoryHeadquarters Category = iota
	CategoryRed                   // paid by the roller to the owner
	CategoryGreen                 // roller's own, paid by the bank
	CategoryBlue                  // everyone's, paid by the bank
	CategoryGrey                  // roller's own, utility effects
)

var categoryNames = map[Category]string{
	CategoryHeadquarters: "Headquarters",
	CategoryRed:          "Red",
	CategoryGreen:        "Green",
	CategoryBlue:         "Blue",
	CategoryGrey:         "Grey",
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return "Unknown"
}

// Emblem is a secondary tag read by other buildings' payoff formulas.
type Emblem int

const (
	EmblemNone Emblem = iota
	EmblemFood
	EmblemEnergy
	EmblemRuby
	EmblemSphere
)

var emblemNames = map[Emblem]string{
	EmblemNone:   "None",
	EmblemFood:   "Food",
	EmblemEnergy: "Energy",
	EmblemRuby:   "Ruby",
	EmblemSphere: "Sphere",
}

func (e Emblem) String() string {
	if s, ok := emblemNames[e]; ok {
		return s
	}
	return "Unknown"
}

// Surface is the terrain of a tile. SurfaceAny only appears as a building
// requirement, never on the board.
type Surface int

const (
	SurfaceAny Surface = iota
	SurfaceField
	SurfaceForest
	SurfaceWater
	SurfaceMountain
)

var surfaceNames = map[Surface]string{
	SurfaceAny:      "Any",
	SurfaceField:    "Field",
	SurfaceForest:   "Forest",
	SurfaceWater:    "Water",
	SurfaceMountain: "Mountain",
}

func (s Surface) String() string {
	if n, ok := surfaceNames[s]; ok {
		return n
	}
	return "Unknown"
}

// Accepts reports whether a building requiring s can stand on a tile of t.
func (s Surface) Accepts(t Surface) bool {
	return s == SurfaceAny || s == t
}

// BoardSurfaces are the surfaces a generated tile can have.
func BoardSurfaces() []Surface {
	return []Surface{SurfaceField, SurfaceForest, SurfaceWater, SurfaceMountain}
}

// Kind identifies a building variant.
type Kind int

const (
	KindHeadquarters Kind = iota
	KindQueenBurger
	KindTidalPowerPlant
	KindOrchard
	KindTrawler
	KindWindPowerPlant
	KindEBankOffice
	KindOilRig
	KindRiceField
	KindStoragePowerPlant
	KindSawmill
	KindWeaponsFactory
	KindJammer
	KindMilitaryCamp
	KindCentralBank
	KindMines
	KindControlCenter
	KindCasino
	KindExploitationSphere
	KindProfitMakingSphere
	KindDevastationSphere
	KindTransformationSphere
	KindBathyscaphe
)

// SphereKinds are the four sphere variants checked by the strategic floor.
func SphereKinds() []Kind {
	return []Kind{
		KindExploitationSphere, KindProfitMakingSphere,
		KindDevastationSphere, KindTransformationSphere,
	}
}

var kindNames = map[Kind]string{
	KindHeadquarters:         "Headquarters",
	KindQueenBurger:          "QueenBurger",
	KindTidalPowerPlant:      "TidalPowerPlant",
	KindOrchard:              "Orchard",
	KindTrawler:              "Trawler",
	KindWindPowerPlant:       "WindPowerPlant",
	KindEBankOffice:          "EBankOffice",
	KindOilRig:               "OilRig",
	KindRiceField:            "RiceField",
	KindStoragePowerPlant:    "StoragePowerPlant",
	KindSawmill:              "Sawmill",
	KindWeaponsFactory:       "WeaponsFactory",
	KindJammer:               "Jammer",
	KindMilitaryCamp:         "MilitaryCamp",
	KindCentralBank:          "CentralBank",
	KindMines:                "Mines",
	KindControlCenter:        "ControlCenter",
	KindCasino:               "Casino",
	KindExploitationSphere:   "ExploitationSphere",
	KindProfitMakingSphere:   "ProfitMakingSphere",
	KindDevastationSphere:    "DevastationSphere",
	KindTransformationSphere: "TransformationSphere",
	KindBathyscaphe:          "Bathyscaphe",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}
