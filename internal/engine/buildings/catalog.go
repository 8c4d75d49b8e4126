package buildings

import "diceville/internal/engine"

// NewCatalog returns a catalog holding every buildable variant.
func NewCatalog() *engine.Catalog {
	c := engine.NewCatalog()
	Register(c)
	return c
}

// Register adds the 22 buildable variants to c.
func Register(c *engine.Catalog) {
	add := func(kind engine.Kind, cat engine.Category, minDice, maxDice int,
		surface engine.Surface, emblem engine.Emblem, price int, factory engine.Factory) {
		c.Register(engine.Definition{
			Kind:     kind,
			Category: cat,
			MinDice:  minDice,
			MaxDice:  maxDice,
			Surface:  surface,
			Emblem:   emblem,
			Price:    price,
		}, factory)
	}
	enableable := func(kind engine.Kind, cat engine.Category, minDice, maxDice int,
		surface engine.Surface, emblem engine.Emblem, price int, factory engine.Factory) {
		c.Register(engine.Definition{
			Kind:       kind,
			Category:   cat,
			MinDice:    minDice,
			MaxDice:    maxDice,
			Surface:    surface,
			Emblem:     emblem,
			Price:      price,
			Enableable: true,
		}, factory)
	}

	// Green: the roller's own, paid by the bank
	add(engine.KindQueenBurger, engine.CategoryGreen, 1, 1, engine.SurfaceField, engine.EmblemFood, 1, flat(1))
	add(engine.KindOrchard, engine.CategoryGreen, 4, 4, engine.SurfaceForest, engine.EmblemFood, 2, flat(2))
	add(engine.KindWindPowerPlant, engine.CategoryGreen, 6, 6, engine.SurfaceField, engine.EmblemEnergy, 3, flat(3))
	add(engine.KindRiceField, engine.CategoryGreen, 9, 9, engine.SurfaceField, engine.EmblemFood, 5, flat(3))
	add(engine.KindSawmill, engine.CategoryGreen, 11, 11, engine.SurfaceForest, engine.EmblemRuby, 6, perTile(engine.SurfaceForest))
	add(engine.KindCentralBank, engine.CategoryGreen, 4, 5, engine.SurfaceField, engine.EmblemRuby, 4, flat(2))

	// Blue: everyone's, paid by the bank
	add(engine.KindTidalPowerPlant, engine.CategoryBlue, 3, 3, engine.SurfaceWater, engine.EmblemEnergy, 2, flat(2))
	add(engine.KindTrawler, engine.CategoryBlue, 5, 5, engine.SurfaceWater, engine.EmblemFood, 3, flat(3))
	add(engine.KindOilRig, engine.CategoryBlue, 8, 8, engine.SurfaceWater, engine.EmblemEnergy, 4, flat(4))
	add(engine.KindStoragePowerPlant, engine.CategoryBlue, 10, 10, engine.SurfaceMountain, engine.EmblemEnergy, 5, flat(5))
	add(engine.KindExploitationSphere, engine.CategoryBlue, 5, 5, engine.SurfaceField, engine.EmblemSphere, 4, sphere(engine.EmblemEnergy))
	add(engine.KindProfitMakingSphere, engine.CategoryBlue, 2, 2, engine.SurfaceField, engine.EmblemSphere, 6, sphere(engine.EmblemFood))
	add(engine.KindBathyscaphe, engine.CategoryBlue, 4, 4, engine.SurfaceWater, engine.EmblemNone, 3, perTile(engine.SurfaceWater))

	// Red: other players' buildings, paid by the roller
	add(engine.KindEBankOffice, engine.CategoryRed, 7, 7, engine.SurfaceField, engine.EmblemRuby, 4, toll(1))
	add(engine.KindWeaponsFactory, engine.CategoryRed, 12, 12, engine.SurfaceMountain, engine.EmblemRuby, 6, toll(3))
	add(engine.KindMilitaryCamp, engine.CategoryRed, 2, 3, engine.SurfaceField, engine.EmblemNone, 3, toll(1))
	add(engine.KindCasino, engine.CategoryRed, 9, 9, engine.SurfaceField, engine.EmblemNone, 8, newCasino)
	add(engine.KindDevastationSphere, engine.CategoryRed, 10, 10, engine.SurfaceWater, engine.EmblemSphere, 5, newDevastation)

	// Grey: the roller's own utilities
	enableable(engine.KindJammer, engine.CategoryGrey, 1, 6, engine.SurfaceField, engine.EmblemNone, 2, newJammer)
	enableable(engine.KindMines, engine.CategoryGrey, 6, 6, engine.SurfaceMountain, engine.EmblemRuby, 5, newMines)
	enableable(engine.KindControlCenter, engine.CategoryGrey, 7, 8, engine.SurfaceField, engine.EmblemNone, 7, newControlCenter)
	enableable(engine.KindTransformationSphere, engine.CategoryGrey, 12, 14, engine.SurfaceMountain, engine.EmblemSphere, 6, newTransformation)
}
