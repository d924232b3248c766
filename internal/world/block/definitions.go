package block

// Регистрируем базовые типы блоков при импорте пакета
func init() {
	defs := []Definition{
		{Kind: Air, Name: "Air"},
		{Kind: Gravel, Name: "Gravel", Solid: true},
		{Kind: SmoothStone, Name: "SmoothStone", Solid: true},
		{Kind: RoughStone, Name: "RoughStone", Solid: true},
		{Kind: Dirt, Name: "Dirt", Solid: true},
		{Kind: Sand, Name: "Sand", Solid: true},
		{Kind: Wood, Name: "Wood", Solid: true},
		{Kind: WoodTop, Name: "WoodTop", Solid: true},
		{Kind: Coal, Name: "Coal", Solid: true},
		{Kind: StoneSlab, Name: "StoneSlab", Solid: true},
		{Kind: StoneSlabTop, Name: "StoneSlabTop", Solid: true},
		{Kind: Torch, Name: "Torch", Solid: true},
		{Kind: Lava, Name: "Lava", Solid: true},
		{Kind: Leaves, Name: "Leaves"},
		{Kind: Grass, Name: "Grass", SpecialGeometry: true},
		{Kind: Bush, Name: "Bush", SpecialGeometry: true},
		{Kind: Mushroom, Name: "Mushroom", SpecialGeometry: true},
		{Kind: Border, Name: "Border", Solid: true},
		{Kind: Breaking, Name: "Breaking", Solid: true},
		// Караван рисуется особой геометрией, но при этом непроходим
		{Kind: Caravan, Name: "Caravan", Solid: true, SpecialGeometry: true},
	}

	for _, def := range defs {
		Register(def)
	}
}
