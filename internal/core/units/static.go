package units

import "context"

// StaticSource 固定條目來源
type StaticSource struct {
	entries []Unit
}

// NewStaticSource 以給定條目建立來源
func NewStaticSource(entries []Unit) *StaticSource {
	cp := make([]Unit, len(entries))
	copy(cp, entries)
	return &StaticSource{entries: cp}
}

// DefaultSource 內建的常用烹飪單位表
func DefaultSource() *StaticSource {
	return NewStaticSource(DefaultUnits())
}

// Load 回傳條目副本
func (s *StaticSource) Load(ctx context.Context) ([]Unit, error) {
	out := make([]Unit, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Name 來源名稱
func (s *StaticSource) Name() string {
	return "static"
}

func mass(factor float64, codes ...string) []Unit {
	return family(FamilyMass, factor, codes...)
}

func volume(factor float64, codes ...string) []Unit {
	return family(FamilyVolume, factor, codes...)
}

func family(f Family, factor float64, codes ...string) []Unit {
	out := make([]Unit, 0, len(codes))
	for _, code := range codes {
		out = append(out, Unit{Code: code, Family: f, Factor: factor})
	}
	return out
}

// scoped 食材專屬的質量換算條目
func scoped(ingredientID string, factor float64, codes ...string) []Unit {
	out := mass(factor, codes...)
	for i := range out {
		out[i].IngredientID = ingredientID
	}
	return out
}

// DefaultUnits 內建單位：質量換算為公克、容量換算為毫升，計數單位無係數
func DefaultUnits() []Unit {
	var out []Unit
	// mass (base = g)
	out = append(out, mass(0.001, "mg", "milligram", "milligrams")...)
	out = append(out, mass(1, "g", "gram", "grams")...)
	out = append(out, mass(1000, "kg", "kilogram", "kilograms")...)
	out = append(out, mass(28.349523125, "oz", "ounce", "ounces")...)
	out = append(out, mass(453.59237, "lb", "lbs", "pound", "pounds")...)

	// volume (base = ml)
	out = append(out, volume(0.001, "ul", "microliter", "microliters")...)
	out = append(out, volume(1, "ml", "milliliter", "milliliters")...)
	out = append(out, volume(1000, "l", "liter", "liters")...)
	out = append(out, volume(4.92892159375, "tsp", "teaspoon", "teaspoons")...)
	out = append(out, volume(14.78676478125, "tbsp", "tablespoon", "tablespoons")...)
	out = append(out, volume(236.5882365, "cup", "cups")...)
	out = append(out, volume(29.5735295625, "fl_oz", "fl oz", "fluid ounce", "fluid ounces")...)
	out = append(out, volume(473.176473, "pint", "pints")...)
	out = append(out, volume(946.352946, "quart", "quarts")...)
	out = append(out, volume(3785.411784, "gallon", "gallons")...)

	// count-only
	out = append(out, family(FamilyCount, 0,
		"each", "piece", "pieces", "whole", "clove", "cloves", "slice", "slices",
		"pinch", "can", "cans", "bunch", "package", "packages", "sprig", "head")...)

	// 常見食材的密度，其他食材由檔案或 Redis 來源提供
	out = append(out, scoped("flour", 120, "cup", "cups")...)
	out = append(out, scoped("sugar", 200, "cup", "cups")...)
	out = append(out, scoped("brown_sugar", 220, "cup", "cups")...)
	out = append(out, scoped("butter", 227, "cup", "cups")...)
	out = append(out, scoped("butter", 14.2, "tbsp", "tablespoon", "tablespoons")...)
	out = append(out, scoped("rice", 185, "cup", "cups")...)
	return out
}
