package units

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// Family 量測類別
type Family string

const (
	FamilyMass   Family = "mass"   // 基準單位：公克
	FamilyVolume Family = "volume" // 基準單位：毫升
	FamilyCount  Family = "count"  // 計數單位，沒有換算係數
)

// ParseFamily 解析類別字串（不分大小寫）
func ParseFamily(s string) (Family, error) {
	switch Family(strings.ToLower(strings.TrimSpace(s))) {
	case FamilyMass, "weight":
		return FamilyMass, nil
	case FamilyVolume:
		return FamilyVolume, nil
	case FamilyCount, "":
		return FamilyCount, nil
	default:
		return "", fmt.Errorf("unknown measurement family %q", s)
	}
}

// Unit 單位目錄條目。Factor 把 1 單位換算成公克或毫升，0 表示未知。
// IngredientID 不為空時，此條目只適用於該食材（例如麵粉的 cup = 120 g）。
type Unit struct {
	Code         string  `json:"code" yaml:"code"`
	Family       Family  `json:"family" yaml:"family"`
	Factor       float64 `json:"factor,omitempty" yaml:"factor,omitempty"`
	IngredientID string  `json:"ingredient_id,omitempty" yaml:"ingredient_id,omitempty"`
}

// Convertible 是否能換算成基準單位
func (u Unit) Convertible() bool {
	return u.Factor > 0 && (u.Family == FamilyMass || u.Family == FamilyVolume)
}

// Validate 檢查條目是否可載入目錄
func (u Unit) Validate() error {
	if foldCode(u.Code) == "" {
		return fmt.Errorf("unit code is empty")
	}
	if u.Factor < 0 {
		return fmt.Errorf("unit %q has negative factor", u.Code)
	}
	switch u.Family {
	case FamilyMass, FamilyVolume, FamilyCount:
	default:
		return fmt.Errorf("unit %q has unknown family %q", u.Code, u.Family)
	}
	return nil
}

// foldCode 單位代碼的比對鍵：去除空白並做 Unicode case folding。
// cases.Caser 不可跨 goroutine 共用，因此每次建立。
func foldCode(code string) string {
	return cases.Fold().String(strings.TrimSpace(code))
}
