package units

// NormalizedAmount 換算後的數量。Grams 與 Milliliters 對單筆需求最多只有一個有值；
// 兩者皆為 nil 代表無法換算，此時 OriginalQuantity / OriginalUnit 保留原始輸入。
type NormalizedAmount struct {
	Grams            *float64 `json:"grams,omitempty"`
	Milliliters      *float64 `json:"milliliters,omitempty"`
	Combinable       bool     `json:"combinable"`
	OriginalQuantity float64  `json:"original_quantity"`
	OriginalUnit     string   `json:"original_unit"`
}

// IsZero 沒有任何可換算的數量
func (a NormalizedAmount) IsZero() bool {
	return a.Grams == nil && a.Milliliters == nil
}

// Add 分別累加公克與毫升，絕不交叉相加
func (a NormalizedAmount) Add(b NormalizedAmount) NormalizedAmount {
	return NormalizedAmount{
		Grams:       addPtr(a.Grams, b.Grams),
		Milliliters: addPtr(a.Milliliters, b.Milliliters),
		Combinable:  a.Combinable || b.Combinable,
	}
}

func addPtr(a, b *float64) *float64 {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		v := *b
		return &v
	case b == nil:
		v := *a
		return &v
	default:
		v := *a + *b
		return &v
	}
}

// Normalizer 把 (數量, 單位) 換算為公克或毫升
type Normalizer struct {
	catalog Lookup
}

// NewNormalizer 創建換算器
func NewNormalizer(catalog Lookup) *Normalizer {
	return &Normalizer{catalog: catalog}
}

// Normalize 使用通用單位條目換算。未知單位或沒有係數的單位回傳不可合併，不會失敗。
func (n *Normalizer) Normalize(quantity float64, unitCode string) NormalizedAmount {
	u, ok := n.catalog.Lookup(unitCode)
	return normalizeWith(u, ok, quantity, unitCode)
}

// NormalizeFor 先使用食材專屬條目換算
func (n *Normalizer) NormalizeFor(ingredientID string, quantity float64, unitCode string) NormalizedAmount {
	u, ok := n.catalog.LookupFor(ingredientID, unitCode)
	return normalizeWith(u, ok, quantity, unitCode)
}

func normalizeWith(u Unit, ok bool, quantity float64, unitCode string) NormalizedAmount {
	amount := NormalizedAmount{
		OriginalQuantity: quantity,
		OriginalUnit:     unitCode,
	}
	if !ok || !u.Convertible() {
		return amount
	}

	v := quantity * u.Factor
	switch u.Family {
	case FamilyMass:
		amount.Grams = &v
	case FamilyVolume:
		amount.Milliliters = &v
	}
	amount.Combinable = true
	return amount
}

// Denormalize 把換算結果轉回指定單位的數量
func (n *Normalizer) Denormalize(amount NormalizedAmount, unitCode string) (float64, bool) {
	u, ok := n.catalog.Lookup(unitCode)
	if !ok || !u.Convertible() {
		return 0, false
	}
	switch {
	case u.Family == FamilyMass && amount.Grams != nil:
		return *amount.Grams / u.Factor, true
	case u.Family == FamilyVolume && amount.Milliliters != nil:
		return *amount.Milliliters / u.Factor, true
	default:
		return 0, false
	}
}
