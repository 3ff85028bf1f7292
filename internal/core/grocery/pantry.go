package grocery

import (
	"math"
	"time"
)

// 浮點累加誤差容許值
const epsilon = 1e-9

// reconciliation 單一項目與庫存比對的結果
type reconciliation struct {
	status             PantryStatus
	availableGrams     *float64
	availableMl        *float64
	deficitGrams       *float64
	deficitMl          *float64
	record             *PantryRecord
	daysUntilExpiry    *int
	expiring           bool
	quantityComparable bool
}

// familyCheck 單一量測類別的比對
type familyCheck struct {
	available  *float64
	deficit    *float64
	sufficient bool
	onHand     float64
}

func checkFamily(needed *float64, onHand *float64) familyCheck {
	if needed == nil {
		return familyCheck{sufficient: true}
	}
	have := 0.0
	if onHand != nil && *onHand > 0 {
		have = *onHand
	}
	deficit := math.Max(*needed-have, 0)
	if deficit < epsilon {
		deficit = 0
	}

	fc := familyCheck{
		deficit:    &deficit,
		sufficient: deficit == 0,
		onHand:     have,
	}
	if onHand != nil {
		fc.available = &have
	}
	return fc
}

// reconcile 比對項目需求與庫存。不會修改 record。
// expiryWindowDays 內（含已過期）到期的庫存標記為 expiring，與充足程度無關。
func reconcile(l line, record *PantryRecord, now time.Time, expiryWindowDays int) reconciliation {
	r := reconciliation{status: PantryNone, record: record}

	if record != nil && record.ExpiryDate != nil && !record.ExpiryDate.IsZero() {
		days := daysUntil(record.ExpiryDate.Time, now)
		r.daysUntilExpiry = &days
		r.expiring = days <= expiryWindowDays
	}

	if !l.combinable {
		return r
	}
	r.quantityComparable = true

	var onHandGrams, onHandMl *float64
	if record != nil {
		onHandGrams = record.OnHandGrams
		onHandMl = record.OnHandMilliliters
	}

	mass := checkFamily(l.total.Grams, onHandGrams)
	volume := checkFamily(l.total.Milliliters, onHandMl)
	r.availableGrams, r.deficitGrams = mass.available, mass.deficit
	r.availableMl, r.deficitMl = volume.available, volume.deficit

	switch {
	case record == nil:
		r.status = PantryNone
	case mass.sufficient && volume.sufficient:
		r.status = PantrySufficient
	case mass.onHand > 0 || volume.onHand > 0:
		r.status = PantryPartial
	default:
		r.status = PantryNone
	}
	return r
}
