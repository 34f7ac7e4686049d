package core

// DeriveEfficiency computes distance-per-volume for qualifying fuel
// entries. Entries must already be in derivation order (oldest first,
// same-day ties by odometer).
//
// The scan is a fold with one piece of carried state: the most recent
// odometer reading seen at a qualifying entry. An entry qualifies only
// when it has both a present odometer reading and a strictly positive
// volume. Efficiency is set only when the distance since the previous
// qualifying reading is strictly positive; a meter rollback or duplicate
// reading yields no efficiency but still advances the carried reading.
// Non-qualifying entries neither consume nor update the state.
func DeriveEfficiency(entries []Expense) {
	var lastOdometer *float64
	for i := range entries {
		e := &entries[i]
		if e.Odometer == nil || e.Volume == nil || *e.Volume <= 0 {
			continue
		}
		if lastOdometer != nil {
			if distance := *e.Odometer - *lastOdometer; distance > 0 {
				eff := distance / *e.Volume
				e.Efficiency = &eff
			}
		}
		lastOdometer = e.Odometer
	}
}
