package booking

import (
	"math"
	"time"

	"github.com/Biniljacobpro/nexcharge-sub001/internal/models"
)

// EstimateCost computes the projected session cost for a window.
// per_minute bills unit price times duration; per_kwh bills unit price times
// the energy the charger can deliver over the window (power * hours).
func EstimateCost(p models.Pricing, powerKW float64, start, end time.Time) float64 {
	minutes := end.Sub(start).Minutes()

	var cost float64
	switch p.BillingModel {
	case models.BillingPerKWh:
		energyKWh := powerKW * minutes / 60
		cost = p.UnitPrice * energyKWh
	default: // per_minute
		cost = p.UnitPrice * minutes
	}

	return math.Round(cost*100) / 100
}

// MinorUnits converts a cost in major currency units to minor units
// (paise), which is what the payment gateway expects.
func MinorUnits(cost float64) int64 {
	return int64(math.Round(cost * 100))
}

// maxPowerKW returns the highest power rating among a station's chargers of
// the given connector type. Used when estimating per_kwh cost before a
// specific charger has been allocated.
func maxPowerKW(st *models.Station, connectorType string) float64 {
	var max float64
	for _, ch := range st.Chargers {
		if ch.ConnectorType == connectorType && ch.PowerKW > max {
			max = ch.PowerKW
		}
	}
	return max
}
