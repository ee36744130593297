package booking

import (
	"testing"
	"time"

	"github.com/Biniljacobpro/nexcharge-sub001/internal/models"
)

func TestEstimateCost(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		pricing  models.Pricing
		powerKW  float64
		minutes  int
		expected float64
	}{
		{
			name:     "Per minute, 30 minutes at 10",
			pricing:  models.Pricing{BillingModel: models.BillingPerMinute, UnitPrice: 10},
			powerKW:  50,
			minutes:  30,
			expected: 300,
		},
		{
			name:     "Per minute, 90 minutes at 2.5",
			pricing:  models.Pricing{BillingModel: models.BillingPerMinute, UnitPrice: 2.5},
			powerKW:  22,
			minutes:  90,
			expected: 225,
		},
		{
			name:     "Per kWh, one hour on a 50 kW charger at 18",
			pricing:  models.Pricing{BillingModel: models.BillingPerKWh, UnitPrice: 18},
			powerKW:  50,
			minutes:  60,
			expected: 900,
		},
		{
			name:     "Per kWh, 30 minutes on a 7.4 kW charger at 12",
			pricing:  models.Pricing{BillingModel: models.BillingPerKWh, UnitPrice: 12},
			powerKW:  7.4,
			minutes:  30,
			expected: 44.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end := base.Add(time.Duration(tt.minutes) * time.Minute)
			if got := EstimateCost(tt.pricing, tt.powerKW, base, end); got != tt.expected {
				t.Errorf("EstimateCost() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		cost     float64
		expected int64
	}{
		{300, 30000},
		{44.4, 4440},
		{0.01, 1},
		{0, 0},
	}

	for _, tt := range tests {
		if got := MinorUnits(tt.cost); got != tt.expected {
			t.Errorf("MinorUnits(%v) = %v, expected %v", tt.cost, got, tt.expected)
		}
	}
}

func TestMaxPowerKW(t *testing.T) {
	station := &models.Station{
		Chargers: []models.Charger{
			{ChargerID: "CHG-1", ConnectorType: models.ConnectorDCCCS, PowerKW: 50},
			{ChargerID: "CHG-2", ConnectorType: models.ConnectorDCCCS, PowerKW: 120},
			{ChargerID: "CHG-3", ConnectorType: models.ConnectorACType2, PowerKW: 22},
		},
	}

	if got := maxPowerKW(station, models.ConnectorDCCCS); got != 120 {
		t.Errorf("maxPowerKW(dc_ccs) = %v, expected 120", got)
	}
	if got := maxPowerKW(station, models.ConnectorACType2); got != 22 {
		t.Errorf("maxPowerKW(ac_type2) = %v, expected 22", got)
	}
	if got := maxPowerKW(station, models.ConnectorDCChademo); got != 0 {
		t.Errorf("maxPowerKW(dc_chademo) = %v, expected 0", got)
	}
}
