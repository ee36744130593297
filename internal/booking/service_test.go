package booking

import (
	"strings"
	"testing"

	"github.com/Biniljacobpro/nexcharge-sub001/internal/models"
)

func TestCandidateChargers(t *testing.T) {
	station := &models.Station{
		Chargers: []models.Charger{
			{ChargerID: "CHG-1", ConnectorType: models.ConnectorDCCCS, IsAvailable: true, Status: "operational"},
			{ChargerID: "CHG-2", ConnectorType: models.ConnectorDCCCS, IsAvailable: false, Status: "operational"},
			{ChargerID: "CHG-3", ConnectorType: models.ConnectorDCCCS, IsAvailable: true, Status: "faulty"},
			{ChargerID: "CHG-4", ConnectorType: models.ConnectorACType2, IsAvailable: true, Status: "operational"},
			{ChargerID: "CHG-5", ConnectorType: models.ConnectorDCCCS, IsAvailable: true, Status: "operational"},
		},
	}

	tests := []struct {
		name          string
		connectorType string
		expected      []string
	}{
		{
			name:          "Only available operational chargers of the type",
			connectorType: models.ConnectorDCCCS,
			expected:      []string{"CHG-1", "CHG-5"},
		},
		{
			name:          "Other connector type",
			connectorType: models.ConnectorACType2,
			expected:      []string{"CHG-4"},
		},
		{
			name:          "No chargers of the type",
			connectorType: models.ConnectorDCChademo,
			expected:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CandidateChargers(station, tt.connectorType)
			if len(got) != len(tt.expected) {
				t.Fatalf("CandidateChargers() = %v, expected %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("CandidateChargers()[%d] = %s, expected %s", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestChargersOfType(t *testing.T) {
	station := &models.Station{
		Chargers: []models.Charger{
			{ChargerID: "CHG-1", ConnectorType: models.ConnectorDCCCS, IsAvailable: true, Status: "operational"},
			{ChargerID: "CHG-2", ConnectorType: models.ConnectorDCCCS, IsAvailable: false, Status: "operational"},
			{ChargerID: "CHG-3", ConnectorType: models.ConnectorDCCCS, IsAvailable: true, Status: "faulty"},
			{ChargerID: "CHG-4", ConnectorType: models.ConnectorACType2, IsAvailable: true, Status: "operational"},
		},
	}

	got := ChargersOfType(station, models.ConnectorDCCCS)
	expected := []string{"CHG-1", "CHG-2"}
	if len(got) != len(expected) {
		t.Fatalf("ChargersOfType() = %v, expected %v", got, expected)
	}
	for i := range got {
		if got[i] != expected[i] {
			t.Errorf("ChargersOfType()[%d] = %s, expected %s", i, got[i], expected[i])
		}
	}
}

func TestNewBookingRef(t *testing.T) {
	ref := newBookingRef()
	if !strings.HasPrefix(ref, "BKG-") {
		t.Errorf("newBookingRef() = %s, expected BKG- prefix", ref)
	}
	if len(ref) != len("BKG-")+8 {
		t.Errorf("newBookingRef() length = %d, expected %d", len(ref), len("BKG-")+8)
	}
	if ref == newBookingRef() {
		t.Error("newBookingRef() returned the same value twice")
	}
}
