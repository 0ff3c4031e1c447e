package services

import (
	"testing"

	"github.com/atelier-ms/repair-tracking-service/internal/models"
)

func filterFixtures() []*models.Vehicle {
	return []*models.Vehicle{
		{
			ID:             1,
			Matricule:      "123 TU 4567",
			ClientName:     "Ahmed",
			ClientLastName: "Ben Ali",
			Marque:         "Peugeot",
			Model:          "208",
			CurrentStatus:  models.StatusEnAttenteDevis,
		},
		{
			ID:             2,
			Matricule:      "987 TU 6543",
			ClientName:     "Leila",
			ClientLastName: "Haddad",
			Marque:         "Renault",
			Model:          "Clio",
			CurrentStatus:  models.StatusPret,
		},
		{
			ID:             3,
			Matricule:      "555 TU 1111",
			ClientName:     "Karim",
			ClientLastName: "Benali",
			Marque:         "Peugeot",
			Model:          "308",
			CurrentStatus:  models.StatusReparationMeca,
		},
	}
}

func resultIDs(vehicles []*models.Vehicle) []uint {
	ids := make([]uint, len(vehicles))
	for i, v := range vehicles {
		ids[i] = v.ID
	}
	return ids
}

func TestFilterVehicles(t *testing.T) {
	statusPret := models.StatusPret

	tests := []struct {
		name   string
		filter VehicleFilter
		want   []uint
	}{
		{
			name:   "empty criteria match everything",
			filter: VehicleFilter{},
			want:   []uint{1, 2, 3},
		},
		{
			name:   "query matches matricule substring",
			filter: VehicleFilter{Query: "987"},
			want:   []uint{2},
		},
		{
			name:   "query is case-insensitive over client names",
			filter: VehicleFilter{Query: "benali"},
			want:   []uint{3},
		},
		{
			name:   "query matches model",
			filter: VehicleFilter{Query: "clio"},
			want:   []uint{2},
		},
		{
			name:   "marque matches exactly",
			filter: VehicleFilter{Marque: "Peugeot"},
			want:   []uint{1, 3},
		},
		{
			name:   "marque is not substring matched",
			filter: VehicleFilter{Marque: "Peu"},
			want:   []uint{},
		},
		{
			name:   "status matches exactly",
			filter: VehicleFilter{Status: &statusPret},
			want:   []uint{2},
		},
		{
			name:   "criteria combine with AND",
			filter: VehicleFilter{Query: "ben", Marque: "Peugeot"},
			want:   []uint{1, 3},
		},
		{
			name:   "no match",
			filter: VehicleFilter{Query: "tesla"},
			want:   []uint{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resultIDs(FilterVehicles(filterFixtures(), tt.filter))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestFilterVehicles_Idempotent(t *testing.T) {
	filter := VehicleFilter{Query: "ben", Marque: "Peugeot"}

	once := FilterVehicles(filterFixtures(), filter)
	twice := FilterVehicles(once, filter)

	if len(once) != len(twice) {
		t.Fatalf("filter not idempotent: %d != %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Errorf("order changed on second application at %d", i)
		}
	}
}
