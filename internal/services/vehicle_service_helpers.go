package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atelier-ms/repair-tracking-service/internal/models"
	"github.com/atelier-ms/repair-tracking-service/internal/utils"
)

// synthesizeHistory backfills rows imported before status history existed.
// Such rows get a single synthetic entry for their current status, stamped
// with the best timestamp the row still carries. Rows with an empty status
// are treated as freshly arrived.
func synthesizeHistory(v *models.Vehicle, now time.Time) {
	if v.CurrentStatus == "" {
		v.CurrentStatus = models.StatusEnAttenteDevis
	}

	if len(v.StatusHistory) > 0 {
		return
	}

	changedAt := now
	switch {
	case v.StatusUpdatedAt != nil && !v.StatusUpdatedAt.IsZero():
		changedAt = *v.StatusUpdatedAt
	case !v.DateArrivee.IsZero():
		changedAt = v.DateArrivee
	}

	v.StatusHistory = []models.StatusChange{{
		ID:        uuid.NewString(),
		VehicleID: v.ID,
		Status:    v.CurrentStatus,
		ChangedAt: changedAt,
		ChangedBy: "Système",
	}}
}

func buildVehicleResponse(v *models.Vehicle, now time.Time) *VehicleResponse {
	return &VehicleResponse{
		Vehicle:      v,
		DaysInStatus: utils.DaysInStatus(v, now),
	}
}

// FilterVehicles applies the list filter in memory. Empty criteria match
// everything; applying the same filter twice yields the same result.
func FilterVehicles(vehicles []*models.Vehicle, filter VehicleFilter) []*models.Vehicle {
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	out := make([]*models.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if query != "" && !matchesQuery(v, query) {
			continue
		}
		if filter.Marque != "" && v.Marque != filter.Marque {
			continue
		}
		if filter.Status != nil && v.CurrentStatus != *filter.Status {
			continue
		}
		out = append(out, v)
	}
	return out
}

func matchesQuery(v *models.Vehicle, query string) bool {
	for _, field := range []string{v.Matricule, v.ClientName, v.ClientLastName, v.Model} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
