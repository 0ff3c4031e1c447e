package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/atelier-ms/repair-tracking-service/internal/models"
)

const exportSheetName = "Véhicules"

var exportHeaders = []string{
	"Matricule",
	"Client",
	"Marque",
	"Modèle",
	"Assurance",
	"Type de réparation",
	"Kilométrage",
	"Date d'arrivée",
	"Statut",
	"Jours dans le statut",
	"Chargée de dossier",
	"Note",
}

type exportService struct {
	vehicles VehicleService
	logger   *slog.Logger
}

func NewExportService(vehicles VehicleService, logger *slog.Logger) ExportService {
	return &exportService{
		vehicles: vehicles,
		logger:   logger,
	}
}

// ExportVehicles renders the filtered list as an xlsx workbook, one row per
// vehicle, applying the same visibility rules as the list endpoint.
func (s *exportService) ExportVehicles(ctx context.Context, filter VehicleFilter, actor *models.Identity) ([]byte, error) {
	s.logger.Info("Exporting vehicles", "actor", actor.Email)

	list, err := s.vehicles.List(ctx, filter, actor)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheetName)

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, v := range list.Vehicles {
		values := exportRow(v)
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("Vehicles exported", "count", len(list.Vehicles))
	return buf.Bytes(), nil
}

func exportRow(v *VehicleResponse) []interface{} {
	handler := ""
	if v.ChargeeDeDossier != nil {
		handler = *v.ChargeeDeDossier
	}
	note := ""
	if v.Note != nil {
		note = *v.Note
	}

	return []interface{}{
		v.Matricule,
		strings.TrimSpace(v.ClientName + " " + v.ClientLastName),
		v.Marque,
		v.Model,
		v.AssuranceCompany,
		strings.Join(v.TypeReparation, ", "),
		v.Kilometrage,
		v.DateArrivee.Format("02/01/2006"),
		string(v.CurrentStatus),
		v.DaysInStatus,
		handler,
		note,
	}
}
