package server

import (
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"

	"airbnb-dashboard/models"
	"airbnb-dashboard/services"
)

const (
	exportSheet       = "Listings"
	exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeader = []any{
	models.ColID, models.ColName, models.ColHostName, models.ColNeighbourhoodGrp,
	models.ColNeighbourhood, models.ColRoomType, models.ColPrice, models.ColMinimumNights,
	models.ColNumberOfReviews, models.ColLastReview, models.ColLatitude, models.ColLongitude,
}

// buildWorkbook writes the listings shown on the map for sel into one sheet.
func buildWorkbook(ds *services.Dataset, sel models.FilterSelection) (*excelize.File, error) {
	xl := excelize.NewFile()
	if err := xl.SetSheetName(xl.GetSheetName(0), exportSheet); err != nil {
		xl.Close()
		return nil, fmt.Errorf("export: rename sheet: %w", err)
	}
	if err := xl.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		xl.Close()
		return nil, fmt.Errorf("export: header: %w", err)
	}

	for i, l := range services.MapListings(ds, sel) {
		lastReview := ""
		if l.LastReview != nil {
			lastReview = l.LastReview.Format(services.ReviewDateLayout)
		}
		record := []any{
			l.ID, l.Name, l.HostName, l.NeighbourhoodGroup,
			l.Neighbourhood, l.RoomType, l.Price, l.MinimumNights,
			l.NumberOfReviews, lastReview, l.Latitude, l.Longitude,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := xl.SetSheetRow(exportSheet, cell, &record); err != nil {
			xl.Close()
			return nil, fmt.Errorf("export: row %d: %w", i+2, err)
		}
	}

	_ = xl.SetColWidth(exportSheet, "B", "B", 48)
	_ = xl.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	return xl, nil
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sel, err := SelectionFromQuery(r.URL.Query(), s.layout.DefaultSelection())
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}

	xl, err := buildWorkbook(s.dispatcher.Dataset(), sel)
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	defer xl.Close()

	buf, err := xl.WriteToBuffer()
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, fmt.Errorf("export: %w", err))
		return
	}

	w.Header().Set("Content-Type", exportContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="listings.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
