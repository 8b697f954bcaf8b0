package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"airbnb-dashboard/charts"
	"airbnb-dashboard/models"
	"airbnb-dashboard/services"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Layout    *models.Layout
	Selection models.FilterSelection
	Inputs    map[string]services.Input
	Outputs   map[string]services.Output
	MapTiles  string
	MapAttrib string
	MapZoom   int
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sel, err := SelectionFromQuery(r.URL.Query(), s.layout.DefaultSelection())
	if err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}

	data := pageData{
		Layout:    s.layout,
		Selection: sel,
		Inputs: map[string]services.Input{
			"Price":         services.InputPrice,
			"Neighbourhood": services.InputNeighbourhood,
			"RoomType":      services.InputRoomType,
			"MinimumNights": services.InputMinimumNights,
			"Reviews":       services.InputReviews,
		},
		Outputs: map[string]services.Output{
			"Map":    services.OutputMap,
			"Groups": services.OutputNeighbourhoodGroups,
			"Prices": services.OutputPriceByRoomType,
		},
		MapTiles:  charts.MapTileURL,
		MapAttrib: charts.MapAttribution,
		MapZoom:   charts.MapZoom,
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
