package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"airbnb-dashboard/charts"
	"airbnb-dashboard/models"
	"airbnb-dashboard/services"
	"airbnb-dashboard/utils"
)

func testListings() []*models.Listing {
	mk := func(id int64, neighbourhood, group, roomType string, price, nights, reviews int) *models.Listing {
		return &models.Listing{
			ID: id, Name: "Listing", HostName: "Host",
			NeighbourhoodGroup: group, Neighbourhood: neighbourhood,
			Latitude: 40.7, Longitude: -73.95,
			RoomType: roomType, Price: price, MinimumNights: nights, NumberOfReviews: reviews,
		}
	}
	return []*models.Listing{
		mk(1, "Williamsburg", "Brooklyn", "Private room", 50, 1, 10),
		mk(2, "Williamsburg", "Brooklyn", "Private room", 150, 3, 0),
		mk(3, "Williamsburg", "Brooklyn", "Private room", 100, 4, 20),
		mk(4, "Harlem", "Manhattan", "Private room", 80, 1, 7),
		mk(5, "Harlem", "Manhattan", "Entire home/apt", 120, 3, 12),
		mk(6, "Astoria", "Queens", "Shared room", 40, 1, 0),
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWith(t, testListings())
}

func newTestServerWith(t *testing.T, listings []*models.Listing) *httptest.Server {
	t.Helper()
	logger := utils.NewNopLogger()
	ds := services.NewDataset(listings)
	layout, err := services.BuildLayout(ds)
	require.NoError(t, err)

	d := services.NewDispatcher(ds, logger)
	d.SetObserver(ObserveDerivation)

	ts := httptest.NewServer(New(d, layout, logger).Routes())
	t.Cleanup(ts.Close)
	return ts
}

func williamsburgQuery() url.Values {
	return SelectionQuery(models.FilterSelection{
		PriceMin: 50, PriceMax: 150, Neighbourhood: "Williamsburg", RoomType: "Private room", MinimumNights: 3,
	})
}

func getJSON(t *testing.T, rawURL string, wantStatus int, dst any) {
	t.Helper()
	resp, err := http.Get(rawURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantStatus, resp.StatusCode)
	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]any
	getJSON(t, ts.URL+"/health", http.StatusOK, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(6), body["listings"])
}

func TestLayoutEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var layout models.Layout
	getJSON(t, ts.URL+"/api/layout", http.StatusOK, &layout)
	assert.Equal(t, services.DashboardTitle, layout.Title)
	assert.Equal(t, 40, layout.Price.Min)
	assert.Equal(t, 150, layout.Price.Max)
	assert.Equal(t, []string{"Williamsburg", "Harlem", "Astoria"}, layout.Neighbourhoods.Options)
}

func TestMapView(t *testing.T) {
	ts := newTestServer(t)

	var resp struct {
		Output string            `json:"output"`
		Rows   int               `json:"rows"`
		Figure charts.MapFigure `json:"figure"`
	}
	getJSON(t, ts.URL+"/api/views/interactive-map?"+williamsburgQuery().Encode(), http.StatusOK, &resp)

	assert.Equal(t, "interactive-map", resp.Output)
	assert.Equal(t, 2, resp.Rows)
	require.Len(t, resp.Figure.Markers, 2)
	assert.Equal(t, charts.MapZoom, resp.Figure.Zoom)
}

func TestChartViews(t *testing.T) {
	ts := newTestServer(t)

	var donut struct {
		Figure charts.ChartFigure `json:"figure"`
	}
	getJSON(t, ts.URL+"/api/views/listings-by-neighbourhood-group?"+williamsburgQuery().Encode(), http.StatusOK, &donut)
	assert.Equal(t, charts.DonutTitle, donut.Figure.Title)
	assert.Equal(t, 2, donut.Figure.Categories)

	var bar struct {
		Figure charts.ChartFigure `json:"figure"`
	}
	getJSON(t, ts.URL+"/api/views/avg-price-by-room-type?neighbourhood=Nowhere", http.StatusOK, &bar)
	assert.Equal(t, 0, bar.Figure.Categories)
	assert.Contains(t, bar.Figure.SVG, "<svg")
}

func TestViewErrors(t *testing.T) {
	ts := newTestServer(t)

	var body errorResponse
	getJSON(t, ts.URL+"/api/views/heatmap", http.StatusNotFound, &body)
	assert.Contains(t, body.Error, "unknown output")

	getJSON(t, ts.URL+"/api/views/interactive-map?price_min=200&price_max=100", http.StatusBadRequest, &body)
	assert.Contains(t, body.Error, "invalid filter selection")

	getJSON(t, ts.URL+"/api/views/interactive-map?minimum_nights=many", http.StatusBadRequest, &body)
	assert.Contains(t, body.Error, "minimum_nights")
}

func TestPage(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/?neighbourhood=Harlem")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	html := string(body)
	assert.Contains(t, html, "<title>"+services.DashboardTitle+"</title>")
	assert.Contains(t, html, `<option value="Harlem" selected>`)
	assert.Contains(t, html, `id="interactive-map"`)
	assert.Contains(t, html, "dashboard-ready")
}

func TestPagePriceSliderKeepsDatasetBounds(t *testing.T) {
	listings := testListings()
	listings[0].Price = 45
	listings[1].Price = 151
	ts := newTestServerWith(t, listings)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	html := string(body)

	// 151-45 is not a multiple of the step, so the top thumb stop is 145
	assert.Contains(t, html, `id="price-high" min="45" max="151" step="10" value="151" data-bound="151"`)
	assert.Contains(t, html, `id="price-low" min="45" max="151" step="10" value="45" data-bound="45"`)
	assert.Contains(t, html, "v + step > bound) return bound")

	var view struct {
		Rows int `json:"rows"`
	}
	q := url.Values{"price_min": {"45"}, "price_max": {"151"}, "neighbourhood": {"Williamsburg"},
		"room_type": {"Private room"}, "minimum_nights": {"4"}}
	getJSON(t, ts.URL+"/api/views/interactive-map?"+q.Encode(), http.StatusOK, &view)
	assert.Equal(t, 3, view.Rows, "the priciest listing stays selected at the top bound")
}

func TestExport(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/export.xlsx?" + williamsburgQuery().Encode())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, exportContentType, resp.Header.Get("Content-Type"))

	xl, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer xl.Close()

	rows, err := xl.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, models.ColID, rows[0][0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "2", rows[2][0])
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	getJSON(t, ts.URL+"/api/layout", http.StatusOK, nil)
	getJSON(t, ts.URL+"/api/views/interactive-map", http.StatusOK, nil)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `dashboard_http_requests_total{method="GET",route="/api/layout",status="200"}`)
	assert.Contains(t, text, `dashboard_derivation_rows{output="interactive-map"}`)
}

func TestSelectionFromQuery(t *testing.T) {
	base := models.FilterSelection{PriceMin: 10, PriceMax: 500, Neighbourhood: "Harlem", RoomType: "Private room", MinimumNights: 1}

	sel, err := SelectionFromQuery(url.Values{}, base)
	require.NoError(t, err)
	assert.Equal(t, base, sel)

	sel, err = SelectionFromQuery(url.Values{"price_max": {"90"}, "room_type": {"Shared room"}}, base)
	require.NoError(t, err)
	assert.Equal(t, 90, sel.PriceMax)
	assert.Equal(t, "Shared room", sel.RoomType)
	assert.Equal(t, "Harlem", sel.Neighbourhood)

	sel, err = SelectionFromQuery(url.Values{"price_min": {"600"}}, base)
	assert.ErrorIs(t, err, services.ErrInvalidSelection)
	assert.Equal(t, base, sel)

	roundTrip, err := SelectionFromQuery(SelectionQuery(base), models.FilterSelection{})
	require.NoError(t, err)
	assert.Equal(t, base, roundTrip)
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]json.RawMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]json.RawMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func stringField(t *testing.T, msg map[string]json.RawMessage, key string) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(msg[key], &s))
	return s
}

func TestWebsocketProtocol(t *testing.T) {
	ts := newTestServer(t)
	conn := dialWS(t, ts)

	sel := models.FilterSelection{
		PriceMin: 50, PriceMax: 150, Neighbourhood: "Williamsburg", RoomType: "Private room", MinimumNights: 3,
	}
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgInit, Selection: &sel}))

	var got []string
	for i := 0; i < 3; i++ {
		msg := readMessage(t, conn)
		require.Equal(t, MsgOutput, stringField(t, msg, "type"))
		got = append(got, stringField(t, msg, "output"))
	}
	assert.Equal(t, []string{"interactive-map", "listings-by-neighbourhood-group", "avg-price-by-room-type"}, got)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: MsgHeartbeat}))

	require.NoError(t, conn.WriteJSON(ClientMessage{
		Type: MsgInput, Input: services.InputNeighbourhood, Value: json.RawMessage(`"Harlem"`),
	}))
	first := readMessage(t, conn)
	second := readMessage(t, conn)
	assert.Equal(t, "interactive-map", stringField(t, first, "output"))
	assert.Equal(t, "avg-price-by-room-type", stringField(t, second, "output"))

	var rows int
	require.NoError(t, json.Unmarshal(first["rows"], &rows))
	assert.Equal(t, 1, rows)

	require.NoError(t, conn.WriteJSON(ClientMessage{
		Type: MsgInput, Input: services.InputPrice, Value: json.RawMessage(`[300, 100]`),
	}))
	errMsg := readMessage(t, conn)
	assert.Equal(t, MsgError, stringField(t, errMsg, "type"))
	assert.Contains(t, stringField(t, errMsg, "error"), "invalid filter selection")

	// the failed input left the selection alone
	require.NoError(t, conn.WriteJSON(ClientMessage{
		Type: MsgInput, Input: services.InputReviews, Value: json.RawMessage(`"5"`),
	}))
	after := readMessage(t, conn)
	require.Equal(t, MsgOutput, stringField(t, after, "type"))
	require.NoError(t, json.Unmarshal(after["rows"], &rows))
	assert.Equal(t, 1, rows)
}

func TestWebsocketRejectsForeignOrigin(t *testing.T) {
	ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": {"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
