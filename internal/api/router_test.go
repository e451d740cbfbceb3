// Packetsim - Live DDoS Packet Classification Simulator
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/packetsim

package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/packetsim/internal/classifier"
	"github.com/tomtom215/packetsim/internal/events"
	"github.com/tomtom215/packetsim/internal/export"
	"github.com/tomtom215/packetsim/internal/middleware"
	"github.com/tomtom215/packetsim/internal/models"
	"github.com/tomtom215/packetsim/internal/simulation"
	"github.com/tomtom215/packetsim/internal/uploads"
	ws "github.com/tomtom215/packetsim/internal/websocket"
)

type identityTransform struct{}

func (identityTransform) Transform(ds *models.Dataset) ([][]float64, error) {
	return ds.Rows, nil
}

// markerClassifier predicts DDoS when the first feature is set, which the
// fixture uses to encode the true label.
var markerClassifier = classifier.Func(func(_ context.Context, row []float64) (string, error) {
	if row[0] > 0.5 {
		return "DDoS", nil
	}
	return "BENIGN", nil
})

func fixtureCSV(rows int) string {
	var b strings.Builder
	b.WriteString("Marker,Total Fwd Packets, Label\n")
	for i := 0; i < rows; i++ {
		if i%3 == 0 {
			fmt.Fprintf(&b, "1,%d,DDoS\n", 100+i)
		} else {
			fmt.Fprintf(&b, "0,%d,BENIGN\n", i)
		}
	}
	return b.String()
}

type testStack struct {
	server *httptest.Server
	hub    *ws.Hub
}

// setupTestStack wires the real catalog, manager, bus, forwarder and hub
// behind the router.
func setupTestStack(t *testing.T) *testStack {
	t.Helper()

	store, err := uploads.OpenStore(uploads.StoreConfig{InMemory: true})
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	bus := events.NewBus(events.DefaultConfig())
	t.Cleanup(func() { _ = bus.Close() })

	cfg := simulation.DefaultManagerConfig()
	cfg.Engine.Throttle = 0

	var manager *simulation.Manager
	catalog := uploads.NewCatalog(store, uploads.CatalogConfig{
		MaxUploadBytes: 1 << 20,
		PacketRange:    func(rows int) models.PacketRange { return manager.PacketRange(rows) },
	})
	manager = simulation.NewManager(cfg, catalog, identityTransform{}, markerClassifier, bus)
	t.Cleanup(manager.Shutdown)

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = hub.RunWithContext(ctx) }()
	go func() { _ = ws.NewForwarder(hub, bus).Serve(ctx) }()
	// Let the forwarder subscribe before any run publishes.
	time.Sleep(50 * time.Millisecond)

	h := NewHandler(manager, catalog, markerClassifier, hub, HandlerConfig{
		CORSOrigins:    []string{"*"},
		MaxUploadBytes: 1 << 20,
	})
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	server := httptest.NewServer(NewRouter(h, NewChiMiddleware(mwCfg)).Setup())
	t.Cleanup(server.Close)

	return &testStack{server: server, hub: hub}
}

func (s *testStack) do(t *testing.T, method, path, contentType string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.server.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeData(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	var env struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestRouter_EndToEndRun(t *testing.T) {
	stack := setupTestStack(t)

	// Subscribe to the live feed first so no event is missed.
	wsURL := "ws" + strings.TrimPrefix(stack.server.URL, "http") + "/api/v1/ws"
	conn, wsResp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": []string{"http://localhost:3000"}})
	if wsResp != nil && wsResp.Body != nil {
		defer wsResp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()
	deadline := time.Now().Add(time.Second)
	for stack.hub.GetClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("WebSocket client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Upload
	body, contentType := multipartBody(t, nil, "file", "fixture.csv", fixtureCSV(30))
	resp := stack.do(t, http.MethodPost, "/api/v1/datasets", contentType, body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload status = %d", resp.StatusCode)
	}
	if resp.Header.Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
	var ds models.DatasetInfo
	decodeData(t, resp, &ds)
	if ds.Rows != 30 || ds.PacketRange != (models.PacketRange{Min: 10, Max: 30, Default: 30}) {
		t.Fatalf("dataset = %+v", ds)
	}

	// Start
	resp = stack.do(t, http.MethodPost, "/api/v1/runs", "application/json",
		strings.NewReader(fmt.Sprintf(`{"dataset_id":%q,"packet_count":12}`, ds.ID)))
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("start status = %d", resp.StatusCode)
	}
	var run models.RunInfo
	decodeData(t, resp, &run)
	if run.PacketCount != 12 {
		t.Fatalf("PacketCount = %d, want 12", run.PacketCount)
	}

	// Stream
	packets := 0
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg ws.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON() error = %v after %d packets", err, packets)
		}
		if msg.RunID != run.ID {
			t.Fatalf("message for run %q", msg.RunID)
		}
		if msg.Type == ws.MessageTypePacket {
			packets++
			data := msg.Data.(map[string]interface{})
			record := data["record"].(map[string]interface{})
			if int(record["index"].(float64)) != packets {
				t.Fatalf("packet %d arrived as index %v", packets, record["index"])
			}
		}
		if msg.Type == ws.MessageTypeRunFinished {
			break
		}
	}
	if packets != 12 {
		t.Errorf("streamed %d packets, want 12", packets)
	}

	// Final state
	resp = stack.do(t, http.MethodGet, "/api/v1/runs/"+run.ID, "", nil)
	decodeData(t, resp, &run)
	if run.Status != models.RunStatusCompleted {
		t.Fatalf("Status = %s (%s)", run.Status, run.Error)
	}
	if run.Snapshot.Normal+run.Snapshot.Attack != 12 || run.Snapshot.Processed != 12 {
		t.Errorf("Snapshot = %+v", run.Snapshot)
	}
	if run.Summary != models.CompletionSummary(run.Snapshot.Normal, run.Snapshot.Attack) {
		t.Errorf("Summary = %q", run.Summary)
	}

	// Export
	resp = stack.do(t, http.MethodGet, "/api/v1/runs/"+run.ID+"/export", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d", resp.StatusCode)
	}
	records, err := export.Parse(resp.Body)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(records) != 12 {
		t.Fatalf("exported %d records", len(records))
	}
	attacks := 0
	for i, rec := range records {
		if rec.Index != i+1 || rec.DestinationIP != "192.168.1.1" || rec.Prediction != rec.TrueLabel {
			t.Errorf("record %d = %+v", i, rec)
		}
		if rec.Status == models.OutcomeAttack {
			attacks++
		}
	}
	if attacks != run.Snapshot.Attack {
		t.Errorf("exported %d attacks, snapshot says %d", attacks, run.Snapshot.Attack)
	}

	// Metrics
	resp = stack.do(t, http.MethodGet, "/metrics", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d", resp.StatusCode)
	}
}

func TestRouter_UnknownDataset(t *testing.T) {
	stack := setupTestStack(t)

	resp := stack.do(t, http.MethodPost, "/api/v1/runs", "application/json", strings.NewReader(`{"dataset_id":"nope"}`))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRouter_WebSocketOriginRejected(t *testing.T) {
	stack := setupTestStack(t)

	wsURL := "ws" + strings.TrimPrefix(stack.server.URL, "http") + "/api/v1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err == nil {
		_ = conn.Close()
		t.Fatal("dial without Origin succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("response = %v, want 403", resp)
	}
}
