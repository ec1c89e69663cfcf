package httpctrl

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/cc0ffee/greenhouse-sim/internal/testutil"
)

func dialWS(t *testing.T, f *testutil.FakeSimulationService) *websocket.Conn {
	t.Helper()
	srv := New(f, ":0", "default", nil)
	ts := httptest.NewServer(srv.srv.Handler)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/simulate/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWS_StreamsRecordsThenSummary(t *testing.T) {
	f := testutil.NewFakeSimulationService()
	conn := dialWS(t, f)

	if err := conn.WriteJSON(map[string]any{
		"city": "Chicago", "start_date": "2024-05-01", "end_date": "2024-05-01", "unit": "f",
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var msgs []wsMessage
	for range 3 {
		var m wsMessage
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read: %v", err)
		}
		msgs = append(msgs, m)
	}

	if msgs[0].Type != "record" || msgs[1].Type != "record" || msgs[2].Type != "summary" {
		t.Fatalf("unexpected message types %+v", msgs)
	}
	if msgs[0].RunID != "run-1" {
		t.Fatalf("expected run id, got %q", msgs[0].RunID)
	}
	if msgs[0].Data["External Temperature (°F)"] != 50.0 {
		t.Fatalf("expected fahrenheit value, got %v", msgs[0].Data)
	}
	if msgs[2].Summary == nil || msgs[2].Summary.Count != 2 {
		t.Fatalf("unexpected summary %+v", msgs[2].Summary)
	}
	if calls := f.Calls(); len(calls) != 1 || calls[0].City != "Chicago" {
		t.Fatalf("unexpected calls %+v", calls)
	}
}

func TestWS_ErrorFrame(t *testing.T) {
	f := testutil.NewFakeSimulationService()
	f.Err = errors.New("boom")
	conn := dialWS(t, f)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	var m wsMessage
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read: %v", err)
	}
	if m.Type != "error" || m.Error != "invalid json" {
		t.Fatalf("expected invalid json error, got %+v", m)
	}

	if err := conn.WriteJSON(map[string]any{"city": "Chicago"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read: %v", err)
	}
	if m.Type != "error" || m.Error != "boom" {
		t.Fatalf("expected service error, got %+v", m)
	}
}
