package httpctrl

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/cc0ffee/greenhouse-sim/internal/report"
)

// wsMessage is one frame of the streaming protocol: a "record" per
// simulated hour, then a "summary", or a single "error".
type wsMessage struct {
	Type    string          `json:"type"`
	RunID   string          `json:"run_id,omitempty"`
	Data    recordDTO       `json:"data,omitempty"`
	Summary *report.Summary `json:"summary,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// handleWS reads simulation requests until the client closes the socket.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		var body simulateBody
		if err := conn.ReadJSON(&body); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				if err := conn.WriteJSON(wsMessage{Type: "error", Error: "invalid json"}); err != nil {
					return
				}
				continue
			}
			return
		}
		if err := s.streamRun(r, conn, body); err != nil {
			log.Printf("ws: write failed: %v", err)
			return
		}
	}
}

func (s *Server) streamRun(r *http.Request, conn *websocket.Conn, body simulateBody) error {
	fahrenheit, err := parseUnit(body.Unit)
	if err != nil {
		return conn.WriteJSON(wsMessage{Type: "error", Error: err.Error()})
	}
	res, err := s.svc.Simulate(r.Context(), body.Request)
	if err != nil {
		return conn.WriteJSON(wsMessage{Type: "error", Error: err.Error()})
	}
	for _, rec := range res.Records {
		if err := conn.WriteJSON(wsMessage{Type: "record", RunID: res.RunID, Data: toRecordDTO(rec, fahrenheit)}); err != nil {
			return err
		}
	}
	summary := res.Summary
	return conn.WriteJSON(wsMessage{Type: "summary", RunID: res.RunID, Summary: &summary})
}

// checkOrigin accepts configured origins; without configuration only
// same-host (or origin-less) clients may connect.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || s.originAllowed(origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
