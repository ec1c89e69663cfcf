package mqttctrl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/cc0ffee/greenhouse-sim/internal/ports"
	"github.com/cc0ffee/greenhouse-sim/internal/report"
	"github.com/cc0ffee/greenhouse-sim/internal/simulation"
)

type Config struct {
	// Identity
	SiteID string

	// MQTT connection
	BrokerURL string
	ClientID  string

	// Topics
	BaseTopic string

	// Behavior
	QoS             byte
	RetainLatest    bool
	PublishInterval time.Duration
	RequestTimeout  time.Duration

	Username string
	Password string
}

type Controller struct {
	svc ports.SimulationService
	cfg Config

	client mqtt.Client
	ctx    context.Context

	lastRunID string
}

func New(svc ports.SimulationService, cfg Config) (*Controller, error) {
	// ---- defaults ----

	if cfg.BrokerURL == "" {
		cfg.BrokerURL = "tcp://localhost:1883"
	}

	if cfg.SiteID == "" {
		return nil, errors.New("mqtt: SiteID is required")
	}
	if cfg.BaseTopic == "" {
		cfg.BaseTopic = "greenhouse/" + cfg.SiteID
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "greenhouse-sim-" + cfg.SiteID
	}
	if cfg.PublishInterval <= 0 {
		cfg.PublishInterval = 1 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 2 * time.Minute
	}
	if cfg.QoS > 1 {
		return nil, errors.New("mqtt: QoS must be 0 or 1")
	}
	return &Controller{
		svc: svc,
		cfg: cfg,
		ctx: context.Background(),
	}, nil
}

func (c *Controller) Run(ctx context.Context) error {
	c.ctx = ctx

	opts := mqtt.NewClientOptions().
		AddBroker(c.cfg.BrokerURL).
		SetClientID(c.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second).
		SetOrderMatters(false)

	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
		opts.SetPassword(c.cfg.Password)
	}

	// Subscribe when connected/reconnected.
	opts.OnConnect = func(cl mqtt.Client) {
		token := cl.Subscribe(c.topic("simulate"), c.cfg.QoS, c.onMessage)
		token.Wait()
		if err := token.Error(); err != nil {
			log.Printf("mqtt: subscribe: %v", err)
		}
	}

	c.client = mqtt.NewClient(opts)
	tok := c.client.Connect()
	tok.Wait()
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}

	// Publish loop: publish the latest summary on interval, only when a new run completed.
	ticker := time.NewTicker(c.cfg.PublishInterval)
	defer ticker.Stop()

	c.publishLatest()

	for {
		select {
		case <-ctx.Done():
			c.client.Disconnect(250)
			return ctx.Err()

		case <-ticker.C:
			c.publishLatest()
		}
	}
}

// publishLatest reports whether a new summary was published.
func (c *Controller) publishLatest() bool {
	res, ok := c.svc.Latest()
	if !ok || res.RunID == c.lastRunID {
		return false
	}
	b, _ := json.Marshal(latestDTO{
		RunID:       res.RunID,
		SiteID:      res.SiteID,
		City:        res.City,
		StartDate:   res.StartDate,
		EndDate:     res.EndDate,
		Summary:     res.Summary,
		CompletedAt: res.CompletedAt,
	})
	c.client.Publish(c.topic("latest"), c.cfg.QoS, c.cfg.RetainLatest, b)
	c.lastRunID = res.RunID
	return true
}

type latestDTO struct {
	RunID       string         `json:"run_id"`
	SiteID      string         `json:"site_id"`
	City        string         `json:"city"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	Summary     report.Summary `json:"summary"`
	CompletedAt time.Time      `json:"completed_at"`
}

type recordDTO struct {
	Timestamp  string  `json:"timestamp"`
	Mode       string  `json:"mode"`
	InternalC  float64 `json:"internal_temperature_c"`
	ExternalC  float64 `json:"external_temperature_c"`
	HeatInputW float64 `json:"heat_input_w"`
}

type resultDTO struct {
	ID      string         `json:"id,omitempty"`
	RunID   string         `json:"run_id"`
	City    string         `json:"city"`
	Data    []recordDTO    `json:"data"`
	Summary report.Summary `json:"summary"`
}

type errorDTO struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
}

// Command payload format: {"id": "...", "city": ..., "start_date": ..., "end_date": ...}
type simulateReq struct {
	ID string `json:"id"`
	simulation.Request
}

func (c *Controller) onMessage(_ mqtt.Client, msg mqtt.Message) {
	// topic format: <base>/simulate
	if msg.Topic() != c.topic("simulate") {
		return
	}

	req, err := decodeRequestStrict(msg.Payload())
	if err != nil {
		c.publishError(req.ID, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.ctx, c.cfg.RequestTimeout)
	defer cancel()
	res, err := c.svc.Simulate(ctx, req.Request)
	if err != nil {
		c.publishError(req.ID, err)
		return
	}

	dto := resultDTO{ID: req.ID, RunID: res.RunID, City: res.City, Summary: res.Summary}
	dto.Data = make([]recordDTO, len(res.Records))
	for i, r := range res.Records {
		dto.Data[i] = recordDTO{
			Timestamp:  r.Timestamp.Format(time.RFC3339),
			Mode:       r.Mode.String(),
			InternalC:  r.InternalTemperature,
			ExternalC:  r.ExternalTemperature,
			HeatInputW: r.HeatInput,
		}
	}
	b, _ := json.Marshal(dto)
	c.client.Publish(c.topic("result"), c.cfg.QoS, false, b)
}

func (c *Controller) publishError(id string, err error) {
	log.Printf("mqtt: simulate request failed: %v", err)
	b, _ := json.Marshal(errorDTO{ID: id, Error: err.Error()})
	c.client.Publish(c.topic("error"), c.cfg.QoS, false, b)
}

func (c *Controller) topic(suffix string) string {
	return strings.TrimRight(c.cfg.BaseTopic, "/") + "/" + suffix
}

func decodeRequestStrict(b []byte) (simulateReq, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var req simulateReq
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	if strings.TrimSpace(req.City) == "" {
		return req, errors.New("missing field 'city'")
	}
	return req, nil
}
