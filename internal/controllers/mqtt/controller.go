package mqttctrl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Agrid-Dev/rcdemand/internal/ports"
	"github.com/Agrid-Dev/rcdemand/internal/report"
	"github.com/Agrid-Dev/rcdemand/internal/simulation"
)

var (
	ErrNotConnected   = errors.New("mqtt: not connected")
	ErrPublishTimeout = errors.New("mqtt: publish timed out")
)

type Config struct {
	// MQTT connection
	BrokerURL string
	ClientID  string

	// Topics
	BaseTopic string

	// Behavior
	QoS            byte
	RetainSummary  bool
	PublishTimeout time.Duration

	Username string
	Password string
}

// Controller publishes building summaries under <base>/buildings/<id>/ and
// answers republish requests sent to <base>/get/summary.
type Controller struct {
	svc ports.ResultsService
	cfg Config

	client mqtt.Client
}

func New(svc ports.ResultsService, cfg Config) (*Controller, error) {
	// ---- defaults ----

	if svc == nil {
		return nil, errors.New("mqtt: results service is required")
	}
	if cfg.BrokerURL == "" {
		cfg.BrokerURL = "tcp://localhost:1883"
	}
	if cfg.BaseTopic == "" {
		cfg.BaseTopic = "rcdemand"
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "rcdemand-publisher"
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	if cfg.QoS > 1 {
		return nil, errors.New("mqtt: QoS must be 0 or 1")
	}
	return &Controller{
		svc: svc,
		cfg: cfg,
	}, nil
}

// Connect opens the broker connection. It is called by Run, or directly when
// the controller is only used as a simulation sink.
func (c *Controller) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(c.cfg.BrokerURL).
		SetClientID(c.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(2 * time.Second)

	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
		opts.SetPassword(c.cfg.Password)
	}

	// Subscribe when connected/reconnected.
	opts.OnConnect = func(cl mqtt.Client) {
		token := cl.Subscribe(c.topic("get/+"), c.cfg.QoS, c.onMessage)
		token.Wait()
	}

	c.client = mqtt.NewClient(opts)
	tok := c.client.Connect()
	select {
	case <-tok.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

func (c *Controller) Close() {
	if c.client != nil {
		c.client.Disconnect(250)
	}
}

// Run connects, publishes every known summary once and serves republish
// requests until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	defer c.Close()

	if err := c.PublishAll(); err != nil {
		return err
	}
	<-ctx.Done()
	return ctx.Err()
}

func (c *Controller) PublishAll() error {
	for _, sum := range c.svc.Summaries() {
		if err := c.publishSummary(sum); err != nil {
			return err
		}
	}
	return nil
}

// Publish implements simulation.Sink.
func (c *Controller) Publish(ctx context.Context, res simulation.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.publishSummary(res.Summary)
}

func (c *Controller) publishSummary(sum report.Summary) error {
	if err := c.publish(c.buildingTopic(sum.BuildingID, "summary"), sum); err != nil {
		return err
	}
	if sum.Failure == nil {
		return nil
	}
	return c.publish(c.buildingTopic(sum.BuildingID, "failure"), sum.Failure)
}

func (c *Controller) publish(topic string, v any) error {
	if c.client == nil {
		return ErrNotConnected
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("mqtt: encode %s: %w", topic, err)
	}
	tok := c.client.Publish(topic, c.cfg.QoS, c.cfg.RetainSummary, b)
	if !tok.WaitTimeout(c.cfg.PublishTimeout) {
		return fmt.Errorf("%w: %s", ErrPublishTimeout, topic)
	}
	return tok.Error()
}

// Request payload format: {"value": "<building id>"}
type valueReq[T any] struct {
	Value *T `json:"value"`
}

func (c *Controller) onMessage(_ mqtt.Client, msg mqtt.Message) {
	// topic format: <base>/get/<what>
	t := msg.Topic()
	prefix := strings.TrimRight(c.cfg.BaseTopic, "/") + "/get/"
	if !strings.HasPrefix(t, prefix) {
		return
	}

	switch strings.TrimPrefix(t, prefix) {
	case "summary":
		id, err := decodeValueStrict[string](msg.Payload())
		if err != nil {
			return
		}
		sum, ok := c.svc.Summary(id)
		if !ok {
			return
		}
		_ = c.publishSummary(sum)

	case "all":
		_ = c.PublishAll()
	}
}

func (c *Controller) topic(suffix string) string {
	return strings.TrimRight(c.cfg.BaseTopic, "/") + "/" + suffix
}

func (c *Controller) buildingTopic(id, suffix string) string {
	return c.topic("buildings/" + id + "/" + suffix)
}

func decodeValueStrict[T any](b []byte) (T, error) {
	var zero T
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	var req valueReq[T]
	if err := dec.Decode(&req); err != nil {
		return zero, err
	}
	if req.Value == nil {
		return zero, errors.New("missing field 'value'")
	}
	return *req.Value, nil
}
