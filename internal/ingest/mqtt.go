// Package ingest receives odometer telemetry published by vehicle telematics
// units over MQTT and records it as readings.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-maintenance/internal/metrics"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

var (
	ErrBadTopic   = errors.New("topic does not name a vehicle")
	ErrBadPayload = errors.New("malformed odometer payload")
)

// ReadingRecorder stores an odometer observation.
type ReadingRecorder interface {
	RecordReading(ctx context.Context, vehicleID string, distance int, origin models.ReadingOrigin, at time.Time) (*models.OdometerReading, error)
}

// Config holds the broker connection settings.
type Config struct {
	Broker   string
	Topic    string
	ClientID string
}

// Subscriber records every odometer message published on its topic.
type Subscriber struct {
	cfg      Config
	client   mqtt.Client
	recorder ReadingRecorder
	metrics  *metrics.Metrics
	log      log.FieldLogger
	now      func() time.Time
	timeout  time.Duration
}

// NewSubscriber creates a subscriber; Start connects it.
func NewSubscriber(cfg Config, recorder ReadingRecorder, m *metrics.Metrics, logger log.FieldLogger) *Subscriber {
	s := &Subscriber{
		cfg:      cfg,
		recorder: recorder,
		metrics:  m,
		log:      logger.WithField("component", "ingest"),
		now:      time.Now,
		timeout:  10 * time.Second,
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetOrderMatters(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			s.log.WithError(err).Warn("MQTT connection lost")
		}).
		SetOnConnectHandler(func(c mqtt.Client) {
			// resubscribe after every reconnect
			if err := s.subscribe(c); err != nil {
				s.log.WithError(err).Error("MQTT subscribe failed")
			}
		})
	s.client = mqtt.NewClient(opts)
	return s
}

// Start connects to the broker. Subscription happens on connect.
func (s *Subscriber) Start() error {
	token := s.client.Connect()
	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("connecting to %s: timed out", s.cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connecting to %s: %w", s.cfg.Broker, err)
	}
	s.log.WithFields(log.Fields{"broker": s.cfg.Broker, "topic": s.cfg.Topic}).Info("MQTT ingest started")
	return nil
}

// Stop unsubscribes and disconnects.
func (s *Subscriber) Stop() {
	if s.client.IsConnected() {
		s.client.Unsubscribe(s.cfg.Topic).WaitTimeout(s.timeout)
	}
	s.client.Disconnect(250)
}

func (s *Subscriber) subscribe(c mqtt.Client) error {
	token := c.Subscribe(s.cfg.Topic, 1, s.handleMessage)
	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("subscribing to %s: timed out", s.cfg.Topic)
	}
	return token.Error()
}

func (s *Subscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	logger := s.log.WithField("topic", msg.Topic())

	vehicleID, err := VehicleIDFromTopic(msg.Topic())
	if err != nil {
		s.drop(logger, "topic", err)
		return
	}
	distance, at, err := ParseTelemetry(msg.Payload(), s.now())
	if err != nil {
		s.drop(logger, "payload", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.recorder.RecordReading(ctx, vehicleID, distance, models.OriginTelemetry, at); err != nil {
		s.drop(logger.WithField("vehicle_id", vehicleID), "record", err)
		return
	}
	logger.WithFields(log.Fields{"vehicle_id": vehicleID, "distance": distance}).Debug("Ingested odometer telemetry")
}

func (s *Subscriber) drop(logger log.FieldLogger, reason string, err error) {
	s.metrics.IngestDropped.WithLabelValues(reason).Inc()
	logger.WithError(err).Warn("Dropped odometer message")
}

// VehicleIDFromTopic extracts the vehicle ID from vehicles/<id>/odometer.
func VehicleIDFromTopic(topic string) (string, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[1] == "" {
		return "", fmt.Errorf("%w: %q", ErrBadTopic, topic)
	}
	return parts[1], nil
}

// ParseTelemetry decodes an odometer payload. A payload without recorded_at
// is stamped with now.
func ParseTelemetry(payload []byte, now time.Time) (int, time.Time, error) {
	var t models.OdometerTelemetry
	if err := json.Unmarshal(payload, &t); err != nil {
		return 0, time.Time{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if t.Distance == nil {
		return 0, time.Time{}, fmt.Errorf("%w: distance is required", ErrBadPayload)
	}
	if *t.Distance < 0 {
		return 0, time.Time{}, fmt.Errorf("%w: negative distance", ErrBadPayload)
	}
	at := now
	if t.RecordedAt != nil {
		at = *t.RecordedAt
	}
	return *t.Distance, at, nil
}
