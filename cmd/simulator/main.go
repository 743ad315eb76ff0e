package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-maintenance/internal/maintenance"
	"github.com/ukydev/fleet-maintenance/internal/models"
)

var authToken string

var httpClient = &http.Client{Timeout: 10 * time.Second}

// VehicleState is one simulated vehicle's running odometer.
type VehicleState struct {
	VehicleID string
	Odometer  int
	DailyPace float64
}

// readingSink delivers an odometer observation somewhere.
type readingSink interface {
	Send(vehicleID string, distance int, at time.Time) error
}

func authorizedPost(url string, contentType string, body *bytes.Buffer) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	return httpClient.Do(req)
}

var catalogue = []struct{ Make, Model string }{
	{"Toyota", "Corolla"},
	{"Honda", "Civic"},
	{"Ford", "Focus"},
	{"Subaru", "Outback"},
	{"Mazda", "CX-5"},
	{"Volkswagen", "Golf"},
}

func createVehicle(apiURL string, name string, rng *rand.Rand) (string, error) {
	pick := catalogue[rng.Intn(len(catalogue))]
	registration := time.Now().AddDate(0, 1+rng.Intn(11), 0)
	vehicle := maintenance.VehicleInput{
		Name:                  name,
		Make:                  pick.Make,
		Model:                 pick.Model,
		Year:                  2012 + rng.Intn(12),
		DistanceUnit:          models.UnitMiles,
		RegistrationExpiresAt: &registration,
	}

	data, err := json.Marshal(vehicle)
	if err != nil {
		return "", fmt.Errorf("failed to marshal vehicle: %w", err)
	}

	resp, err := authorizedPost(apiURL+"/vehicles", "application/json", bytes.NewBuffer(data))
	if err != nil {
		return "", fmt.Errorf("failed to create vehicle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("vehicle creation failed with status: %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	createdVehicleID, ok := result["id"].(string)
	if !ok {
		return "", fmt.Errorf("invalid vehicle ID in response")
	}

	log.WithFields(log.Fields{
		"vehicle_id": createdVehicleID,
		"make":       pick.Make,
		"model":      pick.Model,
	}).Info("Created vehicle")

	return createdVehicleID, nil
}

// httpSink posts readings to the API.
type httpSink struct {
	apiURL string
}

func (s httpSink) Send(vehicleID string, distance int, at time.Time) error {
	data, err := json.Marshal(map[string]interface{}{
		"distance":    distance,
		"recorded_at": at,
		"origin":      models.OriginManual,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reading: %w", err)
	}
	resp, err := authorizedPost(s.apiURL+"/vehicles/"+vehicleID+"/readings", "application/json", bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to send reading: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("reading rejected with status: %d", resp.StatusCode)
	}
	return nil
}

// mqttSink publishes readings the way a telematics unit would.
type mqttSink struct {
	client mqtt.Client
}

func telemetryPayload(distance int, at time.Time) ([]byte, error) {
	return json.Marshal(models.OdometerTelemetry{Distance: &distance, RecordedAt: &at})
}

func (s mqttSink) Send(vehicleID string, distance int, at time.Time) error {
	payload, err := telemetryPayload(distance, at)
	if err != nil {
		return err
	}
	token := s.client.Publish("vehicles/"+vehicleID+"/odometer", 1, false, payload)
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("publish timed out")
	}
	return token.Error()
}

// dailyDistance draws one day's driving: about one day in five the car
// stays parked, otherwise pace with +/-30% noise.
func dailyDistance(pace float64, rng *rand.Rand) int {
	if rng.Float64() < 0.2 {
		return 0
	}
	d := pace * (0.7 + rng.Float64()*0.6)
	return int(d + 0.5)
}

// backfill records one reading per day for the days before now.
func backfill(sink readingSink, s *VehicleState, days int, now time.Time, rng *rand.Rand) int {
	sent := 0
	for d := days; d >= 1; d-- {
		s.Odometer += dailyDistance(s.DailyPace, rng)
		if err := sink.Send(s.VehicleID, s.Odometer, now.AddDate(0, 0, -d)); err != nil {
			log.WithError(err).WithField("vehicle_id", s.VehicleID).Error("Failed to backfill reading")
			continue
		}
		sent++
	}
	return sent
}

func simulateVehicle(sink readingSink, s *VehicleState, interval time.Duration, rng *rand.Rand) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		s.Odometer += dailyDistance(s.DailyPace, rng)
		if err := sink.Send(s.VehicleID, s.Odometer, time.Now()); err != nil {
			log.WithError(err).WithField("vehicle_id", s.VehicleID).Error("Failed to send reading")
			continue
		}
		log.WithFields(log.Fields{"vehicle_id": s.VehicleID, "odometer": s.Odometer}).Info("Sent reading")
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func main() {
	// Optional JWT for protected API
	authToken = os.Getenv("SIM_AUTH_TOKEN")

	fleetSize := envInt("FLEET_SIZE", 3)
	days := envInt("SIM_DAYS", 90)
	interval := time.Duration(envInt("SIM_TICK_SECONDS", 10)) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}

	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var live readingSink = httpSink{apiURL: apiURL}
	if broker := os.Getenv("SIM_MQTT_BROKER"); broker != "" {
		client := mqtt.NewClient(mqtt.NewClientOptions().AddBroker(broker).SetClientID("fleet-maintenance-simulator"))
		if token := client.Connect(); token.WaitTimeout(10*time.Second) && token.Error() == nil {
			live = mqttSink{client: client}
			defer client.Disconnect(250)
		} else {
			log.WithField("broker", broker).Warn("MQTT broker unreachable, sending readings over HTTP")
		}
	}

	log.WithFields(log.Fields{
		"fleet_size": fleetSize,
		"api_url":    apiURL,
		"days":       days,
		"interval":   interval,
	}).Info("Starting odometer simulation")

	states := make([]*VehicleState, 0, fleetSize)
	for i := 0; i < fleetSize; i++ {
		vehicleID, err := createVehicle(apiURL, fmt.Sprintf("Vehicle %d", i+1), rng)
		if err != nil {
			log.WithError(err).Error("Failed to create vehicle")
			continue
		}
		state := &VehicleState{
			VehicleID: vehicleID,
			Odometer:  10000 + rng.Intn(50000),
			DailyPace: 15 + rng.Float64()*45,
		}
		sent := backfill(httpSink{apiURL: apiURL}, state, days, time.Now(), rng)
		log.WithFields(log.Fields{"vehicle_id": vehicleID, "readings": sent}).Info("Backfilled readings")
		states = append(states, state)
	}

	log.WithField("created_vehicles", len(states)).Info("Vehicle creation completed")
	if len(states) == 0 {
		log.Error("No vehicles created. Ensure SIM_AUTH_TOKEN is valid and API is reachable. Exiting.")
		return
	}

	for _, s := range states {
		go simulateVehicle(live, s, interval, rand.New(rand.NewSource(rng.Int63())))
	}

	log.Info("Odometer simulation started")
	select {} // Block forever
}
