package device

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/dedocracia/dedocracia/internal/logger"
	"github.com/dedocracia/dedocracia/internal/models"
	"github.com/dedocracia/dedocracia/internal/services"
)

const (
	// Topics the gateway subscribes to, relative to the prefix
	topicFingerprint = "fingerprint"
	topicVote        = "vote"
	topicRequest     = "request"

	// Topics the gateway publishes to, relative to the prefix
	topicConfirm    = "confirm"
	topicCandidates = "candidates"
	topicResults    = "results"

	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	handleTimeout  = 30 * time.Second
)

// Config holds the broker connection settings
type Config struct {
	BrokerURL   string
	TopicPrefix string
	Username    string
	Password    string
}

// publisher is the slice of the MQTT client the gateway publishes through
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// fingerprintMessage is the registration payload sent by a scanning device
type fingerprintMessage struct {
	FingerprintID string `json:"fingerprint_id"`
}

// voteMessage is the ballot payload sent by a scanning device
type voteMessage struct {
	FingerprintID string `json:"fingerprint_id"`
	CandidateID   int    `json:"candidate_id"`
}

// Gateway bridges the scanning devices' MQTT channel to the election
// services. Inbound messages trigger registrations and votes; outcomes
// flow back out as confirmations via the services.DeviceNotifier port.
type Gateway struct {
	log        logger.Logger
	cfg        Config
	client     mqtt.Client
	pub        publisher
	voters     services.VoterServicer
	ballots    services.BallotServicer
	candidates services.CandidateServicer
	lifecycle  services.LifecycleServicer
}

// New creates a Gateway for the given broker. Connect must be called
// before the gateway handles traffic.
func New(
	log logger.Logger,
	cfg Config,
	voters services.VoterServicer,
	ballots services.BallotServicer,
	candidates services.CandidateServicer,
	lifecycle services.LifecycleServicer,
) *Gateway {
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = "election"
	}

	g := &Gateway{
		log:        log,
		cfg:        cfg,
		voters:     voters,
		ballots:    ballots,
		candidates: candidates,
		lifecycle:  lifecycle,
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID("dedocracia-" + uuid.NewString()[:8]).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(g.onConnect).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn("MQTT connection lost", "error", err)
		})
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	g.client = mqtt.NewClient(opts)
	g.pub = g.client
	return g
}

// Connect establishes the broker connection and subscribes to the
// device topics
func (g *Gateway) Connect() error {
	token := g.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("connecting to broker %s: timeout", g.cfg.BrokerURL)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connecting to broker %s: %w", g.cfg.BrokerURL, err)
	}
	return nil
}

// Close disconnects from the broker
func (g *Gateway) Close() {
	g.client.Disconnect(250)
}

// onConnect (re)subscribes to the inbound device topics. Runs on every
// reconnect so subscriptions survive broker restarts.
func (g *Gateway) onConnect(c mqtt.Client) {
	g.log.Info("Connected to MQTT broker", "broker", g.cfg.BrokerURL, "prefix", g.cfg.TopicPrefix)

	subscriptions := map[string]mqtt.MessageHandler{
		g.topic(topicFingerprint): g.handleFingerprint,
		g.topic(topicVote):        g.handleVote,
		g.topic(topicRequest):     g.handleRequest,
	}
	for topic, handler := range subscriptions {
		if token := c.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
			g.log.Error("MQTT subscribe failed", "topic", topic, "error", token.Error())
		}
	}
}

func (g *Gateway) topic(suffix string) string {
	return g.cfg.TopicPrefix + "/" + suffix
}

// handleFingerprint processes a registration message from a scanner.
// The confirmation goes out through the DeviceNotifier port.
func (g *Gateway) handleFingerprint(_ mqtt.Client, msg mqtt.Message) {
	fingerprintID := decodeFingerprint(msg.Payload())
	if fingerprintID == "" {
		g.log.Warn("Discarding fingerprint message with no id", "topic", msg.Topic())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	if _, _, err := g.voters.Register(ctx, fingerprintID); err != nil {
		g.log.Warn("Device registration failed", "fingerprint_id", fingerprintID, "error", err)
	}
}

// handleVote processes a ballot message from a scanner
func (g *Gateway) handleVote(_ mqtt.Client, msg mqtt.Message) {
	var vote voteMessage
	if err := json.Unmarshal(msg.Payload(), &vote); err != nil {
		g.log.Warn("Discarding malformed vote message", "topic", msg.Topic(), "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	if _, err := g.ballots.CastByFingerprint(ctx, vote.FingerprintID, vote.CandidateID); err != nil {
		g.log.Warn("Device vote failed",
			"fingerprint_id", vote.FingerprintID,
			"candidate_id", vote.CandidateID,
			"error", err)
	}
}

// handleRequest answers a device's candidate list request. Before the
// election opens the list is a placeholder so kiosk screens can show
// something meaningful.
func (g *Gateway) handleRequest(_ mqtt.Client, msg mqtt.Message) {
	if g.lifecycle.State() == models.StateSetup {
		g.publish(topicCandidates, map[string]interface{}{
			"state":      models.StateSetup,
			"candidates": []models.Candidate{},
			"message":    "election has not opened yet",
		})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	candidates, err := g.candidates.List(ctx)
	if err != nil {
		g.log.Error("Listing candidates for device request failed", "error", err)
		return
	}
	g.publish(topicCandidates, map[string]interface{}{
		"state":      g.lifecycle.State(),
		"candidates": candidates,
	})
}

// decodeFingerprint accepts either a JSON payload or a bare id string
func decodeFingerprint(payload []byte) string {
	var msg fingerprintMessage
	if err := json.Unmarshal(payload, &msg); err == nil && msg.FingerprintID != "" {
		return msg.FingerprintID
	}
	return strings.TrimSpace(string(payload))
}

// publish serializes the payload and publishes it under the prefix.
// Failures are logged, never propagated: a dropped confirmation must not
// undo a committed registration or vote.
func (g *Gateway) publish(suffix string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		g.log.Error("Marshaling MQTT payload failed", "topic", g.topic(suffix), "error", err)
		return
	}

	token := g.pub.Publish(g.topic(suffix), 1, false, data)
	if !token.WaitTimeout(publishTimeout) {
		g.log.Warn("MQTT publish timed out", "topic", g.topic(suffix))
		return
	}
	if err := token.Error(); err != nil {
		g.log.Warn("MQTT publish failed", "topic", g.topic(suffix), "error", err)
	}
}

// NotifyRegistration implements services.DeviceNotifier
func (g *Gateway) NotifyRegistration(outcome models.RegistrationOutcome) {
	g.publish(topicConfirm, map[string]interface{}{
		"type":           "registration",
		"status":         outcome.Status,
		"fingerprint_id": outcome.FingerprintID,
		"voter_id":       outcome.VoterID,
		"message":        outcome.Message,
	})
}

// NotifyVote implements services.DeviceNotifier
func (g *Gateway) NotifyVote(outcome models.VoteOutcome) {
	g.publish(topicConfirm, map[string]interface{}{
		"type":           "vote",
		"status":         outcome.Status,
		"fingerprint_id": outcome.FingerprintID,
		"voter_id":       outcome.VoterID,
		"candidate_id":   outcome.CandidateID,
		"ballot_id":      outcome.BallotID,
		"message":        outcome.Message,
	})
}

// PublishCandidates implements services.DeviceNotifier
func (g *Gateway) PublishCandidates(candidates []models.Candidate) {
	g.publish(topicCandidates, map[string]interface{}{
		"state":      g.lifecycle.State(),
		"candidates": candidates,
	})
}

// PublishResults implements services.DeviceNotifier
func (g *Gateway) PublishResults(result *models.TallyResult) {
	g.publish(topicResults, result)
}

var _ services.DeviceNotifier = (*Gateway)(nil)
