package snapshot

import (
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"laundrify-backend/config"
)

// MQTTSource subscribes to the sensor topic on an MQTT broker. The
// client reconnects on its own; the OnConnect hook re-subscribes after
// every (re)connection.
type MQTTSource struct {
	cfg    *config.SnapshotConfig
	logger *zap.Logger
	client mqtt.Client
}

// NewMQTTSource creates a source for the configured broker and topic.
func NewMQTTSource(cfg *config.SnapshotConfig, logger *zap.Logger) *MQTTSource {
	return &MQTTSource{cfg: cfg, logger: logger}
}

// Subscribe connects to the broker and delivers every decoded reading
// to h. Malformed payloads are logged and dropped, never delivered.
func (s *MQTTSource) Subscribe(h Handler) error {
	opts := mqtt.NewClientOptions().
		AddBroker(s.cfg.BrokerURL).
		SetClientID(s.cfg.ClientID).
		SetOrderMatters(true).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	if s.cfg.Username != "" {
		opts.SetUsername(s.cfg.Username)
		opts.SetPassword(s.cfg.Password)
	}

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		s.logger.Warn("snapshot feed connection lost", zap.Error(err))
	}
	opts.OnConnect = func(c mqtt.Client) {
		s.logger.Info("snapshot feed connected, subscribing",
			zap.String("topic", s.cfg.Topic))
		token := c.Subscribe(s.cfg.Topic, 1, func(_ mqtt.Client, m mqtt.Message) {
			snap, err := Decode(m.Payload())
			if err != nil {
				s.logger.Warn("ignoring malformed snapshot payload",
					zap.Error(err),
					zap.ByteString("payload", m.Payload()))
				return
			}
			h(snap)
		})
		if token.Wait() && token.Error() != nil {
			s.logger.Error("failed to subscribe to snapshot topic",
				zap.String("topic", s.cfg.Topic),
				zap.Error(token.Error()))
		}
	}

	s.client = mqtt.NewClient(opts)
	if tk := s.client.Connect(); tk.Wait() && tk.Error() != nil {
		return tk.Error()
	}
	return nil
}

// Close disconnects from the broker.
func (s *MQTTSource) Close() {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(500)
	}
}
