package notifier

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"

	"github.com/Ronniet1977/CamperShowBackup/internal/show/core"
	"github.com/Ronniet1977/CamperShowBackup/pkg/log"
	"github.com/Ronniet1977/CamperShowBackup/pkg/options"
)

// MQTTNotifier publishes state-change events for the driver portal. It is
// strictly best-effort: a broker outage never affects local operations.
type MQTTNotifier struct {
	cm        *autopaho.ConnectionManager
	topicRoot string
	logger    log.Logger
}

var _ core.ChangeNotifier = (*MQTTNotifier)(nil)

// NewMQTTNotifier creates and starts the notifier's broker connection.
// autopaho reconnects on its own; publishes while disconnected fail and
// are dropped.
func NewMQTTNotifier(ctx context.Context, opts *options.MqttOptions) (*MQTTNotifier, error) {
	brokerURL, err := url.Parse(opts.Broker)
	if err != nil {
		return nil, fmt.Errorf("invalid mqtt broker url: %w", err)
	}

	clientID := opts.ClientID
	if clientID == "" {
		clientID = "campershow-notifier"
	}

	cfg := autopaho.ClientConfig{
		ServerUrls:                    []*url.URL{brokerURL},
		KeepAlive:                     uint16(opts.KeepAlive.Seconds()),
		CleanStartOnInitialConnection: opts.CleanStart,
		ReconnectBackoff:              autopaho.NewConstantBackoff(3 * time.Second),
		ConnectTimeout:                opts.ConnectTimeout,
		ConnectUsername:               opts.Username,
		ConnectPassword:               []byte(opts.Password),
		TlsCfg: &tls.Config{
			InsecureSkipVerify: opts.InsecureSkipVerify,
		},
		ClientConfig: paho.ClientConfig{
			ClientID: clientID,
		},
	}

	log.Info("Starting MQTT notifier", "broker", opts.Broker, "clientID", clientID)

	cm, err := autopaho.NewConnection(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start mqtt connection: %w", err)
	}

	return &MQTTNotifier{
		cm:        cm,
		topicRoot: opts.TopicRoot,
		logger:    log.WithName("notifier"),
	}, nil
}

// Notify publishes the change event as JSON to {topicRoot}/events/{op}.
func (n *MQTTNotifier) Notify(ctx context.Context, ev core.ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	topic := fmt.Sprintf("%s/events/%s", n.topicRoot, ev.Op)
	_, err = n.cm.Publish(ctx, &paho.Publish{
		Topic:   topic,
		QoS:     1,
		Payload: payload,
	})
	return err
}

// OnChange is the store subscription hook. Failures are logged only.
func (n *MQTTNotifier) OnChange(ev core.ChangeEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := n.Notify(ctx, ev); err != nil {
			n.logger.Warn("Failed to publish change event", "op", ev.Op, "err", err.Error())
		}
	}()
}

// Disconnect closes the broker connection.
func (n *MQTTNotifier) Disconnect(ctx context.Context) {
	if n.cm != nil {
		_ = n.cm.Disconnect(ctx)
	}
}
