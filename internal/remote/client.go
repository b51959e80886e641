package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/slidedeck/internal/config"
	"github.com/zjrosen/slidedeck/internal/log"
	"github.com/zjrosen/slidedeck/internal/pubsub"
	"github.com/zjrosen/slidedeck/internal/tracing"
)

const (
	connectTimeout    = 5 * time.Second
	operationTimeout  = 5 * time.Second
	disconnectQuiesce = 250 // milliseconds
	keepAlive         = 30 * time.Second
	maxQoS            = 2
)

// Config configures a Client.
type Config struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	QoS         byte
	Tracer      trace.Tracer
}

// FromConfig converts the remote section of the config file.
func FromConfig(c config.RemoteConfig) Config {
	return Config{
		Broker:      c.Broker,
		ClientID:    c.ClientID,
		TopicPrefix: c.TopicPrefix,
		QoS:         c.QoS,
	}
}

// MessageHandler handles one message received on a subscribed topic.
type MessageHandler func(topic string, payload []byte) error

// conn is the part of an MQTT connection the client needs.
type conn interface {
	Publish(topic string, qos byte, retained bool, payload []byte) error
	Subscribe(topic string, qos byte, handler MessageHandler) error
	Close()
}

// Client publishes presenter state and forwards control commands to a
// broker of Command events.
type Client struct {
	conn     conn
	cfg      Config
	topics   Topics
	tracer   trace.Tracer
	commands *pubsub.Broker[Command]

	pending   chan State
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Connect dials the broker. Call Listen to start receiving commands.
func Connect(cfg Config) (*Client, error) {
	if cfg.QoS > maxQoS {
		return nil, fmt.Errorf("%w: qos %d", ErrConnectionFailed, cfg.QoS)
	}
	pc, err := dial(cfg)
	if err != nil {
		return nil, err
	}
	log.Info(log.CatRemote, "Connected to MQTT broker", "broker", cfg.Broker, "client_id", cfg.ClientID)
	return newClient(pc, cfg), nil
}

func newClient(c conn, cfg Config) *Client {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("remote")
	}
	cl := &Client{
		conn:     c,
		cfg:      cfg,
		topics:   Topics{Prefix: cfg.TopicPrefix},
		tracer:   tracer,
		commands: pubsub.NewBroker[Command](),
		pending:  make(chan State, 1),
		done:     make(chan struct{}),
	}
	cl.wg.Add(1)
	go cl.stateLoop()
	return cl
}

// Commands returns the broker that receives validated control commands.
func (c *Client) Commands() *pubsub.Broker[Command] {
	return c.commands
}

// Topics returns the topic names in use.
func (c *Client) Topics() Topics {
	return c.topics
}

// Listen subscribes to the control topic.
func (c *Client) Listen() error {
	topic := c.topics.Control()
	if err := c.conn.Subscribe(topic, c.cfg.QoS, c.handleControl); err != nil {
		return err
	}
	log.Info(log.CatRemote, "Listening for remote commands", "topic", topic)
	return nil
}

// handleControl runs on paho's goroutine.
func (c *Client) handleControl(topic string, payload []byte) error {
	_, span := c.tracer.Start(context.Background(), tracing.SpanRemoteCommand,
		trace.WithAttributes(attribute.String(tracing.AttrRemoteTopic, topic)))
	defer span.End()

	cmd, err := DecodeCommand(payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.commands.Publish(pubsub.Failed, Command{Err: err})
		return err
	}
	span.SetAttributes(attribute.String(tracing.AttrRemoteAction, cmd.Action))
	log.Debug(log.CatRemote, "Remote command received", "action", cmd.Action, "slide", cmd.Slide)
	c.commands.Publish(pubsub.Command, cmd)
	return nil
}

// PublishState queues s for publishing on the state topic. Only the latest
// queued state is published when the connection falls behind.
func (c *Client) PublishState(s State) {
	select {
	case <-c.pending:
	default:
	}
	select {
	case c.pending <- s:
	case <-c.done:
	}
}

func (c *Client) stateLoop() {
	defer c.wg.Done()
	for {
		select {
		case s := <-c.pending:
			if err := c.publishState(s); err != nil {
				log.ErrorErr(log.CatRemote, "Publishing state failed", err, "active", s.Active)
			}
		case <-c.done:
			return
		}
	}
}

func (c *Client) publishState(s State) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	topic := c.topics.State()
	_, span := c.tracer.Start(context.Background(), tracing.SpanRemotePublish,
		trace.WithAttributes(attribute.String(tracing.AttrRemoteTopic, topic)))
	defer span.End()

	if err := c.conn.Publish(topic, c.cfg.QoS, true, payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Send publishes cmd on the control topic.
func (c *Client) Send(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	return c.conn.Publish(c.topics.Control(), c.cfg.QoS, false, payload)
}

// Close stops publishing, closes the command broker and disconnects.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.wg.Wait()
		c.commands.Close()
		c.conn.Close()
		log.Info(log.CatRemote, "Disconnected from MQTT broker")
	})
	return nil
}

// pahoConn adapts a paho client to conn, waiting on tokens with timeouts.
type pahoConn struct {
	client pahomqtt.Client
}

func dial(cfg Config) (*pahoConn, error) {
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetKeepAlive(keepAlive)
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		log.Warn(log.CatRemote, "MQTT connection lost", "error", err)
	})

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, connectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return &pahoConn{client: client}, nil
}

func (p *pahoConn) Publish(topic string, qos byte, retained bool, payload []byte) error {
	if !p.client.IsConnected() {
		return ErrNotConnected
	}
	token := p.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(operationTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, operationTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

func (p *pahoConn) Subscribe(topic string, qos byte, handler MessageHandler) error {
	token := p.client.Subscribe(topic, qos, func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(log.CatRemote, "MQTT handler panic recovered", "topic", msg.Topic(), "panic", r)
			}
		}()
		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			log.Warn(log.CatRemote, "MQTT handler returned error", "topic", msg.Topic(), "error", err)
		}
	})
	if !token.WaitTimeout(operationTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, operationTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}
	return nil
}

func (p *pahoConn) Close() {
	p.client.Disconnect(disconnectQuiesce)
}
