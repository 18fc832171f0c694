package rabbitmq

import (
	"crypto/tls"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string // default "/"
	UseTLS   bool
}

type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func (c *Client) Channel() *amqp.Channel { return c.ch }

// NotifyClose reports the connection going away.
func (c *Client) NotifyClose() <-chan *amqp.Error {
	return c.conn.NotifyClose(make(chan *amqp.Error, 1))
}

func (c *Client) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

func URL(cfg Config) string {
	if cfg.VHost == "" {
		cfg.VHost = "/"
	}
	scheme := "amqp"
	if cfg.UseTLS {
		scheme = "amqps"
	}
	vhost := cfg.VHost
	if vhost == "/" {
		vhost = ""
	}
	return fmt.Sprintf("%s://%s:%s@%s:%d/%s", scheme, cfg.User, cfg.Password, cfg.Host, cfg.Port, vhost)
}

func Dial(cfg Config) (*Client, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	if cfg.UseTLS {
		conn, err = amqp.DialTLS(URL(cfg), &tls.Config{MinVersion: tls.VersionTLS12})
	} else {
		conn, err = amqp.Dial(URL(cfg))
	}
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	return &Client{conn: conn, ch: ch}, nil
}

// SubscribeFanout declares the fanout exchange, binds a fresh exclusive queue
// to it and starts consuming with auto-ack.
func (c *Client) SubscribeFanout(exchange string) (<-chan amqp.Delivery, error) {
	if err := c.ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	q, err := c.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := c.ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind %s to %s: %w", q.Name, exchange, err)
	}
	msgs, err := c.ch.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", q.Name, err)
	}
	return msgs, nil
}
