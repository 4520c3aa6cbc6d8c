package rabbitmq

import (
	"fmt"
	"net/url"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQClient обертка для работы с RabbitMQ
type RabbitMQClient struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// URL собирает amqp-адрес; vhost экранируется, "/" превращается в %2F
func URL(host, port, username, password, vHost string) string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(username, password),
		Host:   host + ":" + port,
		Path:   "/" + vHost,
	}
	u.RawPath = "/" + url.PathEscape(vHost)
	return u.String()
}

// NewRabbitMQClient подключается и объявляет durable-очереди queues
func NewRabbitMQClient(host, port, username, password, vHost string, queues ...string) (*RabbitMQClient, error) {
	conn, err := amqp.Dial(URL(host, port, username, password, vHost))
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c := &RabbitMQClient{Conn: conn, Ch: ch}
	for _, q := range queues {
		// durable: события не должны теряться при рестарте брокера
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			c.Close()
			return nil, fmt.Errorf("declare queue %s: %w", q, err)
		}
	}
	return c, nil
}

// Close закрывает соединение с RabbitMQ
func (c *RabbitMQClient) Close() {
	if c.Ch != nil {
		c.Ch.Close()
	}
	if c.Conn != nil {
		c.Conn.Close()
	}
}
