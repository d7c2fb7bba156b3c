package rabbitmq

import (
	"fmt"
	"math"
	"time"

	"proof-inscriber/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitmqExchangeType string

func (ret RabbitmqExchangeType) String() string {
	return string(ret)
}

const (
	ExchangeFanout  RabbitmqExchangeType = "fanout"
	ExchangeDirect  RabbitmqExchangeType = "direct"
	ExchangeTopic   RabbitmqExchangeType = "topic"
	ExchangeHeaders RabbitmqExchangeType = "headers"
)

type RabbitmqExchangeConfig struct {
	ExchangeName string
	ExchangeType RabbitmqExchangeType
}

type RabbitmqQueueConfig struct {
	QueueName       string
	RoutingKey      string
	ExchangeBinding string
	Durable         bool
	Exclusive       bool
}

// ConnectToRabbitmq connects with retries and exponential backoff.
func ConnectToRabbitmq(config RabbitmqConfig) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	maxRetries := 7
	waitTime := 1 * time.Second

	queueLogger := logger.Default()
	url := fmt.Sprintf("amqp://%s:%s@%s:%d/", config.User, config.Password, config.Host, config.Port)

	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		queueLogger.Warnf("Attempt %d failed: %v. Retrying in %v...", i+1, err, waitTime)
		time.Sleep(waitTime)
		waitTime = time.Duration(math.Pow(2, float64(i+1))) * time.Second
	}
	return nil, err
}

// CreateNewExchange declares an exchange (e.g. "parlay.proofs", direct)
func CreateNewExchange(ch *amqp.Channel, exchangeConfig RabbitmqExchangeConfig) error {
	return ch.ExchangeDeclare(
		exchangeConfig.ExchangeName,          // name
		exchangeConfig.ExchangeType.String(), // type
		true,                                 // durable
		false,                                // auto-deleted
		false,                                // internal
		false,                                // no-wait
		nil,                                  // arguments
	)
}

// CreateNewQueue declares a queue with given durability/exclusivity
func CreateNewQueue(ch *amqp.Channel, queueConfig RabbitmqQueueConfig) (amqp.Queue, error) {
	return ch.QueueDeclare(
		queueConfig.QueueName, // name
		queueConfig.Durable,   // durable
		false,                 // delete when unused
		queueConfig.Exclusive, // exclusive
		false,                 // no-wait
		nil,                   // arguments
	)
}

// BindQueueToExchange binds a queue to an exchange with a routing key
func BindQueueToExchange(ch *amqp.Channel, queueConfig RabbitmqQueueConfig) error {
	return ch.QueueBind(
		queueConfig.QueueName,       // queue name
		queueConfig.RoutingKey,      // routing key
		queueConfig.ExchangeBinding, // exchange
		false,
		nil,
	)
}
