package queues

import (
	"proof-inscriber/pkg/rabbitmq"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ProofExchange = "parlay.proofs"

	ProofRequestedQueue = "parlay.proof.requested"
	ProofCompletedQueue = "parlay.proof.completed"
	ProofFailedQueue    = "parlay.proof.failed"

	InscribeConsumerAlias     = rabbitmq.ConsumerAlias("ProofRequestedConsumer")
	CompletedPublisherAlias   = rabbitmq.PublisherAlias("ProofCompletedPublisher")
	FailurePublisherAlias     = rabbitmq.PublisherAlias("ProofFailurePublisher")
	InscribeWorkerServiceName = "proof-inscribe-worker"
)

// DefaultTopology is the exchange and queue layout the worker declares
// on startup. Idempotent against an existing broker layout.
func DefaultTopology() ([]rabbitmq.RabbitmqExchangeConfig, []rabbitmq.RabbitmqQueueConfig) {
	exchanges := []rabbitmq.RabbitmqExchangeConfig{
		{ExchangeName: ProofExchange, ExchangeType: rabbitmq.ExchangeDirect},
	}

	queues := []rabbitmq.RabbitmqQueueConfig{
		{QueueName: ProofRequestedQueue, RoutingKey: ProofRequestedQueue, ExchangeBinding: ProofExchange, Durable: true},
		{QueueName: ProofCompletedQueue, RoutingKey: ProofCompletedQueue, ExchangeBinding: ProofExchange, Durable: true},
		{QueueName: ProofFailedQueue, RoutingKey: ProofFailedQueue, ExchangeBinding: ProofExchange, Durable: true},
	}

	return exchanges, queues
}

// SetupProofQueues declares the exchange and all three queues with
// their bindings.
func SetupProofQueues(ch *amqp.Channel) error {
	exchanges, queues := DefaultTopology()

	for _, exchangeConf := range exchanges {
		if err := rabbitmq.CreateNewExchange(ch, exchangeConf); err != nil {
			return err
		}
	}

	for _, queueConf := range queues {
		if _, err := rabbitmq.CreateNewQueue(ch, queueConf); err != nil {
			return err
		}

		if err := rabbitmq.BindQueueToExchange(ch, queueConf); err != nil {
			return err
		}
	}

	return nil
}
