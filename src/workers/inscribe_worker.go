package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"proof-inscriber/pkg/logger"
	"proof-inscriber/pkg/rabbitmq"
	"proof-inscriber/pkg/reasoncodes"
	"proof-inscriber/src/api"
	"proof-inscriber/src/config"
	"proof-inscriber/src/inscription"
	"proof-inscriber/src/proof"
	"proof-inscriber/src/queues"

	amqp "github.com/rabbitmq/amqp091-go"
)

// InscribeWorker consumes parlay.proof.requested, fetches the private
// record, runs the inscription orchestrator and publishes the outcome.
type InscribeWorker struct {
	Consumer     rabbitmq.IRabbitmqConsumer
	Orchestrator *inscription.Orchestrator
	Records      *api.RecordClient
}

func NewInscribeWorker(orchestrator *inscription.Orchestrator, records *api.RecordClient) *InscribeWorker {
	return &InscribeWorker{
		Consumer:     rabbitmq.GetConsumer(queues.InscribeConsumerAlias),
		Orchestrator: orchestrator,
		Records:      records,
	}
}

func (iw *InscribeWorker) GetServiceName() string {
	return queues.InscribeWorkerServiceName
}

func (iw *InscribeWorker) StartService() {
	workerLogger := logger.Default()
	failurePublisher := rabbitmq.GetPublisher(queues.FailurePublisherAlias)
	completedPublisher := rabbitmq.GetPublisher(queues.CompletedPublisherAlias)

	iw.Consumer.StartConsuming(func(d amqp.Delivery) {
		var message queues.ProofRequestedDto
		responseFactory := queues.NewProofFailureFactory("", "", d.Body)

		if err := json.Unmarshal(d.Body, &message); err != nil {
			_ = failurePublisher.Publish(responseFactory.CreateErrorDto(err, reasoncodes.ErrUnmarshal))
			return
		}
		responseFactory = queues.NewProofFailureFactory(message.EventId, message.ParlayId, d.Body)

		record, err := iw.Records.FetchPrivateRecord(context.Background(), message.ParlayId)
		if err != nil {
			workerLogger.Errorf(err, "Failed to fetch private record for parlay %s", message.ParlayId)
			_ = failurePublisher.Publish(responseFactory.CreateErrorDto(err, reasoncodes.ErrRecordFetch))
			return
		}

		if message.ExpectedHash != "" && !proof.VerifyCommitment(record, message.ExpectedHash) {
			err := fmt.Errorf("record for parlay %s no longer matches expected hash %s", message.ParlayId, message.ExpectedHash)
			workerLogger.Errorf(err, "Refusing to inscribe a modified record")
			_ = failurePublisher.Publish(responseFactory.CreateErrorDto(err, reasoncodes.ErrHashMismatch))
			return
		}

		result, err := iw.Orchestrator.Inscribe(context.Background(), inscription.ProofInput{
			ParlayID:      message.ParlayId,
			AccountNumber: message.AccountNumber,
			CreatedAtIso:  message.CreatedAt,
		}, record)
		if err != nil {
			workerLogger.Errorf(err, "Unable to inscribe proof for parlay %s", message.ParlayId)
			_ = failurePublisher.Publish(responseFactory.CreateErrorDto(err, iw.classify(message.ParlayId, err)))
			return
		}

		outcome := queues.ProofCompletedDto{
			EventId:     message.EventId,
			ParlayId:    message.ParlayId,
			Txid:        result.Txid,
			Hash:        result.Hash,
			TxidPending: result.TxidPending,
		}

		_ = completedPublisher.Publish(outcome)
		workerLogger.Infof("Inscribed proof for parlay %s. Txid: %s, Hash: %s", outcome.ParlayId, outcome.Txid, outcome.Hash)
	})
}

func (iw *InscribeWorker) classify(parlayID string, err error) reasoncodes.ReasonCode {
	var configErr *config.ConfigError
	if errors.As(err, &configErr) {
		return reasoncodes.ErrConfig
	}
	if errors.Is(err, inscription.ErrAttemptInFlight) {
		return reasoncodes.ErrDuplicate
	}
	if attempt, ok := iw.Orchestrator.Attempts.Get(parlayID); ok && attempt.OutcomeUnknown {
		return reasoncodes.ErrOutcomeUnknown
	}
	return reasoncodes.ErrInscription
}
