package main

import (
	"os"
	"time"

	"proof-inscriber/pkg/logger"
	"proof-inscriber/pkg/rabbitmq"
	"proof-inscriber/pkg/utilities"
	"proof-inscriber/src/api"
	"proof-inscriber/src/config"
	"proof-inscriber/src/inscription"
	"proof-inscriber/src/ledger"
	"proof-inscriber/src/queues"
	"proof-inscriber/src/workers"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	logger.InitDefaultLogger(logger.GlobalLoggerConfig{
		Args: []logger.LoggerArg{
			{Key: "application", Value: "proof-inscriber"},
			{Key: "version", Value: "1.0.0"},
		},
	})

	mainLogger := logger.Default()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	serviceConfig, err := utilities.ReadConfig[InscriberConfigJson, InscriberConfig](configPath)
	utilities.FailOnError(err, "Failed to read service config")
	mainLogger.WithLevel(serviceConfig.LoggerConf.LogLevel)

	// fail before touching the broker: inscriptions cost money and bad
	// credentials would only surface after consuming a message
	if err := config.AssertRequired(); err != nil {
		mainLogger.Fatal(err, "Credential validation failed")
	}

	creds := config.ReadCredentials()
	signer, err := solana.PrivateKeyFromBase58(creds.SignerKey)
	utilities.FailOnError(err, "Unable to parse SIGNER_PRIVATE_KEY")

	solanaLedger := ledger.NewSolanaLedger(creds.RpcURL, signer)
	if serviceConfig.InscriptionConf.ChunkSize > 0 {
		solanaLedger.ChunkSize = serviceConfig.InscriptionConf.ChunkSize
	}

	orchestrator := inscription.NewOrchestrator(solanaLedger)
	if serviceConfig.InscriptionConf.MaxResumeAttempts > 0 {
		orchestrator.MaxResumeAttempts = serviceConfig.InscriptionConf.MaxResumeAttempts
	}
	if serviceConfig.InscriptionConf.SubmitTimeoutSeconds > 0 {
		orchestrator.SubmitTimeout = time.Duration(serviceConfig.InscriptionConf.SubmitTimeoutSeconds) * time.Second
	}

	// 1. Connect to RabbitMQ
	conn, err := rabbitmq.ConnectToRabbitmq(serviceConfig.RabbitmqConf)
	utilities.FailOnError(err, "Failed to connect to RabbitMQ after retries")
	defer conn.Close()

	// 2. Open channel
	ch, err := conn.Channel()
	utilities.FailOnError(err, "Failed to open a channel")
	defer ch.Close()

	// 3. Declare exchange and queues, and bind
	err = queues.SetupProofQueues(ch)
	utilities.FailOnError(err, "Failed to setup exchange/queues")

	// 4. Build the alias registries from config
	rabbitmq.InitializeConsumerRegistry(conn, serviceConfig.RabbitmqConf.ConsumersConfig)
	rabbitmq.InitializePublisherRegistry(conn, serviceConfig.RabbitmqConf.PublishersConfig)

	records := api.NewRecordClient(serviceConfig.RecordStoreConf.BaseUrl, serviceConfig.RecordStoreConf.AuthToken)

	// 5. Start consuming proof requests
	worker := workers.NewInscribeWorker(orchestrator, records)
	go worker.StartService()

	mainLogger.Info("Proof inscriber started and listening for messages")

	// 6. Keep alive
	select {}
}
