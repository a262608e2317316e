package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	ddEcho "gopkg.in/DataDog/dd-trace-go.v1/contrib/labstack/echo.v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/getAlby/x402hub.go/chain"
	"github.com/getAlby/x402hub.go/db"
	"github.com/getAlby/x402hub.go/db/migrations"
	"github.com/getAlby/x402hub.go/docs"
	"github.com/getAlby/x402hub.go/lib/logging"
	"github.com/getAlby/x402hub.go/lib/service"
	"github.com/getAlby/x402hub.go/lib/store"
	"github.com/getAlby/x402hub.go/lib/tokens"
	"github.com/getAlby/x402hub.go/lib/transport"
	"github.com/getAlby/x402hub.go/lib/verification"
	"github.com/getAlby/x402hub.go/rabbitmq"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/uptrace/bun/migrate"
	"github.com/ziflex/lecho/v3"
)

// @title        x402hub.go
// @version      0.1.0
// @description  HTTP 402 payment requests settled by verifying EVM transactions.

// @contact.name   Alby
// @contact.url    https://getalby.com
// @contact.email  hello@getalby.com

// @license.name  GNU GPLv3
// @license.url   https://www.gnu.org/licenses/gpl-3.0.en.html

// @BasePath  /

// @securityDefinitions.apikey  AdminToken
// @in                          header
// @name                        Authorization
// @schemes                     https http
func main() {

	c := &service.Config{}

	// Load configruation from environment variables, .env.local wins over .env
	_ = godotenv.Load(".env.local")
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}
	if err = c.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging to STDOUT or a configrued log file
	logger := logging.Logger(c.LogFilePath)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()
	requestStore, closeStore := openStore(startupCtx, c, logger)
	defer closeStore()

	// Setup exception tracking with Sentry if configured
	// sentry init needs to happen before the echo middlewares are added
	if c.SentryDSN != "" {
		if err = sentry.Init(sentry.ClientOptions{
			Dsn:              c.SentryDSN,
			IgnoreErrors:     []string{"401"},
			EnableTracing:    c.SentryTracesSampleRate > 0,
			TracesSampleRate: c.SentryTracesSampleRate,
		}); err != nil {
			logger.Errorf("sentry init error: %v", err)
		}
	}

	chainCfg, err := chain.LoadConfig()
	if err != nil {
		logger.Fatalf("Error loading chain config: %v", err)
	}
	chainCfg.DefaultNetwork = c.DefaultNetwork
	chainPool := chain.NewPool(chain.NewRegistry(chainCfg))
	defer chainPool.Close()
	for _, network := range chainPool.Registry().Networks() {
		logger.Infof("Verifying payments on %s (chain id %d)", network.Key, network.ChainID)
	}

	// If no RABBITMQ_URI was provided we will not attempt to create a client
	// No rabbitmq features will be available in this case.
	var rabbitmqClient rabbitmq.Client
	if c.RabbitMQUri != "" {
		amqpClient, err := rabbitmq.DialAMQP(c.RabbitMQUri, logger)
		if err != nil {
			logger.Fatal(err)
		}

		defer amqpClient.Close()

		rabbitmqClient, err = rabbitmq.NewClient(amqpClient,
			rabbitmq.WithLogger(logger),
			rabbitmq.WithRequestExchange(c.RabbitMQRequestExchange),
			rabbitmq.WithPaymentSubmissionQueueName(c.RabbitMQPaymentQueueName),
		)
		if err != nil {
			logger.Fatal(err)
		}

		// close the connection gently at the end of the runtime
		defer rabbitmqClient.Close()
	}

	svc := &service.X402Service{
		Config: c,
		Store:  requestStore,
		Chain:  chainPool,
		Verifier: verification.NewEngine(chainPool,
			verification.WithTimeout(c.VerifyTimeout),
			verification.WithMaxOverpayRatio(c.MaxOverpayRatio),
		),
		Logger:         logger,
		RequestPubSub:  service.NewPubsub(),
		RabbitMQClient: rabbitmqClient,
	}

	//init echo server
	e := transport.InitEcho(c, logger)
	//if Datadog is configured, add datadog middleware
	if c.DatadogAgentUrl != "" {
		tracer.Start(tracer.WithAgentAddr(c.DatadogAgentUrl))
		defer tracer.Stop()
		e.Use(ddEcho.Middleware(ddEcho.WithServiceName("x402hub.go")))
	}

	//Start Prometheus server if necessary
	var echoPrometheus *echo.Echo
	if svc.Config.EnablePrometheus {
		echoPrometheus = transport.StartPrometheusEcho(logger, svc, e)
	}

	logMw := transport.CreateLoggingMiddleware(logger)
	// strict rate limit for payment submissions, every one of them hits the chain
	strictRateLimitMiddleware := transport.CreateRateLimitMiddleware(c.StrictRateLimit, c.BurstRateLimit)
	transport.RegisterEndpoints(svc, e, strictRateLimitMiddleware, tokens.AdminTokenMiddleware(c.AdminToken), logMw)

	//Swagger API spec
	docs.SwaggerInfo.Host = c.Host
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	var backgroundWg sync.WaitGroup
	backGroundCtx, _ := signal.NotifyContext(context.Background(), os.Interrupt)

	// Re-check payments whose verification hit an unavailable chain
	if c.WatcherInterval > 0 {
		backgroundWg.Add(1)
		go func() {
			if err := svc.StartPendingCheckRoutine(backGroundCtx); err != nil && err != context.Canceled {
				sentry.CaptureException(err)
				svc.Logger.Error(err)
			}
			svc.Logger.Info("Pending payment check routine done")
			backgroundWg.Done()
		}()
	}

	//Start webhook subscription
	if svc.Config.WebhookUrl != "" {
		backgroundWg.Add(1)
		go func() {
			svc.StartWebhookSubscription(backGroundCtx, svc.Config.WebhookUrl)
			svc.Logger.Info("Webhook routine done")
			backgroundWg.Done()
		}()
	}
	//Start rabbit publisher and payment submission consumer
	if svc.RabbitMQClient != nil {
		backgroundWg.Add(2)
		go func() {
			if err := svc.StartRabbitMqPublisher(backGroundCtx); err != nil {
				svc.Logger.Error(err)
				sentry.CaptureException(err)
			}
			svc.Logger.Info("Rabbit settled request publisher done")
			backgroundWg.Done()
		}()
		go func() {
			if err := svc.StartPaymentSubmissionRoutine(backGroundCtx); err != nil {
				svc.Logger.Error(err)
				sentry.CaptureException(err)
			}
			svc.Logger.Info("Rabbit payment submission consumer done")
			backgroundWg.Done()
		}()
	}

	// Start server
	go func() {
		if err := e.Start(fmt.Sprintf(":%v", c.Port)); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	<-backGroundCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
	if echoPrometheus != nil {
		if err := echoPrometheus.Shutdown(ctx); err != nil {
			e.Logger.Fatal(err)
		}
	}
	//Wait for graceful shutdown of background routines
	backgroundWg.Wait()
	svc.Logger.Info("x402hub exiting gracefully. Goodbye.")
}

// openStore returns the configured request store and a func releasing it.
func openStore(ctx context.Context, c *service.Config, logger *lecho.Logger) (store.Store, func()) {
	if c.StoreBackend == service.StoreBackendFile {
		fileStore, err := store.NewFileStore(c.DataFilePath)
		if err != nil {
			logger.Fatalf("Error opening data file %s: %v", c.DataFilePath, err)
		}
		logger.Infof("Storing payment requests in %s", c.DataFilePath)
		return fileStore, func() {}
	}

	// Open a DB connection based on the configured DATABASE_URI
	dbConn, err := db.Open(c)
	if err != nil {
		logger.Fatalf("Error initializing db connection: %v", err)
	}

	// Migrate the DB
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	err = migrator.Init(ctx)
	if err != nil {
		logger.Fatalf("Error initializing db migrator: %v", err)
	}
	_, err = migrator.Migrate(ctx)
	if err != nil {
		logger.Fatalf("Error migrating database: %v", err)
	}
	return store.NewBunStore(dbConn), func() { dbConn.Close() }
}
