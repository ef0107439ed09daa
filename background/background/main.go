package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/RichardKnop/machinery/v1"
	"github.com/RichardKnop/machinery/v1/config"
	"github.com/getsentry/sentry-go"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bitmark-inc/recurrence-api/background"
	"github.com/bitmark-inc/recurrence-api/consts"
	"github.com/bitmark-inc/recurrence-api/store"
)

var (
	logger      *zap.Logger
	mongoClient *mongo.Client
	manager     *background.BackgroundManager
)

func buildLogger() *zap.Logger {
	zapConfig := zap.NewProductionConfig()
	level := zapcore.InfoLevel
	if err := level.Set(viper.GetString("log.level")); err != nil {
		level = zapcore.InfoLevel
	}
	zapConfig.Level.SetLevel(level)

	logger, err := zapConfig.Build()
	if err != nil {
		panic("Failed to setup logger")
	}

	return logger
}

func initSentry() {
	logger.Info("Initializing sentry")
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		logger.Error("fail to initialize sentry", zap.Error(err))
	}
}

func loadConfig(file string) {
	// Config from file
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println("No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	// Config from env if possible
	viper.AutomaticEnv()
	viper.SetEnvPrefix("recurrence")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func main() {
	var configFile string

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	logger = buildLogger()
	defer func() { _ = logger.Sync() }()

	initSentry()

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Worker is preparing to shutdown")

		if manager != nil {
			manager.Quit()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if mongoClient != nil {
			logger.Info("Shutting down mongo store")
			_ = mongoClient.Disconnect(ctx)
		}

		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}()

	// initialise mongodb connections
	opts := options.Client().ApplyURI(viper.GetString("mongo.conn"))
	opts.SetMaxPoolSize(viper.GetUint64("mongo.pool"))

	var err error
	mongoClient, err = mongo.NewClient(opts)
	if nil != err {
		logger.Panic("create mongo client", zap.Error(err))
	}

	if err := mongoClient.Connect(context.Background()); nil != err {
		logger.Panic("connect mongo database", zap.Error(err))
	}

	var conf = &config.Config{
		Broker:        viper.GetString("redis.conn"),
		DefaultQueue:  consts.BackgroundQueue,
		ResultBackend: viper.GetString("redis.conn"),
	}
	taskServer, err := machinery.NewServer(conf)
	if err != nil {
		logger.Panic("create task server", zap.Error(err))
	}

	mongoStore := store.NewMongoStore(mongoClient, viper.GetString("mongo.database"))
	manager = background.New(mongoStore, taskServer, logger)
	if err := manager.RegisterTasks(); err != nil {
		logger.Panic("register tasks", zap.Error(err))
	}

	logger.Info("Worker started", zap.String("queue", consts.BackgroundQueue))
	if err := manager.Run(); err != nil {
		logger.Panic("worker stopped", zap.Error(err))
	}
}
