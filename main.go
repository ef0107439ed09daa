package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/RichardKnop/machinery/v1"
	machineryconf "github.com/RichardKnop/machinery/v1/config"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bitmark-inc/recurrence-api/api"
	"github.com/bitmark-inc/recurrence-api/consts"
	"github.com/bitmark-inc/recurrence-api/logmodule"
	"github.com/bitmark-inc/recurrence-api/score"
	"github.com/bitmark-inc/recurrence-api/store"
	"github.com/bitmark-inc/recurrence-api/utils"
)

var (
	server      *api.Server
	ormDB       *gorm.DB
	mongoClient *mongo.Client
	redisClient *redis.Client
)

// initialization tracks the startup phase. A shutdown signal received while
// starting cancels the startup context; once finished, it is left alone.
type initialization struct {
	sync.Mutex
	cancel context.CancelFunc
}

func newInitialization() (context.Context, *initialization) {
	ctx, cancel := context.WithCancel(context.Background())
	return ctx, &initialization{cancel: cancel}
}

// Abort cancels the startup context and reports whether startup was still running.
func (i *initialization) Abort() bool {
	i.Lock()
	defer i.Unlock()
	if i.cancel == nil {
		return false
	}
	i.cancel()
	i.cancel = nil
	return true
}

// Finish ends the startup phase. The startup context stays valid.
func (i *initialization) Finish() {
	i.Lock()
	defer i.Unlock()
	i.cancel = nil
}

func initLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stdout)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
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

	viper.SetDefault("server.port", "10000")
	viper.SetDefault("reset.ttl", consts.DefaultResetTTL)
	viper.SetDefault("redis.watermark_ttl", store.DefaultWatermarkCacheTTL)
	viper.SetDefault("metrics.interval", 10*time.Second)
	viper.SetDefault("risk.default_threshold", score.DefaultWeeklyThreshold)
	viper.SetDefault("risk.approaching_warning", true)
}

// loadPolicy builds the decision policy from risk.*, falling back to the
// built-in tables for any part left unconfigured.
func loadPolicy() (score.Policy, error) {
	thresholds := score.DefaultThresholds
	if viper.IsSet("risk.thresholds") {
		thresholds = map[string]int{}
		if err := viper.UnmarshalKey("risk.thresholds", &thresholds); err != nil {
			return score.Policy{}, err
		}
	}
	table, err := score.NewThresholdTable(viper.GetInt("risk.default_threshold"), thresholds)
	if err != nil {
		return score.Policy{}, err
	}

	factors := score.DefaultConditionMultipliers
	if viper.IsSet("risk.condition_multipliers") {
		factors = map[string]float64{}
		if err := viper.UnmarshalKey("risk.condition_multipliers", &factors); err != nil {
			return score.Policy{}, err
		}
	}
	multipliers, err := score.NewMultipliers(factors)
	if err != nil {
		return score.Policy{}, err
	}

	return score.Policy{
		Thresholds:         table,
		Multipliers:        multipliers,
		ApproachingWarning: viper.GetBool("risk.approaching_warning"),
	}, nil
}

// initWatermarkStore picks postgres when orm.conn is set and memory otherwise,
// with a redis read-through cache in front when redis.conn is set.
func initWatermarkStore() (store.WatermarkStore, error) {
	var watermarks store.WatermarkStore = store.NewMemoryWatermarkStore()

	if conn := viper.GetString("orm.conn"); conn != "" {
		var err error
		ormDB, err = gorm.Open("postgres", conn)
		if err != nil {
			return nil, err
		}
		watermarks = store.NewORMWatermarkStore(ormDB)
		log.WithField("prefix", "init").Info("Watermarks are stored in postgres")
	} else {
		log.WithField("prefix", "init").Warn("orm.conn is not set, watermarks are kept in memory")
	}

	if conn := viper.GetString("redis.conn"); conn != "" {
		opts, err := redis.ParseURL(conn)
		if err != nil {
			return nil, err
		}
		redisClient = redis.NewClient(opts)
		watermarks = store.NewCachedWatermarkStore(redisClient, watermarks, viper.GetDuration("redis.watermark_ttl"))
		log.WithField("prefix", "init").Info("Watermark cache enabled")
	}

	return watermarks, nil
}

func main() {
	var configFile string

	initialCtx, startup := newInitialization()

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Server is preparing to shutdown")

		if startup.Abort() {
			log.Info("Cancelled initialization")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if server != nil {
			log.Info("Shutdown recurrence api server")
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Server Shutdown:", err)
			}
		}

		if ormDB != nil {
			log.Info("Shutting down db store")
			if err := ormDB.Close(); err != nil {
				log.Error(err)
			}
		}

		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				log.Error(err)
			}
		}

		if mongoClient != nil {
			log.Info("Shutting down mongo store")
			if err := mongoClient.Disconnect(ctx); err != nil {
				log.Error(err)
			}
		}

		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	// Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		log.Error(err)
	}
	log.WithField("prefix", "init").Info("Initialized sentry")

	if err := utils.InitI18NBundle(viper.GetString("i18n.dir")); err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Info("Loaded i18n messages")

	policy, err := loadPolicy()
	if err != nil {
		log.Panic(err)
	}

	watermarks, err := initWatermarkStore()
	if err != nil {
		log.Panic(err)
	}

	// Alerts are recorded by the worker, only enqueue when a broker exists
	var background utils.TaskSender
	if conn := viper.GetString("redis.conn"); conn != "" {
		machineryServer, err := machinery.NewServer(&machineryconf.Config{
			Broker:        conn,
			DefaultQueue:  consts.BackgroundQueue,
			ResultBackend: conn,
		})
		if err != nil {
			log.Panic(err)
		}
		background = machineryServer
	}

	// initialise mongodb connections
	opts := options.Client().ApplyURI(viper.GetString("mongo.conn"))
	opts.SetMaxPoolSize(viper.GetUint64("mongo.pool"))
	mongoClient, err = mongo.NewClient(opts)
	if nil != err {
		log.Panicf("create mongo client with error: %s", err)
	}

	err = mongoClient.Connect(initialCtx)
	if nil != err {
		log.Panicf("connect mongo database with error: %s", err)
	}

	metrics, metricsCloser := logmodule.NewMetricsScope("recurrence", viper.GetDuration("metrics.interval"))
	defer metricsCloser.Close()

	// Init http server
	server = api.NewServer(
		store.NewMongoStore(mongoClient, viper.GetString("mongo.database")),
		watermarks,
		background,
		policy,
		viper.GetDuration("reset.ttl"),
		metrics)
	log.WithField("prefix", "init").Info("Initialized http server")

	startup.Finish()

	log.Fatal(server.Run(":" + viper.GetString("server.port")))
}
