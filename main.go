package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/api"
	"github.com/abhaynitaidasbavs/marathon-scoreboard/auth"
	"github.com/abhaynitaidasbavs/marathon-scoreboard/board"
	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
	"github.com/abhaynitaidasbavs/marathon-scoreboard/store"
)

func main() {
	var configFile string
	var initAdmin string
	flag.StringVar(&configFile, "c", "", "configuration file")
	flag.StringVar(&initAdmin, "init-admin", "", "create an admin account with this email and exit")
	flag.Parse()

	godotenv.Load()

	viper.SetEnvPrefix("scoreboard")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			log.WithError(err).Fatal("fail to read configuration")
		}
	}

	viper.SetDefault("listen", ":8087")
	viper.SetDefault("mongo.conn", "mongodb://127.0.0.1:27017")
	viper.SetDefault("mongo.database", "scoreboard")
	viper.SetDefault("redis.addr", "127.0.0.1:6379")
	viper.SetDefault("session.ttl", 24*time.Hour)

	if viper.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}

	mongoConn := viper.GetString("mongo.conn")
	mongoDatabase := viper.GetString("mongo.database")

	if err := schema.NewMongoDBIndexer(mongoConn, mongoDatabase).IndexAll(); err != nil {
		log.WithError(err).Fatal("fail to create mongodb indexes")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoConn))
	cancel()
	if err != nil {
		log.WithError(err).Fatal("fail to connect mongodb")
	}

	mongoStore := store.NewMongoStore(mongoClient, mongoDatabase)
	defer mongoStore.Close()

	if initAdmin != "" {
		password := viper.GetString("admin.password")
		if password == "" {
			log.Fatal("SCOREBOARD_ADMIN_PASSWORD is not set")
		}
		if err := mongoStore.CreateAdmin(initAdmin, password); err != nil {
			log.WithError(err).Fatal("fail to create admin account")
		}
		log.WithField("email", initAdmin).Info("admin account created")
		return
	}

	sessionKey := viper.GetString("session.key")
	if sessionKey == "" {
		log.Fatal("SCOREBOARD_SESSION_KEY is not set")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("redis.addr"),
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})
	sessions := auth.NewSessions(mongoStore, redisClient, []byte(sessionKey), viper.GetDuration("session.ttl"))

	teamBoard := board.New(mongoStore)
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go func() {
		if err := teamBoard.Run(watchCtx); err != nil {
			log.WithField("prefix", "board").WithError(err).Error("team subscription ended")
		}
	}()

	server := api.NewServer(mongoStore, teamBoard, sessions, viper.GetBool("trace"))

	listen := viper.GetString("listen")
	log.WithField("listen", listen).Info("marathon scoreboard api serving")
	if err := server.Run(listen); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
