package main

import (
	"context"
	"fmt"

	"accounthub/user-api/api"
	"accounthub/user-api/config"
	"accounthub/user-api/db"
	"accounthub/user-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	database, err := db.New()
	if err != nil {
		panic(err)
	}

	// The blob store proves the bucket is reachable before the server
	// ever accepts a request
	avatars, err := storage.NewS3(context.Background())
	if err != nil {
		panic(err)
	}

	a, err := api.NewRouter(database, avatars)
	if err != nil {
		panic(err)
	}

	zap.L().Info("Server starting", zap.Int("port", viper.GetInt("host.port")))

	err = a.Router.Run(fmt.Sprintf(":%d", viper.GetInt("host.port")))
	if err != nil {
		panic(err)
	}
}
