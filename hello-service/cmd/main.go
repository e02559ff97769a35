package main

import (
	"github.com/gin-gonic/gin"

	"github.com/Vasiliy82/ArchiScoper/helloworld/hello-service/internal/handler"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/app"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/config"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	// Hello слушает :5000 и вызывает world по WORLD_SERVICE_URL
	app.Main(config.Hello, handler.NewRouter)
}
