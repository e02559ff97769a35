package main

import (
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/app"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/config"
	"github.com/Vasiliy82/ArchiScoper/helloworld/world-service/internal/handler"
)

func main() {
	// World слушает :5001, вызывает hello по HELLO_SERVICE_URL и по умолчанию отправляет трейсы в OTLP-коллектор
	app.Main(config.World, handler.NewRouter)
}
