package greeting

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/logging"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/tracing"
)

// Fetcher получает текст простого маршрута соседнего сервиса
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) (string, error)
}

// PeerObserver учитывает исход вызова соседа
type PeerObserver interface {
	ObservePeerCall(peer string, err error)
}

// Reply - результат маршрута /test: либо 200 и составной текст, либо 500 и текст ошибки
type Reply struct {
	Status int
	Body   string
}

// Service содержит логику маршрутов сервиса, не зависящую от HTTP-фреймворка
type Service struct {
	name     string
	peer     Fetcher
	observer PeerObserver
	log      *zap.Logger
}

// NewService создает сервис с именем name, вызывающий соседа peer
func NewService(name string, peer Fetcher, observer PeerObserver, log *zap.Logger) *Service {
	return &Service{name: name, peer: peer, observer: observer, log: log}
}

// Name возвращает имя сервиса
func (s *Service) Name() string {
	return s.name
}

// Welcome возвращает приветствие для главной страницы
func (s *Service) Welcome() string {
	return fmt.Sprintf("Welcome to %s Service", cases.Title(language.English).String(s.name))
}

// Simple возвращает литерал с именем сервиса
func (s *Service) Simple(ctx context.Context) string {
	_, span := tracing.StartApplication(ctx, s.name+"-operation")
	defer span.End()
	return s.name
}

// Test вызывает простой маршрут соседа и склеивает ответ со своим именем
func (s *Service) Test(ctx context.Context) Reply {
	ctx, span := tracing.StartApplication(ctx, "Test")
	defer span.End()

	body, err := s.peer.Fetch(ctx)
	s.observer.ObservePeerCall(s.peer.Name(), err)
	if err != nil {
		span.RecordError(err)
		logging.WithRequest(ctx, s.log).Warn("peer call failed",
			zap.String("peer", s.peer.Name()),
			zap.Error(err),
		)
		return Reply{
			Status: http.StatusInternalServerError,
			Body:   fmt.Sprintf("Error calling %s service: %s", s.peer.Name(), err),
		}
	}

	span.SetAttributes(attribute.Int("peer.body.size", len(body)))
	return Reply{Status: http.StatusOK, Body: s.name + " " + body}
}
