package tracing

import (
	"go.opentelemetry.io/otel/attribute"
)

// PeerAttributes формирует атрибуты вызова соседнего сервиса
func PeerAttributes(peer, url string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("peer.service", peer),
		attribute.String("peer.url", url),
	}
}
