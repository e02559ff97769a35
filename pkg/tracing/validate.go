package tracing

import "fmt"

type Layer string
type SubLayer string

const (
	LayerApplication  Layer = "application"
	LayerPresentation Layer = "presentation"
	LayerIntegration  Layer = "integration"
)

const (
	SubLayerUseCase SubLayer = "usecase"
	SubLayerHTTP    SubLayer = "http"
)

// Допустимые комбинации Layer -> SubLayer
var validSubLayers = map[Layer][]SubLayer{
	LayerApplication:  {SubLayerUseCase},
	LayerPresentation: {SubLayerHTTP},
	LayerIntegration:  {SubLayerHTTP},
}

// validateLayerSubLayer проверяет, что подслой относится к слою
func validateLayerSubLayer(layer Layer, subLayer SubLayer) error {
	validSubLayersForLayer, exists := validSubLayers[layer]
	if !exists {
		return fmt.Errorf("unknown layer: %s", layer)
	}
	for _, validSubLayer := range validSubLayersForLayer {
		if validSubLayer == subLayer {
			return nil
		}
	}
	return fmt.Errorf("invalid sublayer %s for layer %s", subLayer, layer)
}
