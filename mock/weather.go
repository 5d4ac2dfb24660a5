package mock

import (
	"context"
	"encoding/json"

	"github.com/fwojciec/breeze"
)

// Interface compliance check.
var _ breeze.WeatherService = (*WeatherService)(nil)

// WeatherService is a test double for breeze.WeatherService.
// Set WeatherFn before calling Weather.
type WeatherService struct {
	WeatherFn func(ctx context.Context, city string) (json.RawMessage, error)
}

// Weather delegates to WeatherFn.
func (s *WeatherService) Weather(ctx context.Context, city string) (json.RawMessage, error) {
	return s.WeatherFn(ctx, city)
}
