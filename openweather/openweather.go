// Package openweather implements [breeze.WeatherService] for the OpenWeather
// current weather API.
package openweather

import "time"

const (
	// DefaultBaseURL is the OpenWeather data API root.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	// DefaultLang is the response language requested from the provider.
	DefaultLang = "zh_cn"

	weatherPath    = "/weather"
	userAgent      = "weather-app/1.0"
	defaultTimeout = 30 * time.Second
	maxBodySize    = 1 << 20
)
