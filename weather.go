package breeze

import (
	"context"
	"encoding/json"
	"errors"
)

// WeatherService fetches the current weather document for a city.
// The document is opaque JSON; callers never interpret its fields.
type WeatherService interface {
	Weather(ctx context.Context, city string) (json.RawMessage, error)
}

// WeatherResult is the data-bearing payload of a weather lookup: either the
// provider's document or an error object of the form {"error": "..."}.
type WeatherResult struct {
	Document json.RawMessage
	Error    string
}

// WeatherFailure wraps err as an in-band error result.
func WeatherFailure(err error) WeatherResult {
	return WeatherResult{Error: err.Error()}
}

// Failed reports whether the result carries an error instead of a document.
func (r WeatherResult) Failed() bool { return r.Error != "" }

type weatherError struct {
	Error *string `json:"error"`
}

// MarshalJSON emits the document verbatim or the error object.
func (r WeatherResult) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(weatherError{Error: &r.Error})
	}
	if len(r.Document) == 0 {
		return nil, errors.New("weather result has neither document nor error")
	}
	return r.Document, nil
}

// UnmarshalJSON accepts any JSON value. A top-level object whose "error"
// field is a string becomes a failed result.
func (r *WeatherResult) UnmarshalJSON(data []byte) error {
	if !json.Valid(data) {
		return errors.New("weather result is not valid JSON")
	}
	var probe weatherError
	if err := json.Unmarshal(data, &probe); err == nil && probe.Error != nil {
		*r = WeatherResult{Error: *probe.Error}
		return nil
	}
	*r = WeatherResult{Document: append(json.RawMessage(nil), data...)}
	return nil
}
