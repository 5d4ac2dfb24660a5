// Package catalog provides the fixed tool catalog offered to the model.
//
// Input schemas are reflected from Go argument structs with
// invopop/jsonschema and enforced with xeipuuv/gojsonschema, so the schema
// the model sees is the schema arguments are checked against.
package catalog

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/fwojciec/breeze"
	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// QueryWeather is the name of the weather lookup tool.
const QueryWeather = "query_weather"

// QueryWeatherArgs are the arguments of the query_weather tool.
type QueryWeatherArgs struct {
	City string `json:"city" jsonschema:"minLength=1" jsonschema_description:"City name in English, for example Beijing or Shanghai"`
}

const queryWeatherDescription = "Look up the current weather for a city by its English name. For example Beijing means 北京 and Shanghai means 上海."

type entry struct {
	tool   breeze.Tool
	schema *gojsonschema.Schema
}

// Catalog is an immutable set of tool descriptors.
type Catalog struct {
	entries []entry
}

// New builds the catalog containing the query_weather tool.
func New() (*Catalog, error) {
	c := &Catalog{}
	if err := c.add(QueryWeather, queryWeatherDescription, &QueryWeatherArgs{}); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNew is like New but panics on error.
func MustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) add(name, description string, args any) error {
	ref := jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	s := ref.Reflect(args)
	s.Version = ""
	params, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("catalog: %s schema: %w", name, err)
	}
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(params))
	if err != nil {
		return fmt.Errorf("catalog: %s schema: %w", name, err)
	}
	c.entries = append(c.entries, entry{
		tool: breeze.Tool{
			Name:        name,
			Description: description,
			Parameters:  params,
		},
		schema: compiled,
	})
	return nil
}

// Tools returns the tool descriptors. The slice and schemas are copies, so
// callers cannot alter the catalog.
func (c *Catalog) Tools() []breeze.Tool {
	tools := make([]breeze.Tool, len(c.entries))
	for i, e := range c.entries {
		tools[i] = e.tool
		tools[i].Parameters = slices.Clone(e.tool.Parameters)
	}
	return tools
}

// Lookup returns the descriptor for name.
func (c *Catalog) Lookup(name string) (breeze.Tool, bool) {
	for _, e := range c.entries {
		if e.tool.Name == name {
			return e.tool, true
		}
	}
	return breeze.Tool{}, false
}

// Validate checks args against the input schema of the named tool.
// Unknown tools yield breeze.ErrToolNotFound; schema violations yield
// breeze.ErrInvalidToolArguments.
func (c *Catalog) Validate(name string, args map[string]any) error {
	idx := slices.IndexFunc(c.entries, func(e entry) bool { return e.tool.Name == name })
	if idx < 0 {
		return fmt.Errorf("catalog: %q: %w", name, breeze.ErrToolNotFound)
	}
	if args == nil {
		args = map[string]any{}
	}
	result, err := c.entries[idx].schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("catalog: validate %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}
	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("catalog: %s: %s: %w", name, strings.Join(errs, ", "), breeze.ErrInvalidToolArguments)
}
