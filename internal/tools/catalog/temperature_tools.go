package catalog

import (
	"context"

	"github.com/unitwise/unitwise/internal/conversion"
	"github.com/unitwise/unitwise/internal/tools"
	toolsystem "github.com/unitwise/unitwise/pkg/tool_system"
)

// CelsiusToFahrenheitToolBuilder builds the celsius_to_fahrenheit tool
type CelsiusToFahrenheitToolBuilder struct{}

func (b *CelsiusToFahrenheitToolBuilder) Build(deps *tools.ToolDependencies) (toolsystem.Tool, error) {
	conv := deps.Converter
	return toolsystem.NewToolBuilder("celsius_to_fahrenheit", "1.0.0", "Convert Celsius to Fahrenheit").
		AddNumberParameter("celsius", "The temperature in Celsius", false).
		SetHandler(func(ctx context.Context, args map[string]any) (map[string]any, error) {
			req, err := conversion.Parse(args, conversion.CelsiusFields)
			if err != nil {
				return nil, err
			}
			fahrenheit := conv.CelsiusToFahrenheit(req.Value)
			result := conversion.NewResult(req.Value, conversion.UnitCelsius, fahrenheit, conversion.UnitFahrenheit)
			return result.AsMap(), nil
		}).
		AddTags("conversion", "temperature").
		Build()
}

// FahrenheitToCelsiusToolBuilder builds the fahrenheit_to_celsius tool
type FahrenheitToCelsiusToolBuilder struct{}

func (b *FahrenheitToCelsiusToolBuilder) Build(deps *tools.ToolDependencies) (toolsystem.Tool, error) {
	conv := deps.Converter
	return toolsystem.NewToolBuilder("fahrenheit_to_celsius", "1.0.0", "Convert Fahrenheit to Celsius").
		AddNumberParameter("fahrenheit", "The temperature in Fahrenheit", false).
		SetHandler(func(ctx context.Context, args map[string]any) (map[string]any, error) {
			req, err := conversion.Parse(args, conversion.FahrenheitFields)
			if err != nil {
				return nil, err
			}
			celsius := conv.FahrenheitToCelsius(req.Value)
			result := conversion.NewResult(req.Value, conversion.UnitFahrenheit, celsius, conversion.UnitCelsius)
			return result.AsMap(), nil
		}).
		AddTags("conversion", "temperature").
		Build()
}
