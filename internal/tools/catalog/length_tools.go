package catalog

import (
	"context"

	"github.com/unitwise/unitwise/internal/conversion"
	"github.com/unitwise/unitwise/internal/tools"
	toolsystem "github.com/unitwise/unitwise/pkg/tool_system"
)

// FeetToMetersToolBuilder builds the feet_to_meters conversion tool
type FeetToMetersToolBuilder struct{}

func (b *FeetToMetersToolBuilder) Build(deps *tools.ToolDependencies) (toolsystem.Tool, error) {
	conv := deps.Converter
	return toolsystem.NewToolBuilder("feet_to_meters", "1.0.0", "Convert Feet to Meters").
		AddNumberParameter("feet", "The length in feet", false).
		AddNumberParameter("miles", "The length in miles", false).
		AddBooleanParameter("expressed_in_miles", "If true, the result is expressed in miles, if false, the result is expressed in feet", false).
		AddBooleanParameter("expressed_in_feet", "If true, the result is expressed in feet, if false, the result is expressed in miles", false).
		SetHandler(func(ctx context.Context, args map[string]any) (map[string]any, error) {
			req, err := conversion.Parse(args, conversion.FeetMetersFields)
			if err != nil {
				return nil, err
			}
			if req.Branch == conversion.SecondaryBranch {
				kilometers := conv.MilesToKilometers(req.Value, req.AltUnit)
				result := conversion.NewResult(req.Value, conversion.UnitMiles, kilometers, conversion.UnitKilometers)
				return result.AsMap(), nil
			}
			meters := conv.FeetToMeters(req.Value, req.AltUnit)
			result := conversion.NewResult(req.Value, conversion.UnitFeet, meters, conversion.UnitMeters)
			return result.AsMap(), nil
		}).
		AddTags("conversion", "length").
		Build()
}

// MetersToFeetToolBuilder builds the meters_to_feet conversion tool
type MetersToFeetToolBuilder struct{}

func (b *MetersToFeetToolBuilder) Build(deps *tools.ToolDependencies) (toolsystem.Tool, error) {
	conv := deps.Converter
	return toolsystem.NewToolBuilder("meters_to_feet", "1.0.0", "Convert Meters to Feet").
		AddNumberParameter("meters", "The length in meters", false).
		AddNumberParameter("kilometers", "The length in kilometers", false).
		AddBooleanParameter("expressed_in_kilometers", "If true, the result is expressed in kilometers, if false, the result is expressed in meters", false).
		AddBooleanParameter("expressed_in_meters", "If true, the result is expressed in meters, if false, the result is expressed in kilometers", false).
		SetHandler(func(ctx context.Context, args map[string]any) (map[string]any, error) {
			req, err := conversion.Parse(args, conversion.MetersFeetFields)
			if err != nil {
				return nil, err
			}
			if req.Branch == conversion.SecondaryBranch {
				meters := conv.KilometersToMeters(req.Value, req.AltUnit)
				result := conversion.NewResult(req.Value, conversion.UnitKilometers, meters, conversion.UnitMeters)
				return result.AsMap(), nil
			}
			feet := conv.MetersToFeet(req.Value, req.AltUnit)
			result := conversion.NewResult(req.Value, conversion.UnitMeters, feet, conversion.UnitFeet)
			return result.AsMap(), nil
		}).
		AddTags("conversion", "length").
		Build()
}
