package toolsetup

import (
	"fmt"

	"github.com/unitwise/unitwise/internal/tools"
	"github.com/unitwise/unitwise/internal/tools/catalog"
)

// RegisterToolBuilders registers all tool builders with the factory.
// This function exists in a separate package to avoid import cycles.
// Registration order fixes the order tools appear in the instruction
// prompt and in tool listings.
func RegisterToolBuilders(factory *tools.ToolFactory) error {
	// Length conversion tools
	if err := factory.RegisterBuilder("feet_to_meters", &catalog.FeetToMetersToolBuilder{}); err != nil {
		return fmt.Errorf("failed to register feet to meters tool: %w", err)
	}

	if err := factory.RegisterBuilder("meters_to_feet", &catalog.MetersToFeetToolBuilder{}); err != nil {
		return fmt.Errorf("failed to register meters to feet tool: %w", err)
	}

	// Temperature conversion tools
	if err := factory.RegisterBuilder("celsius_to_fahrenheit", &catalog.CelsiusToFahrenheitToolBuilder{}); err != nil {
		return fmt.Errorf("failed to register celsius to fahrenheit tool: %w", err)
	}

	if err := factory.RegisterBuilder("fahrenheit_to_celsius", &catalog.FahrenheitToCelsiusToolBuilder{}); err != nil {
		return fmt.Errorf("failed to register fahrenheit to celsius tool: %w", err)
	}

	return nil
}
