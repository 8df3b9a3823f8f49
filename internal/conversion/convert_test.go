package conversion

import (
	"math"
	"testing"

	"github.com/unitwise/unitwise/pkg/Logger"
)

const tolerance = 1e-9

func testConverter() *Converter {
	return NewConverter(Logger.New(true))
}

func TestFeetToMeters(t *testing.T) {
	c := testConverter()

	got := c.FeetToMeters(10, false)
	if math.Abs(got-3.048) > tolerance {
		t.Errorf("expected 3.048 meters, got %v", got)
	}

	// scaling back by the factor must recover the input
	if math.Abs(c.FeetToMeters(7.5, false)/0.3048-7.5) > tolerance {
		t.Errorf("feet->meters does not invert by /0.3048")
	}
}

func TestFeetToMetersExpressedInMiles(t *testing.T) {
	c := testConverter()

	plain := c.FeetToMeters(5280, false)
	adjusted := c.FeetToMeters(5280, true)
	if math.Abs(adjusted-plain/1609.34) > tolerance {
		t.Errorf("expected %v, got %v", plain/1609.34, adjusted)
	}
}

func TestMilesToKilometers(t *testing.T) {
	c := testConverter()

	got := c.MilesToKilometers(2, false)
	if math.Abs(got-3.21868) > tolerance {
		t.Errorf("expected 3.21868 kilometers, got %v", got)
	}

	adjusted := c.MilesToKilometers(2, true)
	if math.Abs(adjusted-3.21868*0.621371) > tolerance {
		t.Errorf("expressed_in_feet adjustment wrong, got %v", adjusted)
	}
}

func TestMetersToFeet(t *testing.T) {
	c := testConverter()

	got := c.MetersToFeet(3, false)
	if math.Abs(got-9.84252) > tolerance {
		t.Errorf("expected 9.84252 feet, got %v", got)
	}

	adjusted := c.MetersToFeet(3, true)
	if math.Abs(adjusted-9.84252/1.60934) > tolerance {
		t.Errorf("expressed_in_kilometers adjustment wrong, got %v", adjusted)
	}
}

func TestKilometersToMeters(t *testing.T) {
	c := testConverter()

	got := c.KilometersToMeters(1.5, false)
	if math.Abs(got-1500) > tolerance {
		t.Errorf("expected 1500 meters, got %v", got)
	}

	adjusted := c.KilometersToMeters(1.5, true)
	if math.Abs(adjusted-1500/3.28084) > tolerance {
		t.Errorf("expressed_in_meters adjustment wrong, got %v", adjusted)
	}
}

func TestTemperatureRoundTrip(t *testing.T) {
	c := testConverter()

	for _, x := range []float64{-40, 0, 37, 98.6, 451} {
		back := c.CelsiusToFahrenheit(c.FahrenheitToCelsius(x))
		if math.Abs(back-x) > tolerance {
			t.Errorf("round trip of %v drifted to %v", x, back)
		}
	}
}

func TestFahrenheitToCelsiusBodyTemp(t *testing.T) {
	c := testConverter()

	got := c.FahrenheitToCelsius(98.6)
	if math.Abs(got-37.0) > tolerance {
		t.Errorf("expected 37.0 celsius, got %v", got)
	}
}

func TestResultTimestampAssigned(t *testing.T) {
	r := NewResult(10, UnitFeet, 3.048, UnitMeters)
	if r.Timestamp.IsZero() {
		t.Error("result timestamp was not assigned at computation time")
	}
	if r.InputUnit != UnitFeet || r.OutputUnit != UnitMeters {
		t.Errorf("unexpected units: %s -> %s", r.InputUnit, r.OutputUnit)
	}

	m := r.AsMap()
	if m["output_value"] != 3.048 {
		t.Errorf("AsMap lost output value: %v", m["output_value"])
	}
}
