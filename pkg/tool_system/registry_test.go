package toolsystem

import (
	"context"
	"testing"
)

func noopHandler(ctx context.Context, args map[string]any) (map[string]any, error) {
	return map[string]any{}, nil
}

func mustBuild(t *testing.T, name, description string) Tool {
	t.Helper()
	tool, err := NewToolBuilder(name, "1.0.0", description).
		SetHandler(noopHandler).
		Build()
	if err != nil {
		t.Fatalf("failed to build %s: %v", name, err)
	}
	return tool
}

func TestRegistryPreservesOrder(t *testing.T) {
	reg := NewMemoryRegistry()
	names := []string{"feet_to_meters", "meters_to_feet", "celsius_to_fahrenheit", "fahrenheit_to_celsius"}
	for _, name := range names {
		if err := reg.Register(mustBuild(t, name, "Convert "+name)); err != nil {
			t.Fatalf("register %s failed: %v", name, err)
		}
	}

	descriptors := reg.Descriptors()
	if len(descriptors) != len(names) {
		t.Fatalf("expected %d descriptors, got %d", len(names), len(descriptors))
	}
	for i, d := range descriptors {
		if d.Name != names[i] {
			t.Errorf("descriptor %d: expected %s, got %s", i, names[i], d.Name)
		}
	}

	contract := reg.GetContractTools()
	for i, ct := range contract {
		if ct.Name != names[i] {
			t.Errorf("contract tool %d out of order: %s", i, ct.Name)
		}
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := NewMemoryRegistry()
	tool := mustBuild(t, "feet_to_meters", "Convert Feet to Meters")
	if err := reg.Register(tool); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := reg.Register(tool); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestRegistryGet(t *testing.T) {
	reg := NewMemoryRegistry()
	if _, ok := reg.Get("missing"); ok {
		t.Error("expected lookup miss on empty registry")
	}
	if err := reg.Register(mustBuild(t, "celsius_to_fahrenheit", "Convert Celsius to Fahrenheit")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	tool, ok := reg.Get("celsius_to_fahrenheit")
	if !ok {
		t.Fatal("expected registered tool to be found")
	}
	if tool.Spec.Description != "Convert Celsius to Fahrenheit" {
		t.Errorf("unexpected description %q", tool.Spec.Description)
	}
}

func TestBuilderSchema(t *testing.T) {
	tool, err := NewToolBuilder("feet_to_meters", "1.0.0", "Convert Feet to Meters").
		AddNumberParameter("feet", "The length in feet", false).
		AddBooleanParameter("expressed_in_miles", "Express the result in miles", false).
		SetHandler(noopHandler).
		Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	schema := tool.Spec.ParametersSchema()
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema properties missing: %v", schema)
	}
	feet, ok := props["feet"].(map[string]any)
	if !ok || feet["type"] != "number" {
		t.Errorf("feet property malformed: %v", props["feet"])
	}
}

func TestBuilderRequiresHandler(t *testing.T) {
	if _, err := NewToolBuilder("x", "1.0.0", "no handler").Build(); err == nil {
		t.Error("expected build to fail without handler")
	}
}
