package board

import "testing"

func TestNormalizedAppliesDefaultsToZeroOrNegativeFields(t *testing.T) {
	cfg := Config{AgentSpeed: -1, AgentDiameterMeters: 0, ObservationMeters: -5}
	normalized := cfg.Normalized()

	if normalized.AgentSpeed != DefaultAgentSpeed {
		t.Fatalf("expected default agent speed, got %v", normalized.AgentSpeed)
	}
	if normalized.AgentDiameterMeters != DefaultAgentDiameterMeters {
		t.Fatalf("expected default agent diameter, got %v", normalized.AgentDiameterMeters)
	}
	if normalized.ObservationMeters != DefaultObservationMeters {
		t.Fatalf("expected default observation radius, got %v", normalized.ObservationMeters)
	}
}

func TestNormalizedLeavesInflationRadiusAtZeroForDerivation(t *testing.T) {
	cfg := Config{}.Normalized()
	if cfg.InflationRadiusCells != 0 {
		t.Fatalf("expected zero inflation radius to signal agent-derived, got %v", cfg.InflationRadiusCells)
	}

	negative := Config{InflationRadiusCells: -2}.Normalized()
	if negative.InflationRadiusCells != 0 {
		t.Fatalf("expected a negative override to normalize to zero, got %v", negative.InflationRadiusCells)
	}
}

func TestResolveInflationRadiusCellsPrefersPositiveOverride(t *testing.T) {
	overridden := Config{InflationRadiusCells: 3.5}.Normalized()
	if got := overridden.ResolveInflationRadiusCells(1.0); got != 3.5 {
		t.Fatalf("expected the configured override to win, got %v", got)
	}

	derived := Config{}.Normalized()
	if got := derived.ResolveInflationRadiusCells(2.25); got != 2.25 {
		t.Fatalf("expected the derived radius when unset, got %v", got)
	}
}

func TestDefaultConfigDerivesInflationRadius(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.InflationRadiusCells != 0 {
		t.Fatalf("expected DefaultConfig to leave inflation radius derived, got %v", cfg.InflationRadiusCells)
	}
}
