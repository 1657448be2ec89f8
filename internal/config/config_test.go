package config

import "testing"

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name           string
		env            map[string]string
		expectedCount  int
		expectedRadius float64
		expectedRule   string
		expectedExpire int
	}{
		{
			name:           "defaults",
			env:            map[string]string{},
			expectedCount:  DefaultParticleCount,
			expectedRadius: DefaultParticleRadius,
			expectedRule:   OverlapRuleDiameter,
			expectedExpire: 720,
		},
		{
			name: "overrides",
			env: map[string]string{
				"PARTICLE_COUNT":              "40",
				"PARTICLE_RADIUS":             "12.5",
				"OVERLAP_RULE":                "SUM",
				"ACCESS_TOKEN_EXPIRE_MINUTES": "5",
			},
			expectedCount:  40,
			expectedRadius: 12.5,
			expectedRule:   OverlapRuleSum,
			expectedExpire: 5,
		},
		{
			name: "invalid values fall back",
			env: map[string]string{
				"PARTICLE_COUNT":  "-3",
				"PARTICLE_RADIUS": "abc",
				"OVERLAP_RULE":    "nearest",
			},
			expectedCount:  DefaultParticleCount,
			expectedRadius: DefaultParticleRadius,
			expectedRule:   OverlapRuleDiameter,
			expectedExpire: 720,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"PARTICLE_COUNT", "PARTICLE_RADIUS", "OVERLAP_RULE", "ACCESS_TOKEN_EXPIRE_MINUTES", "SECRET_KEY"} {
				t.Setenv(key, "")
			}
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			cfg := LoadConfig()
			if cfg.ParticleCount != tt.expectedCount {
				t.Errorf("ParticleCount = %d, want %d", cfg.ParticleCount, tt.expectedCount)
			}
			if cfg.ParticleRadius != tt.expectedRadius {
				t.Errorf("ParticleRadius = %v, want %v", cfg.ParticleRadius, tt.expectedRadius)
			}
			if cfg.OverlapRule != tt.expectedRule {
				t.Errorf("OverlapRule = %q, want %q", cfg.OverlapRule, tt.expectedRule)
			}
			if cfg.AccessTokenExpireMinutes != tt.expectedExpire {
				t.Errorf("AccessTokenExpireMinutes = %d, want %d", cfg.AccessTokenExpireMinutes, tt.expectedExpire)
			}
			if cfg.SecretKey == "" {
				t.Error("SecretKey should be generated when unset")
			}
			if AppConfig != cfg {
				t.Error("AppConfig should point at the loaded config")
			}
		})
	}
}
