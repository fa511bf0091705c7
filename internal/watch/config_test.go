// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cfg        Config
		wantFields int
	}{
		{name: "zero value is valid", cfg: Config{}},
		{
			name: "all valid fields",
			cfg: Config{
				Patterns: []string{"**/*.gsc"},
				Ignore:   []string{"**/tmp/**"},
				BaseDir:  "/home/user/mod/src",
				Debounce: 2 * time.Second,
			},
		},
		{name: "empty pattern", cfg: Config{Patterns: []string{""}}, wantFields: 1},
		{name: "empty ignore", cfg: Config{Ignore: []string{"  "}}, wantFields: 1},
		{name: "malformed glob", cfg: Config{Patterns: []string{"[invalid"}}, wantFields: 1},
		{name: "whitespace base dir", cfg: Config{BaseDir: "   "}, wantFields: 1},
		{name: "negative debounce", cfg: Config{Debounce: -time.Second}, wantFields: 1},
		{
			name: "every field invalid",
			cfg: Config{
				Patterns: []string{"", "**/*.gsc", ""},
				Ignore:   []string{""},
				BaseDir:  "   ",
				Debounce: -1,
			},
			wantFields: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantFields == 0 {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, ErrInvalidWatchConfig) {
				t.Fatalf("Validate() error = %v, want ErrInvalidWatchConfig", err)
			}
			var cfgErr *InvalidWatchConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Validate() error is %T, want *InvalidWatchConfigError", err)
			}
			if len(cfgErr.FieldErrors) != tt.wantFields {
				t.Errorf("field errors = %d, want %d: %v", len(cfgErr.FieldErrors), tt.wantFields, cfgErr.FieldErrors)
			}
		})
	}
}
