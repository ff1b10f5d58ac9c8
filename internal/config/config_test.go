// Copyright 2018-2024 Onai (Onu Technology, Inc.)
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schedsat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "text", cfg.Output.Format)
	assert.True(t, cfg.Solver.PriceDomain().IsEmpty())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
solver:
  verbose: true
  price_min: -5
  price_max: 7
loader:
  max_commitments: 3
output:
  format: yaml
  verify: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Solver.Verbose)
	assert.Equal(t, 3, cfg.Loader.MaxCommitments)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.True(t, cfg.Output.Verify)
	assert.Equal(t, "[-5,7]", cfg.Solver.PriceDomain().String())
}

func TestLoad_KeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "loader:\n  max_commitments: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, 2, cfg.Loader.MaxCommitments)

	cfg, err = Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "UnknownField", content: "solver:\n  timeout: 3\n", wantErr: "failed to parse"},
		{name: "NotYAML", content: "solver: [\n", wantErr: "failed to parse"},
		{name: "HalfPriceDomain", content: "solver:\n  price_min: 1\n", wantErr: "set together"},
		{name: "ReversedPriceDomain", content: "solver:\n  price_min: 2\n  price_max: 1\n", wantErr: "above"},
		{name: "NegativeMaxCommitments", content: "loader:\n  max_commitments: -1\n", wantErr: "max_commitments"},
		{name: "Format", content: "output:\n  format: xml\n", wantErr: "output.format"},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, test.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.wantErr)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
