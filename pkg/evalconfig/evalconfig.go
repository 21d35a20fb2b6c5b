// Package evalconfig loads the operator-tunable knobs for cmd/qeval from
// YAML, so top-k capacity, threshold priming, and the BM25 coefficients
// can be adjusted without recompiling. Grounded on
// cognicore-io-korel/pkg/korel/config's LoadTaxonomy/LoadStoplist shape:
// os.ReadFile followed by yaml.Unmarshal into a tagged struct.
package evalconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EvalConfig bundles the parameters cmd/qeval otherwise takes as flags.
// Zero values mean "use the flag/compiled-in default"; Load never fills
// them in itself.
type EvalConfig struct {
	TopK  int     `yaml:"top_k"`
	Prime *bool   `yaml:"prime"`
	K1    float64 `yaml:"k1"`
	B     float64 `yaml:"b"`
}

// Load reads path as YAML into an EvalConfig.
func Load(path string) (*EvalConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("evalconfig: %w", err)
	}
	var cfg EvalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("evalconfig: %w", err)
	}
	return &cfg, nil
}
