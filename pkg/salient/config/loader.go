package config

import (
	"fmt"

	"github.com/cognicore/salient/pkg/salient/corpus"
)

// Loader loads configuration files and constructs components
type Loader struct {
	PipelinePath string
	StoplistPath string
}

// Components holds the loaded configuration components
type Components struct {
	Pipeline   Pipeline
	Normalizer *corpus.TextNormalizer
}

// Load reads the configuration files and returns initialized components.
// Missing paths fall back to defaults.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{Pipeline: Default()}

	if l.PipelinePath != "" {
		p, err := LoadPipeline(l.PipelinePath)
		if err != nil {
			return nil, fmt.Errorf("load pipeline config: %w", err)
		}
		comp.Pipeline = *p
	}

	var stopwords []string
	if l.StoplistPath != "" {
		sl, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		stopwords = sl.Terms
	}

	comp.Normalizer = corpus.NewTextNormalizer(corpus.NormalizerOptions{
		Stopwords:      stopwords,
		StripHTML:      comp.Pipeline.Normalizer.StripHTML,
		Stem:           comp.Pipeline.Normalizer.Stem,
		FoldDiacritics: comp.Pipeline.Normalizer.FoldDiacritics,
	})

	return comp, nil
}
