package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Pipeline holds the run parameters for one analysis.
type Pipeline struct {
	NGram struct {
		Min int `yaml:"min"`
		Max int `yaml:"max"`
	} `yaml:"ngram"`

	Clusters int   `yaml:"clusters"`
	Seed     int64 `yaml:"seed"`

	FrequencyTopN int `yaml:"frequency_top_n"`
	KeyphraseTopN int `yaml:"keyphrase_top_n"`
	TopK          int `yaml:"top_k"`

	Keyphrase struct {
		Method string `yaml:"method"` // statistical | cooccurrence | embedding
	} `yaml:"keyphrase"`

	Dedup struct {
		Strategy   string  `yaml:"strategy"` // embedding | lexical
		Similarity float64 `yaml:"similarity"`
		Ratio      int     `yaml:"ratio"`
	} `yaml:"dedup"`

	Normalizer struct {
		StripHTML      bool `yaml:"strip_html"`
		Stem           bool `yaml:"stem"`
		FoldDiacritics bool `yaml:"fold_diacritics"`
	} `yaml:"normalizer"`
}

// Default returns the parameters matching the usual interactive run:
// uni- to tri-grams, five clusters, lexical dedup at ratio 80.
func Default() Pipeline {
	var p Pipeline
	p.NGram.Min = 1
	p.NGram.Max = 3
	p.Clusters = 5
	p.Seed = 42
	p.FrequencyTopN = 100
	p.KeyphraseTopN = 5
	p.TopK = 100
	p.Keyphrase.Method = "statistical"
	p.Dedup.Strategy = "lexical"
	p.Dedup.Similarity = 0.85
	p.Dedup.Ratio = 80
	p.Normalizer.Stem = true
	return p
}

// LoadPipeline loads pipeline parameters from a YAML file, filling
// unspecified fields from Default.
func LoadPipeline(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
