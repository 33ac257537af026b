package render

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/username/fished/internal/countdown"
	"github.com/username/fished/internal/lunar"
)

type yamlDocument struct {
	countdown.Report `yaml:",inline"`
	Almanac          lunar.Almanac `yaml:"almanac"`
}

// YAML dumps the report and the day's almanac for scripting
func YAML(w io.Writer, r *countdown.Report, almanac lunar.Almanac) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlDocument{Report: *r, Almanac: almanac}); err != nil {
		return err
	}
	return enc.Close()
}
