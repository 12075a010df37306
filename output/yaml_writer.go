package output

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type YAMLWriter struct{}

func (w *YAMLWriter) Write(path string, report Report) error {
	content, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal yaml report: %w", err)
	}

	file, err := create(path)
	if err != nil {
		return err
	}
	if _, err := file.Write(content); err != nil {
		file.Close()
		return fmt.Errorf("write yaml report %s: %w", path, err)
	}
	return file.Close()
}
