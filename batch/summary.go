package batch

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Status of a processed image.
type Status string

const (
	StatusSaved   Status = "saved"
	StatusSkipped Status = "skipped"
)

// Outcome describes what happened to one image. Path is relative to the
// batch root, Subject counts the preview pixels kept by the subject mask.
type Outcome struct {
	Path     string        `yaml:"path"`
	Status   Status        `yaml:"status"`
	Reason   string        `yaml:"reason,omitempty"`
	Width    int           `yaml:"width,omitempty"`
	Height   int           `yaml:"height,omitempty"`
	Subject  int           `yaml:"subject"`
	Min      uint8         `yaml:"min"`
	Max      uint8         `yaml:"max"`
	Duration time.Duration `yaml:"duration"`
}

// Summary sums a batch up.
type Summary struct {
	Root          string    `yaml:"root"`
	Started       time.Time `yaml:"started"`
	Finished      time.Time `yaml:"finished"`
	Saved         int       `yaml:"saved"`
	Skipped       int       `yaml:"skipped"`
	MetadataError string    `yaml:"metadata_error,omitempty"`
	Outcomes      []Outcome `yaml:"outcomes"`
}

func (s *Summary) add(o Outcome) {
	switch o.Status {
	case StatusSaved:
		s.Saved++
	default:
		s.Skipped++
	}
	s.Outcomes = append(s.Outcomes, o)
}

func (s *Summary) sort() {
	sortOutcomes(s.Outcomes)
}

// saved returns the paths of the images that were rewritten.
func (s *Summary) saved() []string {
	var paths []string
	for _, o := range s.Outcomes {
		if o.Status == StatusSaved {
			paths = append(paths, o.Path)
		}
	}
	return paths
}

func (s *Summary) String() string {
	return fmt.Sprintf("Folder complete: %d saved, %d skipped in %v.",
		s.Saved, s.Skipped, s.Finished.Sub(s.Started).Round(time.Millisecond))
}

// WriteReport saves the summary as YAML.
func (s *Summary) WriteReport(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
