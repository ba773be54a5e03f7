package models

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Label is the binary class assigned to a dialogue.
type Label int

const (
	LabelNormal Label = 0
	LabelFraud  Label = 1
)

// Flip returns the opposite label.
func (l Label) Flip() Label {
	if l == LabelFraud {
		return LabelNormal
	}
	return LabelFraud
}

func (l Label) String() string {
	if l == LabelFraud {
		return "fraud"
	}
	return "normal"
}

// ParseLabel accepts 0/1 or the label names.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "normal":
		return LabelNormal, nil
	case "1", "fraud":
		return LabelFraud, nil
	default:
		return 0, eris.Errorf("models: unknown label %q", s)
	}
}

const (
	SourceFile      = "file"
	SourceExample   = "example"
	SourceSynthetic = "synthetic"
)

// Sample is one labeled dialogue.
type Sample struct {
	Text   string `json:"text" yaml:"text" csv:"text"`
	Label  Label  `json:"label" yaml:"label" csv:"label"`
	Source string `json:"source,omitempty" yaml:"source,omitempty" csv:"-"`
}

// Texts returns the texts of samples in order.
func Texts(samples []Sample) []string {
	out := make([]string, len(samples))
	for i, s := range samples {
		out[i] = s.Text
	}
	return out
}

// Labels returns the labels of samples in order.
func Labels(samples []Sample) []Label {
	out := make([]Label, len(samples))
	for i, s := range samples {
		out[i] = s.Label
	}
	return out
}
