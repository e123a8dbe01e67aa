// Package selector defines the cross-backend vocabulary for addressing one
// UI element. A Selector is an immutable bag of hints; which hint wins when
// several are set is backend-defined, and uniqueness of the match is the
// backend's responsibility.
package selector

import "gopkg.in/yaml.v3"

// Selector represents element selection criteria.
// Pure data structure - drivers decide how to resolve it.
type Selector struct {
	// TestID is the dedicated test identifier (testID prop, data-testid).
	TestID string `yaml:"testId" json:"testId,omitempty"`
	// ID is the DOM or native resource id.
	ID string `yaml:"id" json:"id,omitempty"`
	// Text is the visible text to match.
	Text string `yaml:"text" json:"text,omitempty"`
	// XPath is a path expression for backends that support it.
	XPath string `yaml:"xpath" json:"xpath,omitempty"`
	// ClassName matches a CSS class or native widget class.
	ClassName string `yaml:"className" json:"className,omitempty"`
	// Accessibility matches the accessibility label / aria-label.
	Accessibility string `yaml:"accessibility" json:"accessibility,omitempty"`
	// Custom carries backend-specific hints not covered above.
	Custom map[string]string `yaml:"custom" json:"custom,omitempty"`
}

// selectorRaw is used for YAML parsing.
type selectorRaw struct {
	TestID        string            `yaml:"testId"`
	ID            string            `yaml:"id"`
	Text          string            `yaml:"text"`
	XPath         string            `yaml:"xpath"`
	ClassName     string            `yaml:"className"`
	Accessibility string            `yaml:"accessibility"`
	Custom        map[string]string `yaml:"custom"`
}

// UnmarshalYAML allows Selector to be unmarshaled from string or struct.
// A bare string is shorthand for a test identifier.
func (s *Selector) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		s.TestID = node.Value
		return nil
	}

	var raw selectorRaw
	if err := node.Decode(&raw); err != nil {
		return err
	}

	s.TestID = raw.TestID
	s.ID = raw.ID
	s.Text = raw.Text
	s.XPath = raw.XPath
	s.ClassName = raw.ClassName
	s.Accessibility = raw.Accessibility
	s.Custom = raw.Custom

	return nil
}

// IsEmpty returns true if no selector properties are set.
func (s Selector) IsEmpty() bool {
	return s.TestID == "" &&
		s.ID == "" &&
		s.Text == "" &&
		s.XPath == "" &&
		s.ClassName == "" &&
		s.Accessibility == "" &&
		len(s.Custom) == 0
}

// Describe returns a human-readable description used in log lines and
// failure messages.
func (s Selector) Describe() string {
	switch {
	case s.TestID != "":
		return "testId=\"" + s.TestID + "\""
	case s.ID != "":
		return "#" + s.ID
	case s.Text != "":
		return "text=\"" + s.Text + "\""
	case s.XPath != "":
		return "xpath=\"" + s.XPath + "\""
	case s.ClassName != "":
		return "class=\"" + s.ClassName + "\""
	case s.Accessibility != "":
		return "accessibility=\"" + s.Accessibility + "\""
	case len(s.Custom) > 0:
		return "custom selector"
	default:
		return "empty selector"
	}
}

// DescribeQuoted returns a uniform key="value" description, quoting the id
// form that Describe abbreviates.
func (s Selector) DescribeQuoted() string {
	if s.ID != "" && s.TestID == "" {
		return "id=\"" + s.ID + "\""
	}
	return s.Describe()
}

// ByTestID returns a selector matching the dedicated test identifier.
func ByTestID(id string) Selector { return Selector{TestID: id} }

// ByID returns a selector matching the DOM/native id.
func ByID(id string) Selector { return Selector{ID: id} }

// ByText returns a selector matching visible text.
func ByText(text string) Selector { return Selector{Text: text} }

// ByXPath returns a selector using a path expression.
func ByXPath(expr string) Selector { return Selector{XPath: expr} }
