package selector

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSelector_UnmarshalYAML_ScalarValue(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		expected string
	}{
		{
			name:     "simple id",
			yaml:     `"login-button"`,
			expected: "login-button",
		},
		{
			name:     "unquoted id",
			yaml:     `counter-display`,
			expected: "counter-display",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Selector
			if err := yaml.Unmarshal([]byte(tt.yaml), &s); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.TestID != tt.expected {
				t.Errorf("got TestID=%q, want %q", s.TestID, tt.expected)
			}
		})
	}
}

func TestSelector_UnmarshalYAML_StructValue(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		validate func(t *testing.T, s *Selector)
	}{
		{
			name: "id selector",
			yaml: `id: login-btn`,
			validate: func(t *testing.T, s *Selector) {
				if s.ID != "login-btn" {
					t.Errorf("got ID=%q, want login-btn", s.ID)
				}
			},
		},
		{
			name: "text and testId",
			yaml: `
text: Login
testId: login-btn
`,
			validate: func(t *testing.T, s *Selector) {
				if s.Text != "Login" {
					t.Errorf("got Text=%q, want Login", s.Text)
				}
				if s.TestID != "login-btn" {
					t.Errorf("got TestID=%q, want login-btn", s.TestID)
				}
			},
		},
		{
			name: "xpath and class",
			yaml: `
xpath: //android.widget.Button[2]
className: btn-primary
`,
			validate: func(t *testing.T, s *Selector) {
				if s.XPath != "//android.widget.Button[2]" {
					t.Errorf("got XPath=%q", s.XPath)
				}
				if s.ClassName != "btn-primary" {
					t.Errorf("got ClassName=%q", s.ClassName)
				}
			},
		},
		{
			name: "custom bag",
			yaml: `
custom:
  predicate: type == 'XCUIElementTypeCell'
`,
			validate: func(t *testing.T, s *Selector) {
				if s.Custom["predicate"] != "type == 'XCUIElementTypeCell'" {
					t.Errorf("got Custom=%v", s.Custom)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Selector
			if err := yaml.Unmarshal([]byte(tt.yaml), &s); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.validate(t, &s)
		})
	}
}

func TestSelector_IsEmpty(t *testing.T) {
	if !(Selector{}).IsEmpty() {
		t.Error("zero selector should be empty")
	}
	if ByTestID("x").IsEmpty() {
		t.Error("selector with testId should not be empty")
	}
	if (Selector{Custom: map[string]string{"k": "v"}}).IsEmpty() {
		t.Error("selector with custom hints should not be empty")
	}
}

func TestSelector_Describe(t *testing.T) {
	tests := []struct {
		name     string
		sel      Selector
		expected string
	}{
		{"testId wins", Selector{TestID: "submit", ID: "other"}, `testId="submit"`},
		{"id", Selector{ID: "submit"}, "#submit"},
		{"text", Selector{Text: "Sign Up"}, `text="Sign Up"`},
		{"xpath", Selector{XPath: "//button"}, `xpath="//button"`},
		{"accessibility", Selector{Accessibility: "Close"}, `accessibility="Close"`},
		{"empty", Selector{}, "empty selector"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.Describe(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSelector_DescribeQuoted(t *testing.T) {
	tests := []struct {
		name     string
		sel      Selector
		expected string
	}{
		{"id quoted", ByID("login-form"), `id="login-form"`},
		{"testId unchanged", ByTestID("submit"), `testId="submit"`},
		{"text unchanged", ByText("Sign In"), `text="Sign In"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sel.DescribeQuoted(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
