package browser

import (
	"errors"
	"strings"
	"testing"

	"github.com/devicelab-dev/uiwait/pkg/core"
	"github.com/devicelab-dev/uiwait/pkg/selector"
)

func TestLocatorJS(t *testing.T) {
	tests := []struct {
		name string
		sel  selector.Selector
		want string
	}{
		{
			"testId",
			selector.ByTestID("counter-display"),
			`document.querySelector('[data-testid="counter-display"]')`,
		},
		{
			"id",
			selector.ByID("login-form"),
			`document.getElementById("login-form")`,
		},
		{
			"css custom",
			selector.Selector{Custom: map[string]string{"css": "#app > .row"}},
			`document.querySelector("#app > .row")`,
		},
		{
			"xpath",
			selector.ByXPath(`//button[@type="submit"]`),
			`document.evaluate("//button[@type=\"submit\"]", document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`,
		},
		{
			"className",
			selector.Selector{ClassName: "btn-primary"},
			`document.getElementsByClassName("btn-primary")[0] || null`,
		},
		{
			"accessibility",
			selector.Selector{Accessibility: "Close dialog"},
			`document.querySelector('[aria-label="Close dialog"]')`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := locatorJS(tt.sel)
			if err != nil {
				t.Fatalf("locatorJS failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("locatorJS = %s\nwant        %s", got, tt.want)
			}
		})
	}

	t.Run("text uses xpath match", func(t *testing.T) {
		got, err := locatorJS(selector.ByText("Sign In"))
		if err != nil {
			t.Fatalf("locatorJS failed: %v", err)
		}
		if !strings.Contains(got, "normalize-space(text())") {
			t.Errorf("text locator = %s", got)
		}
	})

	t.Run("empty selector", func(t *testing.T) {
		_, err := locatorJS(selector.Selector{})
		if !errors.Is(err, core.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestJSString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", `"plain"`},
		{`with "quotes"`, `"with \"quotes\""`},
		{"line\nbreak", `"line\nbreak"`},
	}
	for _, tt := range tests {
		if got := jsString(tt.input); got != tt.want {
			t.Errorf("jsString(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestDriver_Framework(t *testing.T) {
	d := New(nil, nil)
	if d.Framework() != core.FrameworkCypress {
		t.Errorf("framework = %q", d.Framework())
	}
}
