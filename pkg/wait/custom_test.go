package wait_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicelab-dev/uiwait/pkg/core"
	"github.com/devicelab-dev/uiwait/pkg/driver/mock"
	"github.com/devicelab-dev/uiwait/pkg/wait"
)

func strptr(s string) *string { return &s }

func TestCustom_ClassMembership(t *testing.T) {
	d := mock.New()
	d.SetElement(sel, mock.ElementState{
		Exists:     true,
		Visible:    true,
		Attributes: map[string]string{"class": "btn primary active"},
	})

	tests := []struct {
		name  string
		class string
		want  bool
	}{
		{"exact token matches", "primary", true},
		{"first token matches", "btn", true},
		{"partial token does not match", "prim", false},
		{"missing token does not match", "secondary", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond := wait.Custom(d, sel, wait.CustomSpec{HasClassName: tt.class}, fastOptions(50*time.Millisecond), nil)
			assert.Equal(t, tt.want, cond.Execute(context.Background()))
		})
	}
}

func TestCustom_AttributeExistenceVsValue(t *testing.T) {
	d := mock.New()
	d.SetElement(sel, mock.ElementState{
		Exists:  true,
		Visible: true,
		Attributes: map[string]string{
			"disabled":    "",
			"data-status": "active",
		},
	})

	tests := []struct {
		name string
		spec wait.CustomSpec
		want bool
	}{
		{
			name: "existence check passes on empty value",
			spec: wait.CustomSpec{HasAttribute: &wait.AttributeSpec{Name: "disabled"}},
			want: true,
		},
		{
			name: "existence check fails on absent attribute",
			spec: wait.CustomSpec{HasAttribute: &wait.AttributeSpec{Name: "aria-hidden"}},
			want: false,
		},
		{
			name: "value check requires exact match",
			spec: wait.CustomSpec{HasAttribute: &wait.AttributeSpec{Name: "data-status", Value: strptr("active")}},
			want: true,
		},
		{
			name: "value check fails on mismatch",
			spec: wait.CustomSpec{HasAttribute: &wait.AttributeSpec{Name: "data-status", Value: strptr("idle")}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond := wait.Custom(d, sel, tt.spec, fastOptions(50*time.Millisecond), nil)
			assert.Equal(t, tt.want, cond.Execute(context.Background()))
		})
	}
}

func TestCustom_TextContainment(t *testing.T) {
	d := mock.New()
	d.SetElement(sel, mock.ElementState{Exists: true, Visible: true, Text: "Count: 42 items"})

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"substring matches", "42 items", true},
		{"full text matches", "Count: 42 items", true},
		{"case-sensitive", "count:", false},
		{"absent substring", "43", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond := wait.Custom(d, sel, wait.CustomSpec{HasText: tt.text}, fastOptions(50*time.Millisecond), nil)
			assert.Equal(t, tt.want, cond.Execute(context.Background()))
		})
	}
}

func TestCustom_PropertyEquality(t *testing.T) {
	d := mock.New()
	d.SetElement(sel, mock.ElementState{
		Exists:     true,
		Visible:    true,
		Properties: map[string]any{"checked": true, "value": "42"},
	})

	ok := wait.Custom(d, sel, wait.CustomSpec{HasProperty: &wait.PropertySpec{Name: "checked", Value: true}}, fastOptions(50*time.Millisecond), nil)
	assert.True(t, ok.Execute(context.Background()))

	strict := wait.Custom(d, sel, wait.CustomSpec{HasProperty: &wait.PropertySpec{Name: "value", Value: 42}}, fastOptions(50*time.Millisecond), nil)
	assert.False(t, strict.Execute(context.Background()), "string \"42\" must not equal int 42")
}

func TestCustom_Predicate(t *testing.T) {
	d := mock.New()
	d.SetElement(sel, mock.ElementState{Exists: true, Visible: true, Text: "ready"})

	var sawDriver core.Driver
	pred := func(_ context.Context, element any, driver core.Driver) (bool, error) {
		sawDriver = driver
		st, ok := element.(*mock.ElementState)
		require.True(t, ok, "mock passes its state as the opaque handle")
		return st.Text == "ready", nil
	}

	cond := wait.Custom(d, sel, wait.CustomSpec{Custom: pred}, fastOptions(time.Second), nil)
	require.True(t, cond.Execute(context.Background()))
	assert.Same(t, core.Driver(d), sawDriver, "predicate receives the driver")
}

func TestCustom_ExistenceIsPrecondition(t *testing.T) {
	d := mock.New()
	// Element scripted but marked as not existing.
	d.SetElement(sel, mock.ElementState{Exists: false, Attributes: map[string]string{"class": "primary"}})

	cond := wait.Custom(d, sel, wait.CustomSpec{HasClassName: "primary"}, fastOptions(50*time.Millisecond), nil)
	assert.False(t, cond.Execute(context.Background()))
	assert.Equal(t, 0, d.CallCount("Attribute"), "structural checks must not run before existence holds")
}

func TestCustom_DispatchPriority(t *testing.T) {
	d := mock.New()
	d.SetElement(sel, mock.ElementState{
		Exists:     true,
		Visible:    true,
		Text:       "irrelevant",
		Attributes: map[string]string{"class": "primary"},
	})

	// Both class and text set: class dispatch wins, text is never read.
	spec := wait.CustomSpec{HasClassName: "primary", HasText: "never-checked"}
	cond := wait.Custom(d, sel, spec, fastOptions(time.Second), nil)

	require.True(t, cond.Execute(context.Background()))
	assert.Equal(t, 0, d.CallCount("Text"))
}
