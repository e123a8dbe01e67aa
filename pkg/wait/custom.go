package wait

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/devicelab-dev/uiwait/pkg/core"
	"github.com/devicelab-dev/uiwait/pkg/selector"
)

// AttributeSpec matches an attribute by name. A nil Value means "the
// attribute is set to anything, including the empty string"; a non-nil Value
// requires exact string equality.
type AttributeSpec struct {
	Name  string
	Value *string
}

// PropertySpec requires a property to equal Value.
type PropertySpec struct {
	Name  string
	Value any
}

// Predicate is an arbitrary user check over the raw element handle.
type Predicate func(ctx context.Context, element any, driver core.Driver) (bool, error)

// CustomSpec parameterizes a custom condition. A well-formed caller sets
// exactly one field. When several are set, dispatch follows a fixed priority:
// HasClassName, HasAttribute, HasText, HasProperty, Custom.
type CustomSpec struct {
	// HasClassName requires exact membership in the whitespace-separated
	// class attribute.
	HasClassName string
	// HasAttribute requires an attribute to be set or to equal a value.
	HasAttribute *AttributeSpec
	// HasText requires the element text to contain the substring
	// (case-sensitive).
	HasText string
	// HasProperty requires a property to equal a value.
	HasProperty *PropertySpec
	// Custom is a user-supplied predicate over the raw element handle.
	Custom Predicate
}

// IsZero reports whether no check is configured.
func (s CustomSpec) IsZero() bool {
	return s.HasClassName == "" && s.HasAttribute == nil && s.HasText == "" &&
		s.HasProperty == nil && s.Custom == nil
}

func (s CustomSpec) describe() string {
	switch {
	case s.HasClassName != "":
		return fmt.Sprintf("to have class %q", s.HasClassName)
	case s.HasAttribute != nil:
		if s.HasAttribute.Value == nil {
			return fmt.Sprintf("to have attribute %q", s.HasAttribute.Name)
		}
		return fmt.Sprintf("to have attribute %q equal to %q", s.HasAttribute.Name, *s.HasAttribute.Value)
	case s.HasText != "":
		return fmt.Sprintf("to have text %q", s.HasText)
	case s.HasProperty != nil:
		return fmt.Sprintf("to have property %q equal to %v", s.HasProperty.Name, s.HasProperty.Value)
	case s.Custom != nil:
		return "to satisfy custom predicate"
	default:
		return "to satisfy empty custom spec"
	}
}

// evaluate runs one tick of the custom check. Existence is a precondition
// for every shape: a missing element counts as "not met", not an error.
// Retrieval errors propagate to the polling loop, which tolerates them.
func (s CustomSpec) evaluate(ctx context.Context, d core.Driver, sel selector.Selector) (bool, error) {
	exists, err := d.Exists(ctx, sel)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	switch {
	case s.HasClassName != "":
		val, err := d.Attribute(ctx, sel, "class")
		if err != nil {
			return false, err
		}
		if val == nil {
			return false, nil
		}
		for _, cls := range strings.Fields(*val) {
			if cls == s.HasClassName {
				return true, nil
			}
		}
		return false, nil

	case s.HasAttribute != nil:
		val, err := d.Attribute(ctx, sel, s.HasAttribute.Name)
		if err != nil {
			return false, err
		}
		if val == nil {
			return false, nil
		}
		if s.HasAttribute.Value == nil {
			return true, nil
		}
		return *val == *s.HasAttribute.Value, nil

	case s.HasText != "":
		text, err := d.Text(ctx, sel)
		if err != nil {
			return false, err
		}
		return strings.Contains(text, s.HasText), nil

	case s.HasProperty != nil:
		val, err := d.Property(ctx, sel, s.HasProperty.Name)
		if err != nil {
			return false, err
		}
		return reflect.DeepEqual(val, s.HasProperty.Value), nil

	case s.Custom != nil:
		el, err := d.Element(ctx, sel)
		if err != nil {
			return false, err
		}
		if el == nil {
			return false, nil
		}
		return s.Custom(ctx, el, d)

	default:
		return false, core.ErrInvalidConfig.WithMessage("custom condition spec has no check configured")
	}
}
