package transpile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/addonc/pkg/errors"
	sitter "github.com/smacker/go-tree-sitter"
)

// lowerEnum rewrites an enum declaration into a var plus an initializing
// IIFE. Numeric members get reverse mappings; string members do not.
//
//	enum Color { Red, Green = 5 }
//
// becomes
//
//	var Color;
//	(function (Color) {
//	    Color[Color["Red"] = 0] = "Red";
//	    Color[Color["Green"] = 5] = "Green";
//	})(Color || (Color = {}));
func lowerEnum(n *sitter.Node, src []byte) (string, error) {
	nameNode := n.ChildByFieldName("name")
	body := n.ChildByFieldName("body")
	if nameNode == nil || body == nil {
		p := n.StartPoint()
		return "", unsupportedAt(p, "malformed enum declaration")
	}
	name := nameNode.Content(src)

	var b strings.Builder
	fmt.Fprintf(&b, "var %s;\n(function (%s) {\n", name, name)

	next := int64(0)
	canAutoNumber := true
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)

		var key string
		var value *sitter.Node
		switch member.Type() {
		case "enum_assignment":
			key = memberName(member.ChildByFieldName("name"), src)
			value = member.ChildByFieldName("value")
		case "comment":
			continue
		default:
			key = memberName(member, src)
		}

		switch {
		case value == nil:
			if !canAutoNumber {
				return "", unsupportedAt(member.StartPoint(), fmt.Sprintf("enum member %s needs an initializer", key))
			}
			fmt.Fprintf(&b, "    %s[%s[%q] = %d] = %q;\n", name, name, key, next, key)
			next++
		case value.Type() == "number":
			text := value.Content(src)
			if v, err := strconv.ParseInt(text, 0, 64); err == nil {
				next = v + 1
				canAutoNumber = true
			} else {
				canAutoNumber = false
			}
			fmt.Fprintf(&b, "    %s[%s[%q] = %s] = %q;\n", name, name, key, text, key)
		case value.Type() == "string" || value.Type() == "template_string":
			fmt.Fprintf(&b, "    %s[%q] = %s;\n", name, key, value.Content(src))
			canAutoNumber = false
		default:
			fmt.Fprintf(&b, "    %s[%s[%q] = %s] = %q;\n", name, name, key, value.Content(src), key)
			canAutoNumber = false
		}
	}

	fmt.Fprintf(&b, "})(%s || (%s = {}));", name, name)
	return b.String(), nil
}

func memberName(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	text := n.Content(src)
	if n.Type() == "string" && len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

func unsupportedAt(p sitter.Point, what string) error {
	return errors.Newf(errors.ErrTranspileUnsupported, "%s at %d:%d", what, p.Row+1, p.Column+1)
}
