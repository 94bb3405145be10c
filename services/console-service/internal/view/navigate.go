package view

import (
	"fmt"
	"net/url"
	"strings"
)

// Navigator resolves where the external frontend shows a single
// appointment. The console emits the intent and never awaits the outcome.
type Navigator interface {
	DetailsURL(id string) string
}

// TemplateNavigator builds details URLs from a template, either with a %s
// placeholder or by appending the id as a path segment.
type TemplateNavigator struct {
	Template string
}

func (n TemplateNavigator) DetailsURL(id string) string {
	escaped := url.PathEscape(id)
	if strings.Contains(n.Template, "%s") {
		return fmt.Sprintf(n.Template, escaped)
	}
	return strings.TrimRight(n.Template, "/") + "/" + escaped
}
