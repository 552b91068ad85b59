package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gaurav-prasanna/termscan/core/normalize"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain ascii untouched", in: "You have the right to cancel.", want: "You have the right to cancel."},
		{name: "curly single quotes", in: "it’s the user‘s", want: "it's the user's"},
		{name: "curly double quotes", in: "“terms”", want: `"terms"`},
		{name: "em dash", in: "rights—all of them", want: "rights--all of them"},
		{name: "ellipsis", in: "and so on…", want: "and so on..."},
		{name: "newlines", in: "line one\nline two", want: "line one line two"},
		{name: "crlf is one space", in: "a\r\nb", want: "a b"},
		{name: "bare carriage return", in: "a\rb", want: "a b"},
		{name: "unmapped passes through", in: "café 中", want: "café 中"},
		{name: "empty", in: "", want: ""},
	}

	n := normalize.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"“Quoted”—and…\n\r\n",
		"already -- ascii ... text",
		"’’’",
		"mixed éè and ☃",
		"\n\n\n",
	}
	for _, in := range inputs {
		once := normalize.Text(in)
		assert.Equal(t, once, normalize.Text(once), "input %q", in)
	}
}
