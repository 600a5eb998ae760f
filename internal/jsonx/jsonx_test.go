package jsonx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"Sure! Here it is:\n```json\n[{\"word\":\"x\"}]\n```", `[{"word":"x"}]`},
		{`prefix {"a":{"b":"}"}} suffix`, `{"a":{"b":"}"}}`},
		{`[1,[2,3]] trailing`, `[1,[2,3]]`},
		{`escaped {"a":"\""}`, `{"a":"\""}`},
		{`no json here`, ``},
		{`broken {"a":`, ``},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Extract(tc.in), "input=%q", tc.in)
	}
}
