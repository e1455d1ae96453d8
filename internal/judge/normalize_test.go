package judge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want string
	}{
		"trailing newline":     {in: "30\n", want: "30"},
		"crlf":                 {in: "1\r\n2\r\n", want: "1\n2"},
		"blank lines dropped":  {in: "\n\na\n\n\nb\n\n", want: "a\nb"},
		"inner lines trimmed":  {in: "  a  \n\t b\t", want: "a\nb"},
		"inner spaces kept":    {in: "hello   world", want: "hello   world"},
		"empty":                {in: "", want: ""},
		"only whitespace":      {in: " \r\n \n\t", want: ""},
		"lone carriage return": {in: "a\rb", want: "a\rb"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"30\n", " a \r\n\r\n b ", "x"} {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once))
	}
}
