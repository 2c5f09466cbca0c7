package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deasciifier/internal/textrange"
	"deasciifier/internal/transform"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		mode string
		in   string
		sel  textrange.Range
		want string
	}{
		{"deasciify all", "deasciify", "Agaca ciktik\n", textrange.Range{}, "Ağaça çıktık\n"},
		{"deasciify selection", "deasciify", "Agaca ciktik", textrange.New(0, 4), "Ağaça ciktik"},
		{"asciify all", "asciify", "Ağaça çıktık", textrange.Range{}, "Agaca ciktik"},
		{"decomposed input", "asciify", "c\u0327ok", textrange.Range{}, "cok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			err := run(strings.NewReader(tt.in), &out, &errOut, tt.mode, "", tt.sel, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRunErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run(strings.NewReader("x"), &out, &errOut, "rot13", "", textrange.Range{}, false)
	assert.ErrorIs(t, err, transform.ErrUnknownMode)

	err = run(strings.NewReader("abc"), &out, &errOut, "deasciify", "", textrange.New(2, 1), false)
	assert.ErrorIs(t, err, textrange.ErrInvalidRange)
}

func TestRunVerbose(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, run(strings.NewReader("Agaca"), &out, &errOut, "deasciify", "", textrange.Range{}, true))
	assert.Contains(t, errOut.String(), "converted")
}
