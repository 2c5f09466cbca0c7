package pattern

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePatterns = map[string]string{
	"c": "aXa|-bXb|-aX|-Xa",
	"g": "aXa|-bX|-Xb",
	"i": "Xk",
}

func decideAll(t *testing.T, table *Table, text string) []bool {
	t.Helper()
	src := []rune(text)
	out := make([]bool, len(src))
	for i := range src {
		convert, ok := table.Decide(src, i)
		out[i] = ok && convert
	}
	return out
}

func TestDecideSampleRules(t *testing.T) {
	table := MustCompile(samplePatterns)
	got := decideAll(t, table, "Agaca ciktik")
	//                 A      g     a      c     a      _      c     i     k      t      i     k
	want := []bool{false, true, false, true, false, false, true, true, false, false, true, false}
	assert.Equal(t, want, got)
}

func TestDecideFirstMatchWins(t *testing.T) {
	table := MustCompile(map[string]string{"c": "-aX|aXa"})
	src := []rune("aca")
	convert, ok := table.Decide(src, 1)
	require.True(t, ok)
	assert.False(t, convert, "-aX comes first and must decide")

	table = MustCompile(map[string]string{"c": "aXa|-aX"})
	convert, ok = table.Decide(src, 1)
	require.True(t, ok)
	assert.True(t, convert)
}

func TestDecideDefaultPolarity(t *testing.T) {
	table := MustCompile(map[string]string{"s": "aXa", "u": "aXa|-X"})
	src := []rune("xsx xux")
	convert, ok := table.Decide(src, 1)
	require.True(t, ok)
	assert.True(t, convert, "no match falls back to converting")

	convert, ok = table.Decide(src, 5)
	require.True(t, ok)
	assert.False(t, convert, "trailing -X flips the default")
}

func TestDecideUnknownLetters(t *testing.T) {
	table := MustCompile(samplePatterns)
	src := []rune("osa")
	for i := range src {
		_, ok := table.Decide(src, i)
		assert.False(t, ok, "index %d", i)
	}
	_, ok := table.Decide(src, -1)
	assert.False(t, ok)
	_, ok = table.Decide([]rune("ç"), 0)
	assert.False(t, ok, "accented letters are not ambiguous")
}

func TestDecideUppercaseSharesRule(t *testing.T) {
	table := MustCompile(map[string]string{"c": "-aX"})
	convert, ok := table.Decide([]rune("aC"), 1)
	require.True(t, ok)
	assert.False(t, convert)
}

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		rule string
		text string
		pos  int
		want bool
	}{
		{"literal is case sensitive", "-aX", "Ac", 1, true},
		{"literal out of bounds fails", "-aX", "c", 0, true},
		{"negated out of bounds holds", "-!aX", "c", 0, false},
		{"negated present fails", "-!aX", "ac", 1, true},
		{"negated absent holds", "-!aX", "bc", 1, false},
		{"wildcard at edge matches", "-.X", "c", 0, false},
		{"boundary matches space", "- X", "a c", 2, false},
		{"boundary matches edge", "- X", "c", 0, false},
		{"boundary rejects letter", "- X", "ac", 1, true},
		{"escaped dot is literal", `-\.X`, ".c", 1, false},
		{"escaped dot rejects letter", `-\.X`, "ac", 1, true},
		{"only turkish accents are stripped", "-aXa", "ãcâ", 1, true},
		{"circumflex neighbour matches", "-aXa", "âcâ", 1, false},
		{"accented neighbour matches", "-gX", "ğc", 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := MustCompile(map[string]string{"c": tt.rule})
			convert, ok := table.Decide([]rune(tt.text), tt.pos)
			require.True(t, ok)
			assert.Equal(t, tt.want, convert)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  map[string]string
	}{
		{"bad key", map[string]string{"a": "X"}},
		{"multi rune key", map[string]string{"cg": "X"}},
		{"missing X", map[string]string{"c": "ab"}},
		{"two X", map[string]string{"c": "XaX"}},
		{"dangling negation", map[string]string{"c": "X!"}},
		{"beyond radius", map[string]string{"c": "abcdefX"}},
		{"empty alternative", map[string]string{"c": "aX|"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src)
			assert.ErrorIs(t, err, ErrPatternSyntax)
		})
	}
}

func TestWithRadius(t *testing.T) {
	_, err := Compile(map[string]string{"c": "abcdefX"}, WithRadius(6))
	require.NoError(t, err)
	table := MustCompile(samplePatterns, WithRadius(2))
	assert.Equal(t, 2, table.Radius())
}

func TestRuleIntrospection(t *testing.T) {
	table := MustCompile(samplePatterns)
	assert.Equal(t, []rune{'c', 'g', 'i'}, table.Letters())
	rule, ok := table.Rule('c')
	require.True(t, ok)
	assert.Equal(t, "aXa|-bXb|-aX|-Xa", rule.String())
	require.Len(t, rule.Patterns, 4)
	assert.True(t, rule.Patterns[1].Negative)
	assert.Equal(t, "-bXb", rule.Patterns[1].String())
	assert.Equal(t, 3, rule.Patterns[1].Width())
}

func TestDefaultTable(t *testing.T) {
	table := Default()
	assert.Equal(t, []rune{'c', 'g', 'i'}, table.Letters())
	assert.Equal(t, DefaultRadius, table.Radius())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("c: aXa|-bXb\ng: -Xb\n"), 0o644))
	table, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []rune{'c', 'g'}, table.Letters())

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"x": "aXa"}`), 0o644))
	_, err = LoadFile(bad)
	assert.ErrorIs(t, err, ErrPatternSyntax)

	notString := filepath.Join(dir, "num.json")
	require.NoError(t, os.WriteFile(notString, []byte(`{"c": 5}`), 0o644))
	_, err = LoadFile(notString)
	assert.ErrorIs(t, err, ErrPatternSyntax)
}
