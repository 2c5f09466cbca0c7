package correction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deasciifier/internal/editor"
	"deasciifier/internal/textrange"
)

func newWorkflow(text string) (*Workflow, *editor.Memory) {
	ed := editor.NewMemory(text)
	cat := NewStatic(map[string][]string{"ciktik": {"çıktık", "çiktik"}})
	return NewWorkflow(cat, ed), ed
}

func TestPointerSelectShowsMenu(t *testing.T) {
	wf, ed := newWorkflow("Agaca ciktik")

	st, err := wf.OnPointerSelect(ed.Text(), textrange.Point(8))
	require.NoError(t, err)
	require.True(t, st.Visible)
	assert.Equal(t, textrange.New(6, 12), *st.Anchor)
	assert.Equal(t, "ciktik", st.Word)
	assert.Equal(t, []string{"çıktık", "çiktik"}, st.Suggestions)
	assert.Equal(t, []textrange.Range{textrange.New(6, 12)}, ed.HighlightsWithStyle(editor.StyleCorrection))
}

func TestPointerSelectStaysHidden(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  int
	}{
		{"word start edge", "Agaca ciktik", 6},
		{"text end", "Agaca ciktik", 12},
		{"text start", "ciktik", 0},
		{"between separators", "Agaca  ciktik", 6},
		{"word without corrections", "Agaca ciktik", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf, ed := newWorkflow(tt.text)
			st, err := wf.OnPointerSelect(tt.text, textrange.Point(tt.pos))
			require.NoError(t, err)
			assert.False(t, st.Visible)
			assert.Nil(t, st.Anchor)
			assert.Empty(t, ed.Highlights())
		})
	}
}

func TestPointerSelectRejectsSelection(t *testing.T) {
	wf, ed := newWorkflow("Agaca ciktik")
	_, err := wf.OnPointerSelect(ed.Text(), textrange.Point(8))
	require.NoError(t, err)

	st, err := wf.OnPointerSelect(ed.Text(), textrange.New(6, 9))
	assert.ErrorIs(t, err, textrange.ErrPrecondition)
	assert.False(t, st.Visible, "the earlier menu is hidden first")
	assert.Empty(t, ed.Highlights())
}

func TestSuggestionChosen(t *testing.T) {
	wf, ed := newWorkflow("Agaca ciktik")
	_, err := wf.OnPointerSelect(ed.Text(), textrange.Point(8))
	require.NoError(t, err)

	ok, err := wf.OnSuggestionChosen("çıktık")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Agaca çıktık", ed.Text())
	assert.False(t, wf.State().Visible)
	assert.Empty(t, ed.Highlights())

	ok, err = wf.OnSuggestionChosen("çıktık")
	require.NoError(t, err)
	assert.False(t, ok, "hidden menu ignores choices")
}

func TestSuggestionNotOffered(t *testing.T) {
	wf, ed := newWorkflow("Agaca ciktik")
	_, err := wf.OnPointerSelect(ed.Text(), textrange.Point(8))
	require.NoError(t, err)

	ok, err := wf.OnSuggestionChosen("kitap")
	assert.ErrorIs(t, err, textrange.ErrPrecondition)
	assert.False(t, ok)
	assert.True(t, wf.State().Visible)
	assert.Equal(t, "Agaca ciktik", ed.Text())
}

func TestExternalMutationHidesMenu(t *testing.T) {
	wf, ed := newWorkflow("Agaca ciktik")
	_, err := wf.OnPointerSelect(ed.Text(), textrange.Point(8))
	require.NoError(t, err)

	wf.OnExternalMutation()
	ed.SetText("Bir ", &textrange.Range{Start: 0, End: 0})

	assert.False(t, wf.State().Visible)
	assert.Empty(t, ed.Highlights())
	ok, err := wf.OnSuggestionChosen("çıktık")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Bir Agaca ciktik", ed.Text())

	wf.OnExternalMutation()
	wf.Hide()
	assert.False(t, wf.State().Visible)
}

func TestStateIsCopy(t *testing.T) {
	wf, ed := newWorkflow("Agaca ciktik")
	st, err := wf.OnPointerSelect(ed.Text(), textrange.Point(8))
	require.NoError(t, err)

	st.Anchor.Start = 0
	st.Suggestions[0] = "x"
	again := wf.State()
	assert.Equal(t, textrange.New(6, 12), *again.Anchor)
	assert.Equal(t, "çıktık", again.Suggestions[0])
	assert.Equal(t, "visible", Visible.String())
	assert.Equal(t, "hidden", Hidden.String())
}
