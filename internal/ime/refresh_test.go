package ime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreEditCursorIncludesPendingSyllable(t *testing.T) {
	h := newFocusedHarness(t)
	h.engine.preEdit = []rune("中文")
	h.engine.cursor = 1
	h.engine.zhuyinLen = 2

	require.NoError(t, h.s.PageDown())

	snap := h.s.PreEdit()
	assert.Equal(t, "中文", snap.Text.String())
	assert.Equal(t, 3, snap.Cursor)
	assert.NoError(t, snap.Text.Validate())
}

func TestPreEditCursorAtEndHasNoHighlight(t *testing.T) {
	h := newFocusedHarness(t)
	h.press(t, 'x', 'y')

	attrs := h.s.PreEdit().Text.Attributes()
	require.Len(t, attrs, 1)
	assert.Equal(t, Attribute{Type: AttrUnderline, Value: UnderlineSingle, Start: 0, End: 2}, attrs[0])
	assert.Equal(t, 2, h.s.PreEdit().Cursor)
}

func TestCommitWhileUnfocusedDeliversEmptyText(t *testing.T) {
	h := newFocusedHarness(t)
	h.s.FocusOut()
	h.host.reset()

	require.NoError(t, h.s.CursorDown())
	assert.Equal(t, []string{""}, h.host.commits())
}

func TestCommitClearsOutgoing(t *testing.T) {
	h := newFocusedHarness(t)
	h.engine.outgoing = "測試"

	require.NoError(t, h.s.PageUp())
	assert.Equal(t, []string{"測試"}, h.host.commits())
	assert.Equal(t, "測試", h.s.Outgoing().String())
	assert.Empty(t, h.engine.outgoing)

	h.host.reset()
	require.NoError(t, h.s.PageUp())
	assert.Empty(t, h.host.commits(), "text is delivered once")
}

func TestAuxiliaryText(t *testing.T) {
	tests := []struct {
		name       string
		showPage   bool
		message    string
		page       int
		total      int
		want       string
		wantHidden bool
	}{
		{name: "engine message wins", showPage: true, message: "已加入：測試", page: 0, total: 3, want: "已加入：測試"},
		{name: "page number", showPage: true, page: 1, total: 3, want: "(2/3)"},
		{name: "single page", showPage: true, page: 0, total: 1, wantHidden: true},
		{name: "page number disabled", showPage: false, page: 1, total: 3, wantHidden: true},
		{name: "nothing to show", showPage: true, wantHidden: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newFocusedHarness(t, func(s *Settings, _ *SessionConfig) {
				s.ShowPageNumber = tt.showPage
			})
			h.engine.aux = tt.message
			h.engine.page = tt.page
			h.engine.total = tt.total

			require.NoError(t, h.s.PageDown())

			if tt.wantHidden {
				assert.True(t, h.s.AuxText().IsEmpty())
				assert.Len(t, h.host.named("HideAuxiliaryText"), 1)
				assert.Empty(t, h.host.named("ShowAuxiliaryText"))
				return
			}
			assert.Equal(t, tt.want, h.s.AuxText().String())
			upd := h.host.named("UpdateAuxiliaryText")
			require.Len(t, upd, 1)
			assert.Equal(t, tt.want, upd[0].Text)
			assert.True(t, upd[0].Visible)
			assert.Len(t, h.host.named("ShowAuxiliaryText"), 1)
		})
	}
}

func TestLookupTableVisibility(t *testing.T) {
	h := newFocusedHarness(t)
	h.engine.showing = true
	h.engine.table = LookupTable{PageSize: 10, Candidates: []string{"中"}, Labels: []string{"1"}}

	require.NoError(t, h.s.PageDown())
	upd := h.host.named("UpdateLookupTable")
	require.Len(t, upd, 1)
	assert.True(t, upd[0].Visible)
	assert.Equal(t, []string{"中"}, upd[0].Table.Candidates)
	assert.Len(t, h.host.named("ShowLookupTable"), 1)
	assert.Empty(t, h.host.named("HideLookupTable"))

	h.host.reset()
	h.engine.showing = false
	require.NoError(t, h.s.PageDown())
	upd = h.host.named("UpdateLookupTable")
	require.Len(t, upd, 1)
	assert.False(t, upd[0].Visible)
	assert.Len(t, h.host.named("HideLookupTable"), 1)
}

func TestFocusInRefreshesWithoutPushing(t *testing.T) {
	h := newHarness(t)
	h.s.Enable()
	h.engine.aux = "提示"
	h.host.reset()

	h.s.FocusIn()
	assert.Empty(t, h.host.named("UpdatePreedit"))
	assert.Empty(t, h.host.named("UpdateAuxiliaryText"))
	assert.Empty(t, h.host.named("CommitText"))
	assert.Equal(t, "提示", h.s.AuxText().String())
}
