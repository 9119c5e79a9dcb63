package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/wordcloud/internal/terms"
)

// spacedEntry matches a list line whose tab the editor widened to spaces.
var spacedEntry = regexp.MustCompile(`^\s*(-?\d+) +(\S.*)$`)

// listDialogView edits the current term list as "weight<TAB>term" lines.
type listDialogView struct {
	viewBase
	editor textarea.Model
	source func() terms.List
	submit func(text string)
	cancel func()
}

func newListDialogView(source func() terms.List, submit func(string), cancel func()) *listDialogView {
	editor := textarea.New()
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.SetWidth(panelInputWidth)
	editor.SetHeight(12)
	v := &listDialogView{editor: editor, source: source, submit: submit, cancel: cancel}
	v.viewBase = viewBase{name: viewListDialog}
	v.hooks.beforeShow = func(UIState, UIState) bool {
		var list terms.List
		if v.source != nil {
			list = v.source()
		}
		v.editor.SetValue(list.Serialize())
		return true
	}
	v.hooks.afterShow = func(UIState, UIState) { v.editor.Focus() }
	v.hooks.afterHide = func(UIState, UIState) {
		v.editor.Reset()
		v.editor.Blur()
	}
	return v
}

// Text is the editor content with list tabs restored.
func (v *listDialogView) Text() string {
	lines := strings.Split(v.editor.Value(), "\n")
	for i, line := range lines {
		if strings.Contains(line, "\t") {
			continue
		}
		if m := spacedEntry.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + "\t" + m[2]
		}
	}
	return strings.Join(lines, "\n")
}

func (v *listDialogView) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+s":
		if v.submit != nil {
			v.submit(v.Text())
		}
		return nil
	case "esc":
		if v.cancel != nil {
			v.cancel()
		}
		return nil
	}
	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return cmd
}

func (v *listDialogView) Render(width, height int) string {
	outer := dialogWidth(width)
	editorHeight := height - 10
	if editorHeight < 3 {
		editorHeight = 3
	}
	v.editor.SetWidth(outer - dialogChrome)
	v.editor.SetHeight(editorHeight)
	body := strings.Join([]string{
		sectionHeaderStyle.Render("Edit the list"),
		helperStyle.Render("One \"weight<TAB>term\" per line. Ctrl+S to apply, Esc to close."),
		v.editor.View(),
	}, "\n\n")
	return dialogBoxStyle.Width(outer - 2).Render(body)
}
