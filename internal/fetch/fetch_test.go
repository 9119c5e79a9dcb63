package fetch

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/wordcloud/internal/route"
	"github.com/csheth/wordcloud/internal/terms"
)

func TestTrackerSettlesOnlyCurrentRequestOnce(t *testing.T) {
	var tr tracker
	tr.Cancel() // nothing in flight

	ctx1, first := tr.begin()
	_, second := tr.begin()
	if ctx1.Err() == nil {
		t.Fatalf("starting a second request must cancel the first context")
	}
	if tr.Settle(first) {
		t.Fatalf("superseded request must not settle")
	}
	if !tr.Settle(second) {
		t.Fatalf("current request should settle")
	}
	if tr.Settle(second) {
		t.Fatalf("a request settles at most once")
	}

	_, third := tr.begin()
	tr.Cancel()
	if tr.Settle(third) {
		t.Fatalf("cancelled request must not settle")
	}
	if tr.Settle("") {
		t.Fatalf("empty id must never settle")
	}
}

func TestTextFetcher(t *testing.T) {
	cases := []struct {
		fragment string
		want     string
		wantErr  bool
	}{
		{fragment: "#text:hello%20world", want: "hello world"},
		{fragment: "#base64:aGVsbG8=", want: "hello"},
		{fragment: "#base64:%%%", want: "", wantErr: true},
	}
	for _, tc := range cases {
		f := NewTextFetcher()
		msg := run(t, f.Retrieve(route.Parse(tc.fragment)))
		data, ok := msg.(DataMsg)
		if !ok {
			t.Fatalf("%s: expected DataMsg, got %T", tc.fragment, msg)
		}
		if data.Text != tc.want || (data.Err != nil) != tc.wantErr {
			t.Fatalf("%s: got %q (err=%v)", tc.fragment, data.Text, data.Err)
		}
		if !f.Settle(data.RequestID) {
			t.Fatalf("%s: result should settle", tc.fragment)
		}
	}
}

func TestCancelledFetchYieldsNoMessage(t *testing.T) {
	f := NewTextFetcher()
	cmd := f.Retrieve(route.Parse("#text:late"))
	f.Cancel()
	if msg := cmd(); msg != nil {
		t.Fatalf("expected no message after cancel, got %#v", msg)
	}
}

func TestListFetcher(t *testing.T) {
	want := terms.List{{Term: "cat", Weight: 3}, {Term: "dog", Weight: 1}}
	for _, fragment := range []string{
		"#list:3%09cat%0A1%09dog",
		"#base64-list:" + terms.EncodeBase64("3\tcat\n1\tdog"),
	} {
		msg := run(t, NewListFetcher().Retrieve(route.Parse(fragment)))
		list, ok := msg.(ListMsg)
		if !ok {
			t.Fatalf("%s: expected ListMsg, got %T", fragment, msg)
		}
		if !reflect.DeepEqual(list.List, want) {
			t.Fatalf("%s: list = %#v", fragment, list.List)
		}
		if list.Volume != 3*9+3*1 {
			t.Fatalf("%s: volume = %v", fragment, list.Volume)
		}
	}
}

type stubSource struct {
	path, encoding string
}

func (s stubSource) SelectedFile() (string, string, bool) {
	return s.path, s.encoding, s.path != ""
}

func TestFileFetcherRedirectsWithoutSelection(t *testing.T) {
	msg := run(t, NewFileFetcher(stubSource{}).Retrieve(route.Parse("#file")))
	redirect, ok := msg.(RedirectMsg)
	if !ok || redirect.Panel != FilePanel {
		t.Fatalf("expected redirect to file panel, got %#v", msg)
	}
}

func TestFileFetcherReadsSelectedFile(t *testing.T) {
	dir := t.TempDir()
	utf8Path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(utf8Path, []byte("clouds and more clouds"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	big5Path := filepath.Join(dir, "big5.txt")
	// 雲 in Big5
	if err := os.WriteFile(big5Path, []byte{0xb6, 0xb3}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cases := []struct {
		source stubSource
		want   string
	}{
		{source: stubSource{path: utf8Path}, want: "clouds and more clouds"},
		{source: stubSource{path: big5Path, encoding: "big5"}, want: "雲"},
	}
	for _, tc := range cases {
		msg := run(t, NewFileFetcher(tc.source).Retrieve(route.Parse("#file")))
		data, ok := msg.(DataMsg)
		if !ok || data.Err != nil || data.Text != tc.want {
			t.Fatalf("%s: got %#v", tc.source.path, msg)
		}
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "a.txt")
	binary := filepath.Join(dir, "a.bin")
	noExt := filepath.Join(dir, "README")
	if err := os.WriteFile(text, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(binary, []byte{0x00, 0x01, 0x02, 0xff, 0x00}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(noExt, []byte("plain words here"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := CheckFile(text); err != nil {
		t.Fatalf("text file rejected: %v", err)
	}
	if err := CheckFile(noExt); err != nil {
		t.Fatalf("sniffed text file rejected: %v", err)
	}
	if err := CheckFile(""); err != ErrNoFile {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}
	if err := CheckFile(filepath.Join(dir, "missing.txt")); err != ErrNoFile {
		t.Fatalf("expected ErrNoFile for missing file, got %v", err)
	}
	if err := CheckFile(binary); err == nil {
		t.Fatalf("binary file accepted")
	}
	if err := CheckFile(dir); err == nil {
		t.Fatalf("directory accepted")
	}
}

func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatalf("command did not finish")
		return nil
	}
}
