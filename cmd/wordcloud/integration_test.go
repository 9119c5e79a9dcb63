package main

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/csheth/wordcloud/internal/tuitest"
)

type sandbox struct {
	binary string
	dir    string
	config string
	env    []string
}

func newSandbox(t *testing.T) sandbox {
	t.Helper()
	cmdDir := moduleDir(t)
	home := t.TempDir()
	return sandbox{
		binary: buildBinary(t, cmdDir),
		dir:    cmdDir,
		config: filepath.Join(home, "config.yml"),
		env: []string{
			"HOME=" + home,
			"WORDCLOUD_HISTORY_DB=" + filepath.Join(home, "history.db"),
			"WORDCLOUD_SAVE_DIR=" + filepath.Join(home, "clouds"),
			"WORDCLOUD_CACHE_DIR=" + filepath.Join(home, "cache"),
			"WORDCLOUD_LOG_FILE=" + filepath.Join(home, "wordcloud.log"),
		},
	}
}

func (s sandbox) run(t *testing.T, args []string, steps []tuitest.Step) *tuitest.Recording {
	t.Helper()
	command := append([]string{s.binary, "--no-alt-screen", "--config", s.config}, args...)
	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command:        command,
		Dir:            s.dir,
		Env:            s.env,
		Width:          100,
		Height:         30,
		Steps:          steps,
		Timeout:        15 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}
	return rec
}

func (s sandbox) output(t *testing.T, args ...string) string {
	t.Helper()
	cmd := exec.Command(s.binary, append([]string{"--config", s.config}, args...)...)
	cmd.Dir = s.dir
	cmd.Env = append(cmd.Environ(), s.env...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return string(out)
}

func TestStartsWithSourceDialog(t *testing.T) {
	t.Parallel()
	s := newSandbox(t)
	rec := s.run(t, nil, []tuitest.Step{
		{WaitFor: "Create a word cloud from"},
		{Delay: 200 * time.Millisecond, Input: tuitest.KeyCtrlC},
	})
	for _, want := range []string{"Examples", "Paste", "Wikipedia", "ctrl+p find source"} {
		if !rec.Contains(want) {
			t.Fatalf("source dialog missing %q\n%s", want, rec.Plain())
		}
	}
}

func TestListRouteOpensDashboardAndIsRecorded(t *testing.T) {
	t.Parallel()
	s := newSandbox(t)
	rec := s.run(t, []string{"#list:8%09cloud%0A5%09rain"}, []tuitest.Step{
		{WaitFor: "refresh"},
		{Delay: 500 * time.Millisecond, Input: tuitest.Type("q")},
	})
	if !rec.Contains("theme") || !rec.Contains("save") {
		t.Fatalf("dashboard controls missing\n%s", rec.Plain())
	}

	out := s.output(t, "history", "--limit", "5")
	if !strings.Contains(out, "#list:8%09cloud%0A5%09rain") {
		t.Fatalf("history does not list the visit:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()
	s := newSandbox(t)
	if out := s.output(t, "version"); !strings.HasPrefix(out, "wordcloud ") {
		t.Fatalf("version output = %q", out)
	}
}

func TestConfigWrite(t *testing.T) {
	t.Parallel()
	s := newSandbox(t)
	if out := s.output(t, "config"); strings.TrimSpace(out) != s.config {
		t.Fatalf("config path = %q, want %q", out, s.config)
	}
	if out := s.output(t, "config", "--write"); !strings.Contains(out, s.config) {
		t.Fatalf("config --write output = %q", out)
	}
	if out := s.output(t, "history"); !strings.Contains(out, "No visits recorded yet.") {
		t.Fatalf("fresh history = %q", out)
	}
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	name := "wordcloud-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(t.TempDir(), name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
