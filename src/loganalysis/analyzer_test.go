package loganalysis

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const (
	summaryFile = "7_Get errors during workflow run.txt"
	testLogFile = "5_View failed test logs.txt"
	buildFile   = "Build Incremental.txt"
)

// writeLogs creates extractedDir/<DefaultFolder> holding the given files.
func writeLogs(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, DefaultFolder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestAnalyze_FolderNotFound(t *testing.T) {
	a := NewAnalyzer()

	got, err := a.Analyze(t.TempDir(), DefaultFolder)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Success {
		t.Error("Success = true, want false")
	}
	if got.ErrorSummary != SummaryFolderNotFound {
		t.Errorf("ErrorSummary = %q, want %q", got.ErrorSummary, SummaryFolderNotFound)
	}
}

func TestAnalyze_FolderIsFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, DefaultFolder), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewAnalyzer().Analyze(root, "")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.ErrorSummary != SummaryFolderNotFound {
		t.Errorf("ErrorSummary = %q, want %q", got.ErrorSummary, SummaryFolderNotFound)
	}
}

func TestAnalyze_Priority(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		wantSuccess bool
		wantSummary string
		wantSource  string
	}{
		{
			name: "summary wins over failed tests",
			files: map[string]string{
				summaryFile: "ERROR: something broke\n",
				testLogFile: "FAILED: //foo:test\n",
				buildFile:   "BUILD FAILED\n",
			},
			wantSummary: SummaryWorkflowErrors,
			wantSource:  summaryFile,
		},
		{
			name: "empty summary falls through to failed tests",
			files: map[string]string{
				summaryFile: "  \n\t\n",
				testLogFile: "FAILED: //foo:test\n",
			},
			wantSummary: SummaryTestFailures,
			wantSource:  testLogFile,
		},
		{
			name: "empty summary and test log fall through to build log",
			files: map[string]string{
				summaryFile: "",
				testLogFile: "\n",
				buildFile:   "Compiling...\nerror: missing semicolon\n",
			},
			wantSummary: SummaryBuildErrors,
			wantSource:  buildFile,
		},
		{
			name: "clean build log",
			files: map[string]string{
				buildFile: "Compiling...\nINFO: Build completed successfully, 42 total actions\n",
			},
			wantSuccess: true,
			wantSummary: SummaryBuildClean,
			wantSource:  buildFile,
		},
		{
			name: "indicator match is case sensitive",
			files: map[string]string{
				buildFile: "Build Failed but not in capitals\nError without colon\n",
			},
			wantSuccess: true,
			wantSummary: SummaryBuildClean,
			wantSource:  buildFile,
		},
		{
			name: "file names match case-insensitively",
			files: map[string]string{
				"3_GET ERRORS DURING WORKFLOW RUN.TXT": "Exception: boom\n",
			},
			wantSummary: SummaryWorkflowErrors,
			wantSource:  "3_GET ERRORS DURING WORKFLOW RUN.TXT",
		},
		{
			name: "no relevant files",
			files: map[string]string{
				"1_Set up job.txt": "ERROR: irrelevant\n",
			},
			wantSummary: SummaryNoLogFiles,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeLogs(t, tt.files)

			got, err := NewAnalyzer().Analyze(root, DefaultFolder)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if got.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", got.Success, tt.wantSuccess)
			}
			if got.ErrorSummary != tt.wantSummary {
				t.Errorf("ErrorSummary = %q, want %q", got.ErrorSummary, tt.wantSummary)
			}
			if got.SourceFile != tt.wantSource {
				t.Errorf("SourceFile = %q, want %q", got.SourceFile, tt.wantSource)
			}
		})
	}
}

func TestAnalyze_SummaryFileContent(t *testing.T) {
	content := "step one\nERROR: disk full\nline a\nline b\n"
	root := writeLogs(t, map[string]string{summaryFile: content})

	got, err := NewAnalyzer().Analyze(root, DefaultFolder)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.RelevantLogContent != content {
		t.Errorf("RelevantLogContent should be the full file, got %q", got.RelevantLogContent)
	}
	if !strings.HasPrefix(got.ErrorDetails, "ERROR: disk full") {
		t.Errorf("ErrorDetails should start at the error line, got %q", got.ErrorDetails)
	}
}

func TestAnalyze_BuildLogScenario(t *testing.T) {
	content := "Compiling...\nBUILD FAILED: target //foo failed\nsee above\n"
	root := writeLogs(t, map[string]string{buildFile: content})

	got, err := NewAnalyzer().Analyze(root, "Bazel Build and Test")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	want := Result{
		Success:            false,
		ErrorSummary:       "Build errors detected",
		ErrorDetails:       content,
		SourceFile:         "Build Incremental.txt",
		RelevantLogContent: content,
	}
	if got != want {
		t.Errorf("Analyze() = %+v, want %+v", got, want)
	}
}

func TestAnalyze_CustomFolder(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Lint")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2_View failed test logs.txt"), []byte("failed: lint\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewAnalyzer().Analyze(root, "Lint")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.ErrorSummary != SummaryTestFailures {
		t.Errorf("ErrorSummary = %q, want %q", got.ErrorSummary, SummaryTestFailures)
	}
}

func TestAnalyze_UnreadableFile(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := writeLogs(t, map[string]string{summaryFile: "ERROR: x\n"})
	path := filepath.Join(root, DefaultFolder, summaryFile)
	if err := os.Chmod(path, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(path, 0o644) })

	if _, err := NewAnalyzer().Analyze(root, DefaultFolder); err == nil {
		t.Error("Analyze() expected an error for an unreadable log file")
	}
}

func TestExtractErrorDetails(t *testing.T) {
	a := NewAnalyzer()

	t.Run("ten line window", func(t *testing.T) {
		lines := []string{"preamble", "ERROR: disk full"}
		for i := 1; i <= 15; i++ {
			lines = append(lines, fmt.Sprintf("detail %d", i))
		}

		got := strings.Split(a.ExtractErrorDetails(strings.Join(lines, "\n")), "\n")
		if len(got) != 10 {
			t.Fatalf("got %d lines, want 10", len(got))
		}
		if got[0] != "ERROR: disk full" {
			t.Errorf("first line = %q, want the matching line", got[0])
		}
		if got[9] != "detail 9" {
			t.Errorf("last line = %q, want detail 9", got[9])
		}
	})

	t.Run("match near end", func(t *testing.T) {
		got := a.ExtractErrorDetails("a\nb\nexception: late\nc")
		if got != "exception: late\nc" {
			t.Errorf("ExtractErrorDetails() = %q", got)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		got := a.ExtractErrorDetails("ok\nBuild Failed: x")
		if got != "Build Failed: x" {
			t.Errorf("ExtractErrorDetails() = %q", got)
		}
	})

	t.Run("no match short", func(t *testing.T) {
		got := a.ExtractErrorDetails("all good here")
		if got != "all good here" {
			t.Errorf("ExtractErrorDetails() = %q", got)
		}
	})

	t.Run("no match long", func(t *testing.T) {
		content := strings.Repeat("x", 600)
		got := a.ExtractErrorDetails(content)
		if got != strings.Repeat("x", 500)+"..." {
			t.Errorf("got %d chars, want 500 plus ellipsis", len(got))
		}
	})

	t.Run("exactly 500 chars", func(t *testing.T) {
		content := strings.Repeat("y", 500)
		if got := a.ExtractErrorDetails(content); got != content {
			t.Error("content of exactly 500 chars should not gain an ellipsis")
		}
	})
}

func TestExtractRelevantContent(t *testing.T) {
	a := NewAnalyzer()

	t.Run("short content verbatim", func(t *testing.T) {
		content := "Compiling...\nERROR: broke\n"
		if got := a.ExtractRelevantContent(content); got != content {
			t.Errorf("ExtractRelevantContent() = %q, want verbatim", got)
		}
	})

	t.Run("window around first indicator", func(t *testing.T) {
		var lines []string
		for i := 0; i < 100; i++ {
			lines = append(lines, fmt.Sprintf("line %03d %s", i, strings.Repeat(".", 40)))
		}
		lines[50] = "FAILED: //pkg:target"
		lines[70] = "ERROR: second"

		got := strings.Split(a.ExtractRelevantContent(strings.Join(lines, "\n")), "\n")
		if len(got) != 21 {
			t.Fatalf("got %d lines, want 21", len(got))
		}
		if got[0] != lines[45] {
			t.Errorf("first line = %q, want %q", got[0], lines[45])
		}
		if got[5] != "FAILED: //pkg:target" {
			t.Errorf("line 5 = %q, want the indicator line", got[5])
		}
		if got[20] != lines[65] {
			t.Errorf("last line = %q, want %q", got[20], lines[65])
		}
	})

	t.Run("window clamped at start", func(t *testing.T) {
		lines := []string{"Execution failed for task"}
		for i := 0; i < 80; i++ {
			lines = append(lines, strings.Repeat("z", 40))
		}

		got := strings.Split(a.ExtractRelevantContent(strings.Join(lines, "\n")), "\n")
		if len(got) != 16 || got[0] != "Execution failed for task" {
			t.Errorf("got %d lines starting %q", len(got), got[0])
		}
	})

	t.Run("head and tail without indicator", func(t *testing.T) {
		var lines []string
		for i := 0; i < 100; i++ {
			lines = append(lines, fmt.Sprintf("line %03d %s", i, strings.Repeat("-", 40)))
		}

		got := a.ExtractRelevantContent(strings.Join(lines, "\n"))
		want := strings.Join(lines[:10], "\n") + "\n...\n" + strings.Join(lines[80:], "\n")
		if got != want {
			t.Errorf("ExtractRelevantContent() head/tail composite mismatch:\n%s", got)
		}
	})
}

func TestNewAnalyzerWithRules(t *testing.T) {
	rules := DefaultRules()
	rules.DetailWindow = 2
	a := NewAnalyzerWithRules(rules)

	if got := a.ExtractErrorDetails("ERROR: a\nb\nc\nd"); got != "ERROR: a\nb" {
		t.Errorf("ExtractErrorDetails() = %q, want a two-line window", got)
	}
	if a.Rules().DetailWindow != 2 {
		t.Errorf("Rules().DetailWindow = %d, want 2", a.Rules().DetailWindow)
	}
}
