package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tyemirov/dirtree/internal/tokenizer"
	"github.com/tyemirov/dirtree/internal/utils"
)

type recordingCopier struct {
	copied []string
	err    error
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return copier.err
}

type runeCounter struct{}

func (runeCounter) Name() string { return "runes" }

func (runeCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type commandHarness struct {
	workingDirectory string
	stdout           *bytes.Buffer
	copier           *recordingCopier
	logs             *observer.ObservedLogs
	requestedModels  []string
}

func newCommandHarness(t *testing.T) *commandHarness {
	t.Helper()
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	return &commandHarness{
		workingDirectory: t.TempDir(),
		stdout:           &bytes.Buffer{},
		copier:           &recordingCopier{},
	}
}

func (harness *commandHarness) run(t *testing.T, arguments ...string) error {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	harness.logs = logs
	rootCommand := createRootCommand(dependencies{
		logger: zap.New(core),
		stdout: harness.stdout,
		copier: harness.copier,
		newCounter: func(cfg tokenizer.Config) (tokenizer.Counter, string, error) {
			harness.requestedModels = append(harness.requestedModels, cfg.Model)
			return runeCounter{}, cfg.Model, nil
		},
		workingDirectory: harness.workingDirectory,
	})
	rootCommand.SetOut(harness.stdout)
	rootCommand.SetErr(harness.stdout)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	return rootCommand.Execute()
}

func (harness *commandHarness) write(t *testing.T, relativePath string, content string) {
	t.Helper()
	absolutePath := filepath.Join(harness.workingDirectory, filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(absolutePath), 0o755); err != nil {
		t.Fatalf("create parent of %s: %v", absolutePath, err)
	}
	if err := os.WriteFile(absolutePath, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", absolutePath, err)
	}
}

func (harness *commandHarness) read(t *testing.T, relativePath string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(harness.workingDirectory, filepath.FromSlash(relativePath)))
	if err != nil {
		t.Fatalf("read %s: %v", relativePath, err)
	}
	return string(content)
}

func TestRootCommandWritesDefaultOutput(t *testing.T) {
	harness := newCommandHarness(t)
	harness.write(t, "src/main.go", "package main")
	harness.write(t, "go.mod", "module example")
	harness.write(t, ".git/HEAD", "ref: refs/heads/main")
	harness.write(t, "node_modules/pkg/index.js", "")
	harness.write(t, utils.LocalConfigFileName, "")

	if err := harness.run(t); err != nil {
		t.Fatalf("run error: %v", err)
	}

	expectedTree := "├── go.mod\n└── src\n    └── main.go\n"
	if actual := harness.read(t, utils.DefaultOutputFileName); actual != expectedTree {
		t.Fatalf("unexpected tree:\n%s\nexpected:\n%s", actual, expectedTree)
	}
	expectedConfirmation := "Folder structure written to \"" + utils.DefaultOutputFileName + "\"\n"
	if harness.stdout.String() != expectedConfirmation {
		t.Fatalf("expected confirmation %q, got %q", expectedConfirmation, harness.stdout.String())
	}
	if len(harness.copier.copied) != 0 || len(harness.requestedModels) != 0 {
		t.Fatalf("optional features must stay disabled by default")
	}
}

func TestRootCommandRerunIsIdempotent(t *testing.T) {
	harness := newCommandHarness(t)
	harness.write(t, "a/b/c.txt", "")
	harness.write(t, "d.txt", "")

	if err := harness.run(t); err != nil {
		t.Fatalf("first run error: %v", err)
	}
	first := harness.read(t, utils.DefaultOutputFileName)
	if err := harness.run(t); err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if second := harness.read(t, utils.DefaultOutputFileName); second != first {
		t.Fatalf("expected identical output:\n%s\n---\n%s", first, second)
	}
}

func TestRootCommandHonorsFlags(t *testing.T) {
	harness := newCommandHarness(t)
	harness.write(t, "project/app.py", "")
	harness.write(t, "project/dist/bundle.js", "")
	harness.write(t, "project/tree.txt", "stale")

	if err := harness.run(t, "--output", "project/tree.txt", "-e", "dist", "--clipboard", "yes", "--tokens", "--model", "gpt-4", "project"); err != nil {
		t.Fatalf("run error: %v", err)
	}

	expectedTree := "└── app.py\n"
	if actual := harness.read(t, "project/tree.txt"); actual != expectedTree {
		t.Fatalf("unexpected tree %q", actual)
	}
	if len(harness.copier.copied) != 1 || harness.copier.copied[0] != expectedTree {
		t.Fatalf("unexpected clipboard content %v", harness.copier.copied)
	}
	if len(harness.requestedModels) != 1 || harness.requestedModels[0] != "gpt-4" {
		t.Fatalf("unexpected tokenizer models %v", harness.requestedModels)
	}
	tokenEntries := harness.logs.FilterMessage(tokenCountMessage).All()
	if len(tokenEntries) != 1 {
		t.Fatalf("expected one token count entry, got %d", len(tokenEntries))
	}
	if tokens := tokenEntries[0].ContextMap()["tokens"]; tokens != int64(len([]rune(expectedTree))) {
		t.Fatalf("unexpected token count %v", tokens)
	}
}

func TestRootCommandReadsConfigurationFile(t *testing.T) {
	harness := newCommandHarness(t)
	harness.write(t, "docs/guide.md", "")
	harness.write(t, "build/out.bin", "")
	harness.write(t, utils.LocalConfigFileName, "output: layout.txt\nexclude:\n  - build\n")

	if err := harness.run(t); err != nil {
		t.Fatalf("run error: %v", err)
	}
	expectedTree := "└── docs\n    └── guide.md\n"
	if actual := harness.read(t, "layout.txt"); actual != expectedTree {
		t.Fatalf("unexpected tree %q", actual)
	}
	if !strings.Contains(harness.stdout.String(), "layout.txt") {
		t.Fatalf("confirmation must name configured output, got %q", harness.stdout.String())
	}
}

func TestRootCommandFlagOverridesConfiguration(t *testing.T) {
	harness := newCommandHarness(t)
	harness.write(t, "x.txt", "")
	harness.write(t, utils.LocalConfigFileName, "clipboard: true\noutput: from-config.txt\n")

	if err := harness.run(t, "--clipboard=false", "-o", "from-flag.txt"); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if len(harness.copier.copied) != 0 {
		t.Fatalf("flag must disable clipboard enabled by configuration")
	}
	if actual := harness.read(t, "from-flag.txt"); actual != "└── x.txt\n" {
		t.Fatalf("unexpected tree %q", actual)
	}
	if _, err := os.Stat(filepath.Join(harness.workingDirectory, "from-config.txt")); !os.IsNotExist(err) {
		t.Fatalf("configured output must not be written when overridden")
	}
}

func TestRootCommandClipboardFailureIsNotFatal(t *testing.T) {
	harness := newCommandHarness(t)
	harness.write(t, "x.txt", "")
	harness.copier.err = errors.New("no clipboard utility")

	if err := harness.run(t, "--clipboard"); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if harness.logs.FilterMessage(clipboardWarningMessage).Len() != 1 {
		t.Fatalf("expected clipboard warning to be logged")
	}
	if harness.read(t, utils.DefaultOutputFileName) != "└── x.txt\n" {
		t.Fatalf("tree must be written despite clipboard failure")
	}
}

func TestRootCommandMissingRootFails(t *testing.T) {
	harness := newCommandHarness(t)
	if err := harness.run(t, "absent"); err == nil {
		t.Fatalf("expected error for missing root")
	}
	if _, err := os.Stat(filepath.Join(harness.workingDirectory, utils.DefaultOutputFileName)); !os.IsNotExist(err) {
		t.Fatalf("output must not be written when the build fails")
	}
	if strings.Contains(harness.stdout.String(), "Folder structure written") {
		t.Fatalf("confirmation must not be printed on failure")
	}
}

func TestRootCommandWarnsAboutUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks are bypassed for root")
	}
	harness := newCommandHarness(t)
	harness.write(t, "locked/secret.txt", "")
	harness.write(t, "open.txt", "")
	lockedDirectory := filepath.Join(harness.workingDirectory, "locked")
	if err := os.Chmod(lockedDirectory, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(lockedDirectory, 0o755) })

	if err := harness.run(t); err != nil {
		t.Fatalf("run error: %v", err)
	}
	if actual := harness.read(t, utils.DefaultOutputFileName); actual != "├── locked\n└── open.txt\n" {
		t.Fatalf("unexpected tree %q", actual)
	}
	if harness.logs.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
		t.Fatalf("expected one warning for the unreadable directory")
	}
}

func TestInitCommandWritesLocalConfiguration(t *testing.T) {
	harness := newCommandHarness(t)
	if err := harness.run(t, "init"); err != nil {
		t.Fatalf("init error: %v", err)
	}
	if !strings.Contains(harness.read(t, utils.LocalConfigFileName), "output:") {
		t.Fatalf("expected default configuration content")
	}
	if err := harness.run(t, "init"); err == nil {
		t.Fatalf("expected init to refuse overwriting without --force")
	}
	if err := harness.run(t, "init", "--force"); err != nil {
		t.Fatalf("forced init error: %v", err)
	}
}

func TestVersionFlagPrintsVersion(t *testing.T) {
	harness := newCommandHarness(t)
	if err := harness.run(t, "--version"); err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(harness.stdout.String(), "dirtree version: ") {
		t.Fatalf("unexpected version output %q", harness.stdout.String())
	}
	if _, err := os.Stat(filepath.Join(harness.workingDirectory, utils.DefaultOutputFileName)); !os.IsNotExist(err) {
		t.Fatalf("--version must not render a tree")
	}
}
