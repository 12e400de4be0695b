package codecheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"os/exec"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Status describes how a block validation concluded.
type Status string

const (
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
	// StatusSkipped covers unsupported languages and missing external
	// checkers; skipped blocks never count against the score.
	StatusSkipped Status = "skipped"
)

// Result is the verdict for a single code block.
type Result struct {
	Block  Block  `json:"block"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// checkerTimeout bounds each external checker invocation.
const checkerTimeout = 5 * time.Second

// maxCheckerOutput caps the error text carried into a result.
const maxCheckerOutput = 100

// Strategy validates source text for one language.
type Strategy func(ctx context.Context, code string) (Status, string)

// strategies maps a language tag to its validation strategy. A tag absent
// from the table yields an explicit skipped result.
var strategies = map[string]Strategy{
	"json":       validateJSON,
	"yaml":       validateYAML,
	"yml":        validateYAML,
	"go":         validateGo,
	"golang":     validateGo,
	"python":     validatePython,
	"py":         validatePython,
	"javascript": validateJavaScript,
	"js":         validateJavaScript,
	"typescript": validateTypeScript,
	"ts":         validateTypeScript,
}

// ValidateBlock runs the matching strategy for a block's language.
func ValidateBlock(ctx context.Context, block Block) Result {
	strategy, ok := strategies[block.Language]
	if !ok {
		return Result{
			Block:  block,
			Status: StatusSkipped,
			Detail: fmt.Sprintf("unsupported language: %s", block.Language),
		}
	}
	status, detail := strategy(ctx, block.Code)
	return Result{Block: block, Status: status, Detail: detail}
}

func validateJSON(_ context.Context, code string) (Status, string) {
	var v any
	if err := json.Unmarshal([]byte(code), &v); err != nil {
		return StatusInvalid, clip("json: " + err.Error())
	}
	return StatusValid, ""
}

func validateYAML(_ context.Context, code string) (Status, string) {
	var v any
	if err := yaml.Unmarshal([]byte(code), &v); err != nil {
		return StatusInvalid, clip("yaml: " + err.Error())
	}
	return StatusValid, ""
}

// validateGo parses the block with go/parser. Snippets without a package
// clause get one prepended so statement-level examples still parse.
func validateGo(_ context.Context, code string) (Status, string) {
	src := code
	if !strings.Contains(src, "package ") {
		src = "package main\n\n" + src
	}
	fset := token.NewFileSet()
	if _, err := parser.ParseFile(fset, "block.go", src, parser.AllErrors); err != nil {
		return StatusInvalid, clip(err.Error())
	}
	return StatusValid, ""
}

func validatePython(ctx context.Context, code string) (Status, string) {
	return runChecker(ctx, code, "python3",
		"-c", "import ast, sys; ast.parse(sys.stdin.read())")
}

func validateJavaScript(ctx context.Context, code string) (Status, string) {
	return runChecker(ctx, code, "node", "--check", "-")
}

// validateTypeScript hands the block to tsc, which only accepts files.
func validateTypeScript(ctx context.Context, code string) (Status, string) {
	if _, err := exec.LookPath("tsc"); err != nil {
		return StatusSkipped, "tsc not installed"
	}

	tmp, err := os.CreateTemp("", "skillaudit-*.ts")
	if err != nil {
		return StatusSkipped, clip("temp file: " + err.Error())
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.WriteString(code); err != nil {
		_ = tmp.Close()
		return StatusSkipped, clip("temp file: " + err.Error())
	}
	_ = tmp.Close()

	return runChecker(ctx, "", "tsc", "--noEmit", tmp.Name())
}

// runChecker executes an external syntax checker, feeding the block on
// stdin when non-empty. A missing binary skips the block; a non-zero exit
// marks it invalid with the checker's complaint.
func runChecker(ctx context.Context, stdin, name string, args ...string) (Status, string) {
	if _, err := exec.LookPath(name); err != nil {
		return StatusSkipped, name + " not installed"
	}

	runCtx, cancel := context.WithTimeout(ctx, checkerTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stderr, stdout bytes.Buffer
	cmd.Stderr = &stderr
	cmd.Stdout = &stdout

	err := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return StatusInvalid, "checker timed out"
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg == "" {
			msg = err.Error()
		}
		return StatusInvalid, clip(msg)
	}
	return StatusValid, ""
}

func clip(s string) string {
	if len(s) <= maxCheckerOutput {
		return s
	}
	return s[:maxCheckerOutput]
}
