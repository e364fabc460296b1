package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/purse/internal/account"
	"github.com/roach88/purse/internal/persist"
	"github.com/roach88/purse/internal/store"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(deleted{ID: "acc-1"})
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]any{"id": "acc-1"}, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("E404", "no account with id \"x\"", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E404", resp.Error.Code)
	assert.Nil(t, resp.Error.Details)
}

type plain struct{}

func (plain) String() string { return "plain value" }

type rendered struct{}

func (rendered) RenderText(w io.Writer) error {
	_, err := fmt.Fprint(w, "custom layout\n")
	return err
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success(plain{}))
	assert.Equal(t, "plain value\n", buf.String())

	buf.Reset()
	require.NoError(t, formatter.Success(rendered{}))
	assert.Equal(t, "custom layout\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("E201", "name: name is required", []string{"detail"})
	require.NoError(t, err)
	assert.Equal(t, "Error [E201]: name: name is required\n", buf.String())

	buf.Reset()
	formatter.Verbose = true
	require.NoError(t, formatter.Error("E201", "name: name is required", []string{"detail"}))
	assert.Contains(t, buf.String(), "Details: [detail]")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    out,
				ErrWriter: errOut,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("added %s", "acc-1")

			assert.Empty(t, out.String(), "diagnostics must not corrupt JSON output")
			if tt.wantLog {
				assert.Equal(t, "added acc-1\n", errOut.String())
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitFailure, "x"))))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestClassify(t *testing.T) {
	validation := account.Draft{Type: account.KindCash, Currency: account.RUB}.Validate()
	_, single := account.ParseCurrency("XYZ")

	tests := []struct {
		name     string
		err      error
		wantCode string
		wantExit int
	}{
		{"validation list", fmt.Errorf("add account: %w", validation), account.ErrNameEmpty, ExitFailure},
		{"single validation", single, account.ErrUnknownCurrency, ExitFailure},
		{"not found", fmt.Errorf("edit account: %w", &store.NotFoundError{ID: "x"}), ErrCodeNotFound, ExitFailure},
		{"schema", &persist.SchemaError{Version: 7, Message: "unsupported"}, ErrCodeSchema, ExitCommandError},
		{"storage", &persist.StorageError{Op: "save", Key: "k", Err: errors.New("disk full")}, ErrCodeStorage, ExitCommandError},
		{"not ready", store.ErrNotReady, ErrCodeStorage, ExitCommandError},
		{"other", errors.New("surprise"), ErrCodeGeneric, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, exit, _ := classify(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantExit, exit)
		})
	}
}

func TestReport(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	_, parseErr := account.ParseKind("bank")
	err := report(formatter, parseErr)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), account.ErrUnknownKind)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, account.ErrUnknownKind, resp.Error.Code)
	assert.Equal(t, `type: unknown type "bank"`, resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextValidationDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	details := []account.ValidationError{
		{Field: "name", Message: "name is required and must be non-empty", Code: account.ErrNameEmpty},
		{Field: "currency", Message: "bad", Code: account.ErrUnknownCurrency},
	}
	require.NoError(t, formatter.Error(account.ErrNameEmpty, "name: name is required and must be non-empty; currency: bad", details))

	assert.Equal(t, "Error [E201]: name: name is required and must be non-empty; currency: bad\n"+
		"  [E201] name: name is required and must be non-empty\n"+
		"  [E203] currency: bad\n", buf.String())
}
