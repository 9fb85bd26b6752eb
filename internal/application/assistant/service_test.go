package assistant

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"task-ai-api/internal/application/assistant/prompt"
	"task-ai-api/internal/domain/service"
	apperrors "task-ai-api/pkg/errors"
)

type completeCall struct {
	system    string
	user      string
	opts      service.CompletionOptions
	operation string
}

type fakeCompleter struct {
	reply  string
	err    error
	hasKey bool
	calls  []completeCall
}

func newFakeCompleter(reply string) *fakeCompleter {
	return &fakeCompleter{reply: reply, hasKey: true}
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string, opts service.CompletionOptions) (string, error) {
	f.calls = append(f.calls, completeCall{
		system:    system,
		user:      user,
		opts:      opts,
		operation: service.OperationFromContext(ctx),
	})
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeCompleter) HasCredentials() bool { return f.hasKey }

func strPtr(s string) *string { return &s }

func assertAppError(t *testing.T, err error, code apperrors.ErrorCode, status int) *apperrors.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("code = %s, want %s (%v)", appErr.Code, code, err)
	}
	if appErr.HTTPStatus != status {
		t.Fatalf("status = %d, want %d", appErr.HTTPStatus, status)
	}
	return appErr
}

func TestGenerateTask_ParsedReply(t *testing.T) {
	fc := newFakeCompleter(`{"title":" Plan trip ","content":" Book flights "}`)
	svc := NewService(fc, fc)

	res, err := svc.GenerateTask(context.Background(), strPtr("  plan a trip to Kyoto  "))
	if err != nil {
		t.Fatalf("GenerateTask: %v", err)
	}
	if res.Title != "Plan trip" || res.Content != "Book flights" || res.Outcome != OutcomeParsed {
		t.Fatalf("unexpected result: %+v", res)
	}

	if len(fc.calls) != 1 {
		t.Fatalf("expected exactly one provider call, got %d", len(fc.calls))
	}
	call := fc.calls[0]
	if call.user != "plan a trip to Kyoto" {
		t.Fatalf("user message must be the trimmed prompt, got %q", call.user)
	}
	if call.system != prompt.NewRegistry().MustSystem(prompt.PromptGenerateTaskV1) {
		t.Fatalf("unexpected system instruction: %q", call.system)
	}
	if call.opts.Temperature != 0.7 || call.opts.MaxTokens != 500 {
		t.Fatalf("unexpected options: %+v", call.opts)
	}
	if call.operation != string(OperationGenerateTask) {
		t.Fatalf("operation label = %q", call.operation)
	}
}

func TestGenerateTask_RecoveredReply(t *testing.T) {
	fc := newFakeCompleter("- Buy milk\nGet 2% and whole")
	svc := NewService(fc, fc)

	res, err := svc.GenerateTask(context.Background(), strPtr("groceries"))
	if err != nil {
		t.Fatalf("GenerateTask: %v", err)
	}
	if res.Title != "Buy milk" || res.Content != "Get 2% and whole" || res.Outcome != OutcomeRecovered {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestGenerateTask_Validation(t *testing.T) {
	cases := []struct {
		name   string
		prompt *string
		code   apperrors.ErrorCode
	}{
		{"missing", nil, apperrors.CodeInvalidParam},
		{"empty", strPtr(""), apperrors.CodeInvalidParam},
		{"whitespace", strPtr(" \n\t "), apperrors.CodeInvalidParam},
		{"501 characters", strPtr(strings.Repeat("a", 501)), apperrors.CodeInputTooLong},
		{"padded past 500", strPtr(" " + strings.Repeat("a", 499) + "  "), apperrors.CodeInputTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fc := newFakeCompleter(`{"title":"t","content":"c"}`)
			_, err := NewService(fc, fc).GenerateTask(context.Background(), tc.prompt)
			assertAppError(t, err, tc.code, http.StatusBadRequest)
			if len(fc.calls) != 0 {
				t.Fatalf("validation failure must not reach the provider")
			}
		})
	}
}

func TestGenerateTask_LengthBoundary(t *testing.T) {
	fc := newFakeCompleter(`{"title":"t","content":"c"}`)
	svc := NewService(fc, fc)

	if _, err := svc.GenerateTask(context.Background(), strPtr(strings.Repeat("a", 500))); err != nil {
		t.Fatalf("500 characters must pass: %v", err)
	}
	if _, err := svc.GenerateTask(context.Background(), strPtr(strings.Repeat("字", 500))); err != nil {
		t.Fatalf("500 multi-byte characters must pass: %v", err)
	}
}

func TestMissingCredential_NoProviderCall(t *testing.T) {
	fc := newFakeCompleter(`{"title":"t","content":"c"}`)
	fc.hasKey = false
	svc := NewService(fc, fc)

	_, err := svc.GenerateTask(context.Background(), strPtr("valid prompt"))
	assertAppError(t, err, apperrors.CodeLLMMisconfigured, http.StatusInternalServerError)

	_, err = svc.ImproveContent(context.Background(), strPtr("valid content"))
	assertAppError(t, err, apperrors.CodeLLMMisconfigured, http.StatusInternalServerError)

	if len(fc.calls) != 0 {
		t.Fatalf("missing credential must not reach the provider, got %d calls", len(fc.calls))
	}
}

func TestMissingCredential_AfterValidation(t *testing.T) {
	fc := newFakeCompleter("")
	fc.hasKey = false

	_, err := NewService(fc, fc).GenerateTask(context.Background(), strPtr("  "))
	assertAppError(t, err, apperrors.CodeInvalidParam, http.StatusBadRequest)
}

func TestProviderErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   apperrors.ErrorCode
		status int
	}{
		{"typed unauthorized", fmt.Errorf("openai: %w", service.ErrProviderUnauthorized), apperrors.CodeLLMInvalidCredentials, http.StatusInternalServerError},
		{"typed quota", fmt.Errorf("openai: %w", service.ErrProviderQuotaExceeded), apperrors.CodeLLMQuotaExceeded, http.StatusTooManyRequests},
		{"typed not configured", service.ErrProviderNotConfigured, apperrors.CodeLLMMisconfigured, http.StatusInternalServerError},
		{"message api key", stderrors.New("Incorrect API key provided"), apperrors.CodeLLMInvalidCredentials, http.StatusInternalServerError},
		{"message quota", stderrors.New("You exceeded your current quota, please check your plan"), apperrors.CodeLLMQuotaExceeded, http.StatusTooManyRequests},
		{"other", stderrors.New("connection reset by peer"), apperrors.CodeGenerationFailed, http.StatusInternalServerError},
		{"deadline", context.DeadlineExceeded, apperrors.CodeGenerationFailed, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fc := newFakeCompleter("")
			fc.err = tc.err
			svc := NewService(fc, fc)

			_, err := svc.GenerateTask(context.Background(), strPtr("prompt"))
			appErr := assertAppError(t, err, tc.code, tc.status)
			if strings.Contains(appErr.Message, tc.err.Error()) {
				t.Fatalf("public message must not leak provider details: %q", appErr.Message)
			}

			_, err = svc.ImproveContent(context.Background(), strPtr("content"))
			assertAppError(t, err, tc.code, tc.status)
		})
	}
}

func TestGenerationFailed_MessagePerOperation(t *testing.T) {
	fc := newFakeCompleter("")
	fc.err = stderrors.New("boom")
	svc := NewService(fc, fc)

	_, genErr := svc.GenerateTask(context.Background(), strPtr("prompt"))
	_, impErr := svc.ImproveContent(context.Background(), strPtr("content"))
	if apperrors.AsAppError(genErr).Message == apperrors.AsAppError(impErr).Message {
		t.Fatalf("generate and improve should report their own failure messages")
	}
}

func TestEmptyReply(t *testing.T) {
	fc := newFakeCompleter("")
	svc := NewService(fc, fc)

	_, err := svc.GenerateTask(context.Background(), strPtr("prompt"))
	assertAppError(t, err, apperrors.CodeEmptyLLMResponse, http.StatusInternalServerError)

	_, err = svc.ImproveContent(context.Background(), strPtr("content"))
	assertAppError(t, err, apperrors.CodeEmptyLLMResponse, http.StatusInternalServerError)
}

func TestGenerateTask_WhitespaceReplyRecovered(t *testing.T) {
	fc := newFakeCompleter("  \n ")
	res, err := NewService(fc, fc).GenerateTask(context.Background(), strPtr("prompt"))
	if err != nil {
		t.Fatalf("GenerateTask: %v", err)
	}
	if res.Title != DefaultDraftTitle || res.Content != DefaultDraftContent || res.Outcome != OutcomeRecovered {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestImproveContent_SummaryBoundary(t *testing.T) {
	registry := prompt.NewRegistry()
	summary := registry.MustSystem(prompt.PromptSummarizeContentV1)
	improve := registry.MustSystem(prompt.PromptImproveContentV1)

	cases := []struct {
		name       string
		content    string
		wantType   ImprovementType
		wantSystem string
	}{
		{"exactly 100", strings.Repeat("a", 100), ImprovementTypeImprovement, improve},
		{"101", strings.Repeat("a", 101), ImprovementTypeSummary, summary},
		{"100 with padding", "   " + strings.Repeat("a", 100) + "   ", ImprovementTypeImprovement, improve},
		{"101 multi-byte", strings.Repeat("字", 101), ImprovementTypeSummary, summary},
		{"short", "buy milk", ImprovementTypeImprovement, improve},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fc := newFakeCompleter("  rewritten text \n")
			res, err := NewService(fc, fc).ImproveContent(context.Background(), strPtr(tc.content))
			if err != nil {
				t.Fatalf("ImproveContent: %v", err)
			}
			if res.Type != tc.wantType {
				t.Fatalf("type = %s, want %s", res.Type, tc.wantType)
			}
			if res.ImprovedContent != "rewritten text" {
				t.Fatalf("reply must be returned trimmed, got %q", res.ImprovedContent)
			}
			if len(fc.calls) != 1 {
				t.Fatalf("expected one call, got %d", len(fc.calls))
			}
			call := fc.calls[0]
			if call.system != tc.wantSystem {
				t.Fatalf("instruction sent does not match type %s", tc.wantType)
			}
			if call.user != strings.TrimSpace(tc.content) {
				t.Fatalf("user message must be trimmed content")
			}
			if call.opts.Temperature != 0.7 || call.opts.MaxTokens != 300 {
				t.Fatalf("unexpected options: %+v", call.opts)
			}
		})
	}
}

func TestImproveContent_NoCoercion(t *testing.T) {
	fc := newFakeCompleter(`{"title":"x","content":"y"}`)
	res, err := NewService(fc, fc).ImproveContent(context.Background(), strPtr("content"))
	if err != nil {
		t.Fatalf("ImproveContent: %v", err)
	}
	if res.ImprovedContent != `{"title":"x","content":"y"}` {
		t.Fatalf("improve must pass the reply through verbatim, got %q", res.ImprovedContent)
	}
}

func TestImproveContent_Validation(t *testing.T) {
	fc := newFakeCompleter("x")
	svc := NewService(fc, fc)

	_, err := svc.ImproveContent(context.Background(), nil)
	appErr := assertAppError(t, err, apperrors.CodeInvalidParam, http.StatusBadRequest)
	if appErr.Message != "please provide valid task content" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}

	_, err = svc.ImproveContent(context.Background(), strPtr(strings.Repeat("b", 501)))
	assertAppError(t, err, apperrors.CodeInputTooLong, http.StatusBadRequest)

	if len(fc.calls) != 0 {
		t.Fatalf("validation failure must not reach the provider")
	}
}

func TestNilCredentialChecker(t *testing.T) {
	fc := newFakeCompleter(`{"title":"t","content":"c"}`)
	if _, err := NewService(fc, nil).GenerateTask(context.Background(), strPtr("p")); err != nil {
		t.Fatalf("nil credential checker should skip the pre-check: %v", err)
	}
}
