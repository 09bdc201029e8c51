// Package classify decides whether a question already carries its own
// context or needs external grounding.
package classify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/askdoc-io/askdoc/internal/domain"
)

// Verdict is the context-presence classification of a question.
type Verdict string

const (
	ContextProvided Verdict = "context_provided"
	ContextMissing  Verdict = "context_missing"
)

const judgePrompt = `You are a context detection system.
Determine if the following user message includes BACKGROUND CONTEXT beyond a direct question.

Rules:
1) If the message contains extra background info beyond the direct question, output: context_provided
2) If it's just a question without extra details, output: context_missing
3) If the message is a greeting (e.g., 'hi', 'hello') or a goodbye (e.g., 'bye', 'good night'), treat it as context_provided because it can be answered directly.
4) Output exactly one of these two tokens, nothing else.

Message: %s

Output:`

// Judge classifies questions with a single LLM call.
type Judge struct {
	llm    domain.Completer
	logger *zap.Logger
}

// NewJudge creates a context-presence judge.
func NewJudge(llm domain.Completer, logger *zap.Logger) *Judge {
	return &Judge{llm: llm, logger: logger}
}

// Classify returns the verdict for a question. Provider errors and
// unrecognized replies degrade to ContextMissing, the safe default.
func (j *Judge) Classify(ctx context.Context, question string) Verdict {
	reply, err := j.llm.Complete(ctx, fmt.Sprintf(judgePrompt, question))
	if err != nil {
		j.logger.Warn("Context judge failed, assuming context missing", zap.Error(err))
		return ContextMissing
	}

	if strings.Contains(strings.ToLower(reply), "provided") {
		return ContextProvided
	}
	return ContextMissing
}
