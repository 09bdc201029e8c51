package classify

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/askdoc-io/askdoc/internal/domain"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	return s.reply, s.err
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  Verdict
	}{
		{"provided", "provided", nil, ContextProvided},
		{"provided in sentence", "The context is Provided here.", nil, ContextProvided},
		{"missing", "missing", nil, ContextMissing},
		{"garbage reply", "I am not sure", nil, ContextMissing},
		{"provider error", "", errors.New("down"), ContextMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var llm domain.Completer = stubCompleter{reply: tt.reply, err: tt.err}
			j := NewJudge(llm, zap.NewNop())
			if got := j.Classify(context.Background(), "q"); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
