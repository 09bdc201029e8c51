// Package answer routes a question to one of three sources: a canned
// conversational reply, a document-grounded answer, or a web-search answer.
package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/askdoc-io/askdoc/internal/domain"
	"github.com/askdoc-io/askdoc/internal/metrics"
)

const (
	greetingReply = "Hello! How can I help you today?"
	goodbyeReply  = "Goodbye! Have a great day!"

	insufficientMarker = "INSUFFICIENT"
	insufficiencyNote  = "From the document: not enough info.\n"
)

var (
	greetings = []string{"hi", "hello", "hey", "good morning", "good evening"}
	goodbyes  = []string{"bye", "goodbye", "see you", "take care", "good night"}
)

const groundedPrompt = `You are a meticulous assistant. Answer the question **only** using the provided document excerpts.
If the document does not contain enough information, say: 'INSUFFICIENT'.

Document Context:
----------------
%s
----------------

Question: %s

Answer:`

// Router is the single public entry point of the service.
type Router struct {
	ingest    Ingester
	retrieve  Retriever
	web       WebAnswerer
	llm       domain.Completer
	relevance RelevanceChecker
	logger    *zap.Logger
}

// NewRouter creates the answer router.
func NewRouter(
	ingest Ingester,
	retrieve Retriever,
	web WebAnswerer,
	llm domain.Completer,
	logger *zap.Logger,
) *Router {
	return &Router{
		ingest:   ingest,
		retrieve: retrieve,
		web:      web,
		llm:      llm,
		logger:   logger,
	}
}

// WithRelevance adds a relevance gate in front of the grounded answer.
// Without it, routing relies on the answer-level insufficiency self-report.
func (r *Router) WithRelevance(checker RelevanceChecker) *Router {
	r.relevance = checker
	return r
}

// Ask answers a question, optionally grounded in the given document bytes.
// It never returns an error: every failure degrades to the web path or an
// apologetic final answer.
func (r *Router) Ask(ctx context.Context, question string, documentBytes []byte) string {
	if reply := cannedReply(question); reply != "" {
		metrics.AnswerSourceTotal.WithLabelValues("canned").Inc()
		return reply
	}

	if len(documentBytes) > 0 {
		if answer, ok := r.answerFromDocument(ctx, question, documentBytes); ok {
			return answer
		}
	}

	metrics.AnswerSourceTotal.WithLabelValues("web").Inc()
	return r.web.Answer(ctx, question)
}

// answerFromDocument runs the document path. ok is false when the path
// yields nothing and the caller should fall back to web search.
func (r *Router) answerFromDocument(ctx context.Context, question string, documentBytes []byte) (string, bool) {
	if _, err := r.ingest.IngestIfNew(ctx, documentBytes); err != nil {
		r.logger.Warn("Document ingestion failed, continuing with existing index", zap.Error(err))
	}

	docContext, err := r.retrieve.Retrieve(ctx, question)
	if err != nil {
		r.logger.Warn("Retrieval failed", zap.Error(err))
		docContext = ""
	}
	if strings.TrimSpace(docContext) == "" {
		return "", false
	}

	if r.relevance != nil && !r.relevance.Relevant(ctx, question, docContext) {
		return "", false
	}

	grounded, err := r.llm.Complete(ctx, fmt.Sprintf(groundedPrompt, docContext, question))
	if err != nil {
		r.logger.Warn("Document-grounded completion failed", zap.Error(err))
		return "", false
	}

	grounded = strings.TrimSpace(grounded)
	if strings.HasPrefix(strings.ToUpper(grounded), insufficientMarker) {
		metrics.AnswerSourceTotal.WithLabelValues("web").Inc()
		return insufficiencyNote + r.web.Answer(ctx, question), true
	}

	metrics.AnswerSourceTotal.WithLabelValues("document").Inc()
	return "Final Answer: " + grounded, true
}

// cannedReply returns the greeting or goodbye reply for trivial
// conversational turns, or "" when the question is a real question.
// Matching is exact on the trimmed, lowercased input.
func cannedReply(question string) string {
	lowered := strings.ToLower(strings.TrimSpace(question))
	for _, g := range greetings {
		if lowered == g {
			return greetingReply
		}
	}
	for _, g := range goodbyes {
		if lowered == g {
			return goodbyeReply
		}
	}
	return ""
}
