// Package relay forwards a question and its law context to a text
// generation service and hands back a plain-text answer.
package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/ligjet/internal/locale"
)

// ErrEmptyMessage is returned when there is no question to forward.
var ErrEmptyMessage = errors.New("message required")

// Generator produces a single answer for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Relay wraps a Generator with prompt assembly, an optional timeout and
// latency tracking. No retries: a failed call is reported to the caller.
type Relay struct {
	gen     Generator
	labels  locale.Labels
	timeout time.Duration
	log     *slog.Logger

	Stats *LLMStats
}

// New creates a Relay. A zero timeout leaves the call unbounded.
func New(gen Generator, labels locale.Labels, timeout time.Duration, log *slog.Logger) *Relay {
	if log == nil {
		log = slog.Default()
	}
	return &Relay{
		gen:     gen,
		labels:  labels,
		timeout: timeout,
		log:     log,
		Stats:   NewLLMStats(time.Hour),
	}
}

// Model names the underlying generation model.
func (r *Relay) Model() string {
	return r.gen.Model()
}

// Chat sends message with contextText and returns the answer. An empty
// answer is replaced by the "no answer" label.
func (r *Relay) Chat(ctx context.Context, message, contextText string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	prompt := BuildPrompt(contextText, message, r.labels.QuestionPrefix)

	start := time.Now()
	text, err := r.gen.Generate(ctx, prompt)
	elapsed := time.Since(start).Milliseconds()
	r.Stats.Record(elapsed, err == nil)
	if err != nil {
		r.log.Error("generation failed", "model", r.gen.Model(), "duration_ms", elapsed, "error", err)
		return "", fmt.Errorf("generate: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return r.labels.NoAnswer, nil
	}
	return text, nil
}

// BuildPrompt joins the context and the question the way the chat
// endpoint expects: context, a blank line, then the prefixed question.
func BuildPrompt(contextText, message, questionPrefix string) string {
	return contextText + "\n\n" + questionPrefix + " " + message
}

// FrameContext places the assistant instructions and the law's identity
// ahead of a ranked context blob.
func FrameContext(labels locale.Labels, title, slug, ranked string) string {
	var sb strings.Builder
	sb.WriteString(labels.SystemPrompt)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "%s: %s\n", labels.TitleLabel, title)
	fmt.Fprintf(&sb, "%s: %s\n\n", labels.SlugLabel, slug)
	sb.WriteString(ranked)
	return sb.String()
}
