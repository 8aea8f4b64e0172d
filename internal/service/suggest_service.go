package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrSuggestionFailed = errors.New("prompt suggestion failed")
)

const (
	// PromptSeparator splits the generated string into individual prompts.
	PromptSeparator = "||"

	suggestCacheKey = "suggest:prompts"
	suggestCacheTTL = 5 * time.Minute

	suggestPrompt = "Create a list of three open-ended and engaging questions formatted " +
		"as a single string. Each question should be separated by '||'. These questions are " +
		"for an anonymous social messaging platform and should be suitable for a diverse " +
		"audience. Avoid personal or sensitive topics, focusing instead on universal themes " +
		"that encourage friendly interaction. For example, your output should be structured " +
		"like this: 'What's a hobby you've recently started?||If you could have dinner with " +
		"any historical figure, who would it be?||What's a simple thing that makes you " +
		"happy?'. Ensure the questions are intriguing, foster curiosity, and contribute to " +
		"a positive and welcoming conversational environment."
)

// PromptGenerator produces free text from a prompt.
type PromptGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// SuggestService generates candidate message prompts for anonymous senders
type SuggestService struct {
	generator PromptGenerator
	rdb       *redis.Client
}

// NewSuggestService creates a new SuggestService
func NewSuggestService(generator PromptGenerator, rdb *redis.Client) *SuggestService {
	return &SuggestService{
		generator: generator,
		rdb:       rdb,
	}
}

// SuggestPrompts returns a single string of prompts separated by "||".
// Results are cached briefly to spare the upstream; cache failures fall
// through to a fresh generation.
func (s *SuggestService) SuggestPrompts(ctx context.Context) (string, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, suggestCacheKey).Result(); err == nil && cached != "" {
			return cached, nil
		}
	}

	text, err := s.generator.GenerateText(ctx, suggestPrompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSuggestionFailed, err)
	}
	text = strings.TrimSpace(text)

	if s.rdb != nil {
		// Best effort; a cache write failure is not the caller's problem.
		s.rdb.Set(ctx, suggestCacheKey, text, suggestCacheTTL)
	}

	return text, nil
}

// SplitPrompts splits a generated string into an ordered list of prompts,
// dropping empty entries.
func SplitPrompts(raw string) []string {
	parts := strings.Split(raw, PromptSeparator)
	prompts := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			prompts = append(prompts, trimmed)
		}
	}
	return prompts
}
