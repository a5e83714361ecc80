package usecase

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/iamvkosarev/health-assistant-bot/internal/model"
)

var (
	ErrEmptyKeyword      = errors.New("intent rule has an empty keyword")
	ErrEmptyDefaultPool  = errors.New("default response pool is empty")
	ErrEmptyRuleResponse = errors.New("intent rule has an empty response")
)

// Rand is the part of *rand.Rand the matcher needs.
type Rand interface {
	Intn(n int) int
}

type LocalMatcherUsecase struct {
	rules    []model.IntentRule
	defaults []string

	mu  sync.Mutex
	rnd Rand
}

func NewLocalMatcherUsecase(rules []model.IntentRule, defaults []string, rnd Rand) (*LocalMatcherUsecase, error) {
	if len(defaults) == 0 {
		return nil, ErrEmptyDefaultPool
	}
	prepared := make([]model.IntentRule, 0, len(rules))
	for i, rule := range rules {
		if rule.Response == "" {
			return nil, fmt.Errorf("rule %d: %w", i, ErrEmptyRuleResponse)
		}
		keywords := make([]string, 0, len(rule.Keywords))
		for _, keyword := range rule.Keywords {
			if keyword == "" {
				return nil, fmt.Errorf("rule %d: %w", i, ErrEmptyKeyword)
			}
			keywords = append(keywords, strings.ToLower(keyword))
		}
		prepared = append(prepared, model.IntentRule{Keywords: keywords, Response: rule.Response})
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &LocalMatcherUsecase{
		rules:    prepared,
		defaults: append([]string(nil), defaults...),
		rnd:      rnd,
	}, nil
}

// NewDefaultLocalMatcherUsecase uses the built-in health intent table.
func NewDefaultLocalMatcherUsecase(rnd Rand) *LocalMatcherUsecase {
	matcher, err := NewLocalMatcherUsecase(DefaultIntentRules, DefaultFallbackResponses, rnd)
	if err != nil {
		panic(fmt.Sprintf("built-in intent table is invalid: %v", err))
	}
	return matcher
}

func (l *LocalMatcherUsecase) ResolveLocally(input string) string {
	if response, ok := l.Match(input); ok {
		return response
	}
	return l.pickDefault()
}

// Match reports the response of the first rule whose keyword occurs in input.
func (l *LocalMatcherUsecase) Match(input string) (string, bool) {
	lowered := strings.ToLower(input)
	for _, rule := range l.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lowered, keyword) {
				return rule.Response, true
			}
		}
	}
	return "", false
}

func (l *LocalMatcherUsecase) DefaultResponses() []string {
	return append([]string(nil), l.defaults...)
}

func (l *LocalMatcherUsecase) pickDefault() string {
	l.mu.Lock()
	i := l.rnd.Intn(len(l.defaults))
	l.mu.Unlock()
	return l.defaults[i]
}
