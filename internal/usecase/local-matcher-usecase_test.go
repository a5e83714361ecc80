package usecase

import (
	"math/rand"
	"testing"

	"github.com/iamvkosarev/health-assistant-bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalMatcher_KeywordMatch(t *testing.T) {
	matcher := NewDefaultLocalMatcherUsecase(rand.New(rand.NewSource(1)))

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "headache", input: "I have a headache", expected: ResponseHeadache},
		{name: "case insensitive", input: "MY MIGRAINE IS BACK", expected: ResponseHeadache},
		{name: "substring inside a word", input: "feverish since monday", expected: ResponseFever},
		{name: "multi word keyword", input: "I get chest pain when running", expected: ResponseUrgent},
		{name: "medication", input: "can I split this pill?", expected: ResponseMedicine},
	}
	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				assert.Equal(t, tt.expected, matcher.ResolveLocally(tt.input))
			},
		)
	}
}

func TestLocalMatcher_FirstRuleWins(t *testing.T) {
	matcher, err := NewLocalMatcherUsecase(
		[]model.IntentRule{
			{Keywords: []string{"alpha", "beta"}, Response: "first"},
			{Keywords: []string{"gamma"}, Response: "second"},
		},
		[]string{"default"},
		&sequenceRand{values: []int{0}},
	)
	require.NoError(t, err)

	// rule order decides, not the position of the keyword in the input
	assert.Equal(t, "first", matcher.ResolveLocally("gamma then beta"))
	assert.Equal(t, "second", matcher.ResolveLocally("only GAMMA here"))

	// built-in table: headache is declared before fever
	builtin := NewDefaultLocalMatcherUsecase(&sequenceRand{values: []int{0}})
	assert.Equal(t, ResponseHeadache, builtin.ResolveLocally("fever and a headache"))
}

func TestLocalMatcher_UppercaseKeywords(t *testing.T) {
	matcher, err := NewLocalMatcherUsecase(
		[]model.IntentRule{{Keywords: []string{"Asthma"}, Response: "inhaler"}},
		[]string{"default"},
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, "inhaler", matcher.ResolveLocally("my asthma is worse"))
}

func TestLocalMatcher_DefaultPool(t *testing.T) {
	matcher := NewDefaultLocalMatcherUsecase(rand.New(rand.NewSource(42)))
	pool := matcher.DefaultResponses()

	for i := 0; i < 50; i++ {
		assert.Contains(t, pool, matcher.ResolveLocally("xyz unrelated gibberish"))
	}
	assert.Contains(t, pool, matcher.ResolveLocally(""))
}

func TestLocalMatcher_DefaultPoolUsesInjectedRand(t *testing.T) {
	matcher, err := NewLocalMatcherUsecase(nil, []string{"a", "b", "c"}, &sequenceRand{values: []int{2, 0, 1}})
	require.NoError(t, err)

	assert.Equal(t, "c", matcher.ResolveLocally("x"))
	assert.Equal(t, "a", matcher.ResolveLocally("x"))
	assert.Equal(t, "b", matcher.ResolveLocally("x"))
}

func TestLocalMatcher_DefaultPoolCoversEveryEntry(t *testing.T) {
	matcher := NewDefaultLocalMatcherUsecase(rand.New(rand.NewSource(7)))

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		seen[matcher.ResolveLocally("zzz")] = struct{}{}
	}
	assert.Len(t, seen, len(DefaultFallbackResponses))
}

func TestNewLocalMatcherUsecase_Validation(t *testing.T) {
	_, err := NewLocalMatcherUsecase(nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyDefaultPool)

	_, err = NewLocalMatcherUsecase(
		[]model.IntentRule{{Keywords: []string{"ok", ""}, Response: "x"}},
		[]string{"default"},
		nil,
	)
	assert.ErrorIs(t, err, ErrEmptyKeyword)

	_, err = NewLocalMatcherUsecase(
		[]model.IntentRule{{Keywords: []string{"ok"}}},
		[]string{"default"},
		nil,
	)
	assert.ErrorIs(t, err, ErrEmptyRuleResponse)
}
