package local

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextSet(t *testing.T) {
	set := NewSet("Hello, %s", NewTrans(Rus, "Привет, %s"))

	assert.Equal(t, "Hello, %s", set.Text(Eng))
	assert.Equal(t, "Привет, %s", set.Text(Rus))
	assert.Equal(t, "Hello, Bob", set.Format(Eng, "Bob"))
	assert.Equal(t, "Привет, Bob", set.Format(Rus, "Bob"))
	assert.Equal(t, "Hello, Bob", set.DefaultFormat("Bob"))
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, Rus, ParseLanguage(" RU "))
	assert.Equal(t, Eng, ParseLanguage("en"))
	assert.Equal(t, Eng, ParseLanguage("de"))
	assert.Equal(t, Eng, ParseLanguage(""))
}

func TestTextSet_Fallbacks(t *testing.T) {
	set := NewSet("Hi %d", NewTrans(Rus, "Привет %d"), NewTrans(Rus, "Здравствуйте %d"))

	assert.Equal(t, "Здравствуйте 1", set.Format(Rus, 1))
	assert.Equal(t, "Hi 1", set.Format(Language("de"), 1))
	assert.Equal(t, "Hi %d", set.Text(Language("de")))

	var zero TextSet
	assert.Equal(t, "", zero.Text(Rus))
}
