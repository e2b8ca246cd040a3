package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReactionList_Toggle(t *testing.T) {
	list := ReactionList{}

	list = list.Toggle("u1", "❤️")
	assert.Len(t, list, 1)
	assert.Equal(t, "❤️", list[0].Emoji)

	// Different emoji replaces
	list = list.Toggle("u1", "😂")
	assert.Len(t, list, 1)
	assert.Equal(t, "😂", list[0].Emoji)

	// Same emoji removes
	list = list.Toggle("u1", "😂")
	assert.Empty(t, list)
}

func TestReactionList_Toggle_MultipleUsers(t *testing.T) {
	list := ReactionList{}
	list = list.Toggle("u1", "❤️")
	list = list.Toggle("u2", "👍")

	assert.Len(t, list, 2)

	// u1 toggling off leaves u2 untouched
	list = list.Toggle("u1", "❤️")
	assert.Len(t, list, 1)
	assert.Equal(t, "u2", list[0].UserID)
}

func TestReactionList_Replace(t *testing.T) {
	list := ReactionList{}

	list = list.Replace("u1", "❤️")
	assert.Len(t, list, 1)

	// Same emoji does not remove in room semantics
	list = list.Replace("u1", "❤️")
	assert.Len(t, list, 1)
	assert.Equal(t, "❤️", list[0].Emoji)

	list = list.Replace("u1", "🔥")
	assert.Len(t, list, 1)
	assert.Equal(t, "🔥", list[0].Emoji)
}

func TestReactionList_Scan(t *testing.T) {
	var list ReactionList
	assert.NoError(t, list.Scan([]byte(`[{"userId":"u1","emoji":"❤️"}]`)))
	assert.Len(t, list, 1)
	assert.Equal(t, "u1", list[0].UserID)

	var empty ReactionList
	assert.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "hello", Summarize("  hello  ", 80))
	assert.Equal(t, "abc", Summarize("abcdef", 3))

	// Rune-safe truncation
	assert.Equal(t, "안녕", Summarize("안녕하세요", 2))
}

func TestNormalizePair(t *testing.T) {
	a, b := NormalizePair("bbb", "aaa")
	assert.Equal(t, "aaa", a)
	assert.Equal(t, "bbb", b)

	a, b = NormalizePair("aaa", "bbb")
	assert.Equal(t, "aaa", a)
	assert.Equal(t, "bbb", b)
}

func TestSplitJoinCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitCSV("a, b,"))
	assert.Equal(t, []string{}, SplitCSV(""))
	assert.Equal(t, "a,b", JoinCSV([]string{" a", "", "b "}))
}
