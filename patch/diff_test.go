package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountChangedLines(t *testing.T) {
	testCases := []struct {
		name   string
		before string
		after  string
		want   int
	}{
		{
			name:   "single line replaced",
			before: "line1\nline2\nline3\n",
			after:  "line1\nline2-changed\nline3\n",
			want:   1,
		},
		{
			name:   "one line becomes two",
			before: "a\nb\nc\n",
			after:  "a\nx\ny\nc\n",
			want:   2,
		},
		{
			name:   "pure insertion",
			before: "a\n",
			after:  "a\nb\nc\n",
			want:   2,
		},
		{
			name:   "pure deletion",
			before: "a\nb\nc\n",
			after:  "a\n",
			want:   2,
		},
		{
			name:   "identical",
			before: "a\nb\n",
			after:  "a\nb\n",
			want:   0,
		},
		{
			name:   "new file",
			before: "",
			after:  "hello\nworld\n",
			want:   2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := countChangedLines(splitLines(tc.before), splitLines(tc.after))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRenderPreview(t *testing.T) {
	before := splitLines("line1\nline2\nline3\n")
	after := splitLines("line1\nline2-changed\nline3\n")

	preview := renderPreview(before, after, "greeting.txt")
	assert.Contains(t, preview, "--- a/greeting.txt")
	assert.Contains(t, preview, "+++ b/greeting.txt")
	assert.Contains(t, preview, "-line2\n")
	assert.Contains(t, preview, "+line2-changed\n")
	assert.Contains(t, preview, "@@")
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a\n", "b\n"}, splitLines("a\nb\n"))
	assert.Equal(t, []string{"a\n", "b"}, splitLines("a\nb"))
}

func TestCollapseSpace(t *testing.T) {
	assert.Equal(t, "a b\n", collapseSpace("a   \t b  \n"))
	assert.Equal(t, "a b", collapseSpace("a\t\tb"))
	assert.Equal(t, "\n", collapseSpace("   \n"))
}

func TestNormalizeNewlines(t *testing.T) {
	assert.Equal(t, "a\nb\nc\n", normalizeNewlines("a\r\nb\rc\n"))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("abc", "abc"))
	assert.Equal(t, 1.0, similarity("", ""))
	assert.Equal(t, 0.0, similarity("abc", "xyz"))
	mid := similarity("value = 1\n", "value = 2\n")
	assert.Greater(t, mid, 0.8)
	assert.Less(t, mid, 1.0)
}
