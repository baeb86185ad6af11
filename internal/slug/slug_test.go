package slug

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func taken(slugs ...string) ExistsFunc {
	set := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		set[s] = true
	}
	return func(_ context.Context, candidate string) (bool, error) {
		return set[candidate], nil
	}
}

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Hello World", want: "hello-world"},
		{name: "punctuation runs", input: "  Go -- is  fun!!! ", want: "go-is-fun"},
		{name: "dots", input: "a.b.c", want: "a-b-c"},
		{name: "mixed separators", input: "node.js/Go", want: "node-js-go"},
		{name: "tab", input: "Hello\tWorld", want: "hello-world"},
		{name: "comma without space", input: "Hello,World", want: "hello-world"},
		{name: "email like", input: "foo@bar.com", want: "foo-bar-com"},
		{name: "digits kept", input: "Top 10 tips", want: "top-10-tips"},
		{name: "cyrillic transliterated", input: "Привет мир", want: "privet-mir"},
		{name: "accents folded", input: "Café crème", want: "cafe-creme"},
		{name: "nothing left", input: "!!! ???", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.input))
		})
	}
}

func TestMake_AlwaysURLSafe(t *testing.T) {
	inputs := []string{
		"Hello World",
		"__init__ and _private",
		"C++ / C# / F#",
		"日本語のタイトル",
		"Ünïcödé   Ťëxt",
		"-leading and trailing-",
		"emoji 🚀 launch",
		strings.Repeat("long title ", 40),
	}

	for _, in := range inputs {
		got := Make(in)
		if got == "" {
			continue
		}
		assert.Regexp(t, slugShape, got, "input %q", in)
		assert.LessOrEqual(t, len(got), MaxLength)
	}
}

func TestUnique_NoCollision(t *testing.T) {
	got, err := Unique(context.Background(), "Hello World", taken())
	require.NoError(t, err)
	assert.Equal(t, "hello-world", got)
}

func TestUnique_ProbesSuffixes(t *testing.T) {
	ctx := context.Background()

	got, err := Unique(ctx, "Hello World", taken("hello-world"))
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", got)

	got, err = Unique(ctx, "Hello World", taken("hello-world", "hello-world-1"))
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", got)
}

func TestUnique_FallbackForEmptyBase(t *testing.T) {
	ctx := context.Background()

	got, err := Unique(ctx, "???", taken())
	require.NoError(t, err)
	assert.Equal(t, Fallback, got)

	got, err = Unique(ctx, "", taken(Fallback))
	require.NoError(t, err)
	assert.Equal(t, "article-1", got)
}

func TestUnique_SuffixFitsColumn(t *testing.T) {
	title := strings.Repeat("a", 150)
	base := Make(title)
	require.Len(t, base, MaxLength)

	got, err := Unique(context.Background(), title, taken(base))
	require.NoError(t, err)
	assert.Len(t, got, MaxLength)
	assert.True(t, strings.HasSuffix(got, "-1"))
}

func TestUnique_PredicateError(t *testing.T) {
	boom := errors.New("db down")
	_, err := Unique(context.Background(), "Hello", func(context.Context, string) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}
