package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odvcencio/chooser/pkg/selector"
)

func TestWriterMessages(t *testing.T) {
	var buf bytes.Buffer
	w := NewPlain(&buf, 0)

	w.Error("bad %s", "thing")
	w.Warn("careful")
	w.Success("done")
	w.Dim("quiet")
	w.Println("plain %d", 3)

	assert.Equal(t, "error: bad thing\nwarning: careful\n✓ done\nquiet\nplain 3\n", buf.String())
}

func TestNewWithOutputDisablesColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	NewWithOutput(&buf).Error("x")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestWriteRanked(t *testing.T) {
	opts := selector.Strings("apple", "apricot", "banana")
	opts[1].Disabled = true
	opts[0].Description = "red"
	entries := selector.Rank(opts, "/tmp", selector.RankPolicy[string]{
		Codec:            selector.StringCodec(),
		AllowCustomValue: true,
		MaxVisibleItems:  selector.ShowAll,
	})
	entries = append(entries, selector.Rank(opts, "ap", selector.RankPolicy[string]{MaxVisibleItems: selector.ShowAll})...)

	var buf bytes.Buffer
	w := NewPlain(&buf, 0)
	WriteRanked(w, entries, func(e selector.Entry[string]) bool { return e.Value == "apple" && !e.Synthetic() },
		RankOptions{Scores: true, Cursor: -1})

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"  Use custom: /tmp [custom]  Custom directory path",
		"✓ apple  red  (0)",
		"  apricot  (0)",
	}, lines)
}

func TestWriteRankedEmpty(t *testing.T) {
	var buf bytes.Buffer
	WriteRanked[string](NewPlain(&buf, 0), nil, nil, RankOptions{Cursor: -1})
	assert.Equal(t, selector.NoOptionsText+"\n", buf.String())
}

func TestWriteRankedTruncates(t *testing.T) {
	var buf bytes.Buffer
	entries := selector.Rank(selector.Strings(strings.Repeat("x", 40)), "", selector.RankPolicy[string]{})
	WriteRanked(NewPlain(&buf, 14), entries, nil, RankOptions{Cursor: -1})
	assert.Equal(t, "  xxxxxxxxx…\n", buf.String())
}
