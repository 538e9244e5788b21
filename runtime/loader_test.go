package runtime

import (
	"log/slog"
	"pawmatch/errors"
	"testing"
	"testing/fstest"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestCensoredLoader_Merges_Languages(t *testing.T) {
	req := require.New(t)
	files := fstest.MapFS{
		"words/en.txt":    {Data: []byte("scammer\r\nidiot\n\n# comment\n")},
		"words/fr.txt":    {Data: []byte("idiot\narnaque\n")},
		"words/README.md": {Data: []byte("ignored")},
		"words/nested/x":  {Data: []byte("ignored")},
	}

	data, err := NewCensoredLoader(files).LoadAll("words")

	req.NoError(err)
	req.Equal([]string{"arnaque", "idiot", "scammer"}, data.Words)
	req.ElementsMatch([]string{"en", "fr"}, data.Languages)
}

func TestCensoredLoader_Empty(t *testing.T) {
	files := fstest.MapFS{"words/en.txt": {Data: []byte("\n  \n")}}
	_, err := NewCensoredLoader(files).LoadAll("words")
	require.ErrorIs(t, err, errors.ErrEmptyWords)
}

func TestLoadModerator_From_Embedded_Lists(t *testing.T) {
	req := require.New(t)
	moderator, err := LoadModerator(logs.GetLoggerFromLevel(slog.LevelDebug), '*')
	req.NoError(err)

	content, words := moderator.Censor("you scammer")
	req.Equal("you *******", content)
	req.Equal([]string{"scammer"}, words)
}
