package opt

import (
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nelhage/connectn/cli"
	"github.com/nelhage/connectn/connect"
)

func TestGameFlags(t *testing.T) {
	os.Setenv("CONNECTN_WIDTH", "9")
	os.Setenv("CONNECTN_CONNECT", "bogus")
	defer os.Unsetenv("CONNECTN_WIDTH")
	defer os.Unsetenv("CONNECTN_CONNECT")

	var g Game
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	g.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"-height", "7"}))
	cfg, err := g.Config()
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Width)
	assert.Equal(t, 7, cfg.Height)
	assert.Equal(t, 4, cfg.Connect)

	g.Width = 0
	_, err = g.Config()
	assert.Error(t, err)
}

func TestParsePlayer(t *testing.T) {
	s := Search{Depth: 4}
	p, err := s.ParsePlayer("minimax", 1)
	require.NoError(t, err)
	assert.Equal(t, 4, p.(*cli.Computer).Depth)

	p, err = s.ParsePlayer("minimax:7", 1)
	require.NoError(t, err)
	assert.Equal(t, 7, p.(*cli.Computer).Depth)

	p, err = s.ParsePlayer("rand:3", 1)
	require.NoError(t, err)
	assert.IsType(t, &cli.AIPlayer{}, p)

	for _, bad := range []string{"minimax:x", "minimax:0", "minimax:21", "rand:x", "remote", "alphazero"} {
		_, err := s.ParsePlayer(bad, 1)
		assert.Error(t, err, bad)
	}
	assert.Error(t, (&Search{Depth: 0}).Validate())
	assert.NoError(t, s.Validate())
}

func TestLoadBook(t *testing.T) {
	s := Search{}
	ob, err := s.LoadBook(connect.Standard)
	require.NoError(t, err)
	assert.Nil(t, ob)

	dir, err := ioutil.TempDir("", "connectn-opt")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "book.txt")
	require.NoError(t, ioutil.WriteFile(path, []byte("4 4 4\n4 3\n"), 0644))

	s.Book = path
	ob, err = s.LoadBook(connect.Standard)
	require.NoError(t, err)
	assert.Equal(t, 3, ob.Size())

	s.Book = filepath.Join(dir, "missing.txt")
	_, err = s.LoadBook(connect.Standard)
	assert.Error(t, err)
}
