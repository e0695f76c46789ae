package data_test

import (
	"encoding/json"
	"path"
	"testing"

	"data-loader/core/fileset"
	"data-loader/core/metadata"
	"data-loader/feature/data"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Every data file ends up at its directory path plus base name, and with
// exclude set no data file survives while other files are untouched.
func TestProperty_Load_GraftsEveryFile(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		exclude := rapid.Bool().Draw(rt, "exclude")
		numFiles := rapid.IntRange(0, 8).Draw(rt, "numFiles")

		files := fileset.New()
		want := make(map[string]string)
		for i := 0; i < numFiles; i++ {
			dir := rapid.StringMatching(`(en|fr|de)?`).Draw(rt, "dir")
			key := rapid.StringMatching(`k[a-z]{0,6}`).Draw(rt, "key")
			p := path.Join("data", dir, key+".json")
			if _, taken := want[p]; taken {
				continue
			}
			value := rapid.StringMatching(`[a-zA-Z0-9 ]{0,20}`).Draw(rt, "value")
			body, err := json.Marshal(value)
			require.NoError(rt, err)
			files.AddBytes(p, body)
			want[p] = value
		}
		files.AddBytes("index.md", []byte("# index"))

		meta := metadata.New()
		err := data.NewLoader(data.Config{Exclude: exclude}, nil).Load(files, meta)
		require.NoError(rt, err)

		for p, value := range want {
			rel := p[len("data/"):]
			dir, name := path.Split(rel)
			var segments []string
			if dir != "" {
				segments = []string{path.Clean(dir)}
			}
			got, ok := meta.Lookup(append(segments, name[:len(name)-len(".json")]))
			assert.True(rt, ok, "missing %s", p)
			assert.Equal(rt, value, got)
			assert.Equal(rt, !exclude, files.Has(p))
		}
		assert.True(rt, files.Has("index.md"))
	})
}

// A second load of the same data files into the same tree always collides.
func TestProperty_Load_SecondLoadCollides(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		key := rapid.StringMatching(`[a-z]{1,8}`).Draw(rt, "key")
		dir := rapid.StringMatching(`([a-z]{1,4}/){0,2}`).Draw(rt, "dir")
		p := "data/" + dir + key + ".json"

		meta := metadata.New()
		loader := data.NewLoader(data.Config{}, nil)

		files := fileset.New()
		files.AddBytes(p, []byte(`{"v":1}`))
		require.NoError(rt, loader.Load(files, meta))

		before, err := json.Marshal(meta)
		require.NoError(rt, err)

		err = loader.Load(files, meta)
		assert.ErrorIs(rt, err, data.ErrDuplicateKey)

		after, err := json.Marshal(meta)
		require.NoError(rt, err)
		assert.JSONEq(rt, string(before), string(after))
	})
}
