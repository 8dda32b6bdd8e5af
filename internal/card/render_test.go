package card

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPI    = "https://api.example"
	testColors = "https://colors.example/colors.json"
)

type fakeSource struct {
	mu   sync.Mutex
	docs map[string]string
	errs map[string]error
	seen []string
}

func (s *fakeSource) Get(_ context.Context, key string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, key)
	if err, ok := s.errs[key]; ok {
		return nil, err
	}
	doc, ok := s.docs[key]
	if !ok {
		return nil, errors.New("failed to fetch " + key + ": 404 Not Found")
	}
	return json.RawMessage(doc), nil
}

const colorsDoc = `{"Go":{"color":"#00ADD8","url":"https://github.com/trending?l=Go"},"Rust":{"color":null}}`

const repoDoc = `{
	"name": "bar",
	"html_url": "https://github.com/foo/bar",
	"owner": {"login": "foo"},
	"description": "Cards <for> \"everyone\" & more",
	"language": "Go",
	"stargazers_count": 1234,
	"forks_count": 56,
	"updated_at": "2024-03-05T10:00:00Z"
}`

func newTestRenderer(docs map[string]string) (*Renderer, *fakeSource) {
	src := &fakeSource{docs: docs, errs: map[string]error{}}
	return NewRenderer(src, WithAPIBase(testAPI+"/"), WithColorsURL(testColors)), src
}

func parseSVG(t *testing.T, svg string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(svg))
	require.NoError(t, err)
	return doc
}

func TestRenderRepo(t *testing.T) {
	t.Parallel()

	r, src := newTestRenderer(map[string]string{
		testColors:                colorsDoc,
		testAPI + "/repos/foo/bar": repoDoc,
	})

	svg, err := r.Repo(context.Background(), "foo/bar", Theme{})
	require.NoError(t, err)
	assert.NotContains(t, svg, "{{")
	assert.ElementsMatch(t, []string{testColors, testAPI + "/repos/foo/bar"}, src.seen)

	doc := parseSVG(t, svg)
	assert.Equal(t, "foo", doc.Find("tspan.owner").Text())
	assert.Equal(t, "bar", doc.Find("tspan.name").Text())
	assert.Equal(t, `Cards <for> "everyone" & more`, doc.Find("text.description").Text())
	assert.Equal(t, "Go", doc.Find("text.language").Text())
	assert.Equal(t, "#00ADD8", doc.Find("circle.language-color").AttrOr("fill", ""))
	assert.Contains(t, doc.Find("text.stars").Text(), "1.2K")
	assert.Contains(t, doc.Find("text.forks").Text(), "56")
	assert.Equal(t, "Updated 3/5/2024", doc.Find("text.updated").Text())
	assert.Equal(t, "https://github.com/foo/bar", doc.Find("a").AttrOr("href", ""))

	d := DefaultTheme()
	assert.Equal(t, d.CardBackground, doc.Find("rect").First().AttrOr("fill", ""))
	assert.Equal(t, d.CardBorder, doc.Find("rect").First().AttrOr("stroke", ""))
	assert.Equal(t, d.TitleColor, doc.Find("text.title").AttrOr("fill", ""))

	// Raw output must be escaped.
	assert.Contains(t, svg, "Cards &lt;for&gt; &#34;everyone&#34; &amp; more")
}

func TestRenderRepoDefaults(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(map[string]string{
		testColors:                colorsDoc,
		testAPI + "/repos/foo/raw": `{"name":"raw","owner":{"login":"foo"},"stargazers_count":0}`,
		testAPI + "/repos/foo/rs":  `{"name":"rs","owner":{"login":"foo"},"language":"Rust"}`,
		testAPI + "/repos/foo/odd": `{"name":"odd","owner":{"login":"foo"},"language":"Brainfuck"}`,
	})

	svg, err := r.Repo(context.Background(), "foo/raw", Theme{TitleColor: "#ff0000"})
	require.NoError(t, err)
	doc := parseSVG(t, svg)
	assert.Equal(t, "No description", doc.Find("text.description").Text())
	assert.Equal(t, "Unknown", doc.Find("text.language").Text())
	assert.Equal(t, "#ffffff", doc.Find("circle.language-color").AttrOr("fill", ""))
	assert.Equal(t, "Updated Unknown", doc.Find("text.updated").Text())
	assert.Equal(t, "#ff0000", doc.Find("text.title").AttrOr("fill", ""))
	assert.Equal(t, DefaultTheme().CardBackground, doc.Find("rect").First().AttrOr("fill", ""))

	for _, name := range []string{"foo/rs", "foo/odd"} {
		svg, err = r.Repo(context.Background(), name, Theme{})
		require.NoError(t, err)
		assert.Equal(t, "#ffffff", parseSVG(t, svg).Find("circle.language-color").AttrOr("fill", ""), name)
	}
}

func TestRenderRepoErrors(t *testing.T) {
	t.Parallel()

	r, src := newTestRenderer(map[string]string{
		testColors:                colorsDoc,
		testAPI + "/repos/foo/bar": repoDoc,
	})

	for _, name := range []string{"", "foo", "foo/", "/bar", "a/b/c"} {
		_, err := r.Repo(context.Background(), name, Theme{})
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}

	_, err := r.Repo(context.Background(), "foo/gone", Theme{})
	assert.ErrorContains(t, err, "404 Not Found")

	upstream := errors.New("colors unavailable")
	src.errs[testColors] = upstream
	_, err = r.Repo(context.Background(), "foo/bar", Theme{})
	assert.ErrorIs(t, err, upstream)
}

func TestRenderGist(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(map[string]string{
		testAPI + "/gists/abc": `{
			"html_url": "https://gist.github.com/abc",
			"owner": {"login": "foo"},
			"description": "",
			"files": {
				"zeta.go": {"filename": "zeta.go", "content": "package main\nfunc main() { if a < b {} }"},
				"alpha.md": {"filename": "alpha.md", "content": "# alpha"}
			}
		}`,
		testAPI + "/gists/described": `{
			"owner": {"login": "foo"},
			"description": "Handy snippets",
			"files": {"a.txt": {"filename": "a.txt"}}
		}`,
		testAPI + "/gists/empty": `{"owner": {"login": "foo"}, "description": "nothing", "files": {}}`,
	})

	svg, err := r.Gist(context.Background(), "abc", Theme{CodeColor: "#00ff00"})
	require.NoError(t, err)
	assert.NotContains(t, svg, "{{")
	assert.Contains(t, svg, `<tspan class="name">zeta.go</tspan>`)
	assert.Contains(t, svg, "if a &lt; b {}")
	assert.Contains(t, svg, "color:#00ff00")
	assert.Contains(t, svg, `fill="`+DefaultTheme().CodeBackground+`"`)
	assert.Contains(t, svg, `href="https://gist.github.com/abc"`)

	svg, err = r.Gist(context.Background(), "described", Theme{})
	require.NoError(t, err)
	assert.Contains(t, svg, `<tspan class="name">Handy snippets</tspan>`)
	assert.Contains(t, svg, "No content available")

	svg, err = r.Gist(context.Background(), "empty", Theme{})
	require.NoError(t, err)
	assert.Contains(t, svg, "No content available")

	_, err = r.Gist(context.Background(), " ", Theme{})
	assert.ErrorIs(t, err, ErrInvalidName)
	_, err = r.Gist(context.Background(), "missing", Theme{})
	assert.ErrorContains(t, err, "404 Not Found")
}

func TestURLs(t *testing.T) {
	t.Parallel()

	r := NewRenderer(&fakeSource{})
	u, err := r.RepoURL(" foo/bar ")
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/repos/foo/bar", u)

	u, err = r.GistURL("abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/gists/abc123", u)

	_, err = r.GistURL("a/b")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestFirstGistFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		doc  string
		want string
	}{
		{`{"files":{"b":{},"a":{}}}`, "b"},
		{`{"files":{}}`, ""},
		{`{"files":null}`, ""},
		{`{}`, ""},
	}
	for _, tt := range tests {
		got, err := firstGistFile(json.RawMessage(tt.doc))
		require.NoError(t, err, tt.doc)
		assert.Equal(t, tt.want, got, tt.doc)
	}
}
