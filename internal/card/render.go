// Package card renders GitHub repository and gist metadata into SVG cards.
package card

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/google/go-github/v67/github"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultAPIBase   = "https://api.github.com"
	DefaultColorsURL = "https://raw.githubusercontent.com/ozh/github-colors/master/colors.json"

	defaultLanguageColor = "#ffffff"
)

var ErrInvalidName = errors.New("card: invalid name")

//go:embed templates/repo.svg
var repoTemplate string

//go:embed templates/gist.svg
var gistTemplate string

// Source returns the JSON document at a URL. *cache.Cached satisfies it.
type Source interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
}

type Renderer struct {
	src       Source
	apiBase   string
	colorsURL string
}

type RendererOption func(*Renderer)

// WithAPIBase points the renderer at another GitHub API root.
func WithAPIBase(base string) RendererOption {
	return func(r *Renderer) {
		if base != "" {
			r.apiBase = strings.TrimRight(base, "/")
		}
	}
}

// WithColorsURL sets the location of the language colors document.
func WithColorsURL(u string) RendererOption {
	return func(r *Renderer) {
		if u != "" {
			r.colorsURL = u
		}
	}
}

func NewRenderer(src Source, opts ...RendererOption) *Renderer {
	r := &Renderer{src: src, apiBase: DefaultAPIBase, colorsURL: DefaultColorsURL}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RepoURL returns the API URL for fullName ("owner/name").
func (r *Renderer) RepoURL(fullName string) (string, error) {
	parts := strings.Split(strings.TrimSpace(fullName), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("%w: repository %q must be owner/name", ErrInvalidName, fullName)
	}
	return r.apiBase + "/repos/" + url.PathEscape(parts[0]) + "/" + url.PathEscape(parts[1]), nil
}

// GistURL returns the API URL for a gist id.
func (r *Renderer) GistURL(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "/") {
		return "", fmt.Errorf("%w: gist id %q", ErrInvalidName, id)
	}
	return r.apiBase + "/gists/" + url.PathEscape(id), nil
}

type languageColor struct {
	Color *string `json:"color"`
}

// Repo renders the card for the repository fullName ("owner/name").
func (r *Renderer) Repo(ctx context.Context, fullName string, theme Theme) (string, error) {
	repoURL, err := r.RepoURL(fullName)
	if err != nil {
		return "", err
	}

	var colorsRaw, repoRaw json.RawMessage
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		colorsRaw, err = r.src.Get(gctx, r.colorsURL)
		return err
	})
	g.Go(func() error {
		var err error
		repoRaw, err = r.src.Get(gctx, repoURL)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	var colors map[string]languageColor
	if err := json.Unmarshal(colorsRaw, &colors); err != nil {
		return "", fmt.Errorf("decode language colors: %w", err)
	}
	var repo github.Repository
	if err := json.Unmarshal(repoRaw, &repo); err != nil {
		return "", fmt.Errorf("decode repository %s: %w", fullName, err)
	}

	language := repo.GetLanguage()
	langColor := defaultLanguageColor
	if c, ok := colors[language]; ok && language != "" && c.Color != nil {
		langColor = *c.Color
	}
	t := theme.WithDefaults()
	return fill(repoTemplate,
		"cardBackground", t.CardBackground,
		"cardBorder", t.CardBorder,
		"titleColor", t.TitleColor,
		"textColor", t.TextColor,
		"url", repo.GetHTMLURL(),
		"owner", repo.GetOwner().GetLogin(),
		"name", repo.GetName(),
		"description", or(repo.GetDescription(), "No description"),
		"language", or(language, "Unknown"),
		"languageColor", langColor,
		"stars", FormatCount(repo.GetStargazersCount()),
		"forks", FormatCount(repo.GetForksCount()),
		"updatedAt", formatDate(repo.GetUpdatedAt().Time),
	), nil
}

// Gist renders the card for the gist id.
func (r *Renderer) Gist(ctx context.Context, id string, theme Theme) (string, error) {
	gistURL, err := r.GistURL(id)
	if err != nil {
		return "", err
	}
	raw, err := r.src.Get(ctx, gistURL)
	if err != nil {
		return "", err
	}
	var gist github.Gist
	if err := json.Unmarshal(raw, &gist); err != nil {
		return "", fmt.Errorf("decode gist %s: %w", id, err)
	}
	first, err := firstGistFile(raw)
	if err != nil {
		return "", fmt.Errorf("decode gist %s files: %w", id, err)
	}
	file := gist.Files[github.GistFilename(first)]

	t := theme.WithDefaults()
	return fill(gistTemplate,
		"cardBackground", t.CardBackground,
		"cardBorder", t.CardBorder,
		"titleColor", t.TitleColor,
		"textColor", t.TextColor,
		"codeBackground", t.CodeBackground,
		"codeColor", t.CodeColor,
		"url", gist.GetHTMLURL(),
		"owner", gist.GetOwner().GetLogin(),
		"name", or(gist.GetDescription(), file.GetFilename()),
		"content", or(file.GetContent(), "No content available"),
	), nil
}

// firstGistFile returns the name of the first entry of the "files" object in
// document order, or "" when there are none.
func firstGistFile(raw json.RawMessage) (string, error) {
	var doc struct {
		Files json.RawMessage `json:"files"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", err
	}
	if len(doc.Files) == 0 {
		return "", nil
	}
	dec := json.NewDecoder(bytes.NewReader(doc.Files))
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' || !dec.More() {
		return "", nil
	}
	tok, err = dec.Token()
	if err != nil {
		return "", err
	}
	name, _ := tok.(string)
	return name, nil
}

// fill replaces each {{placeholder}} with its HTML-escaped value.
func fill(tmpl string, pairs ...string) string {
	args := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		args = append(args, "{{"+pairs[i]+"}}", html.EscapeString(pairs[i+1]))
	}
	return strings.NewReplacer(args...).Replace(tmpl)
}
