package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/gh-cards/internal/card"
)

// RepoCardHandler returns the MCP tool handler for the "repo-card" tool.
func RepoCardHandler(r *card.Renderer) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if ctx.Err() != nil {
			return mcp.NewToolResultError(ctx.Err().Error()), nil
		}
		repo, err := req.RequireString("repo")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		svg, err := r.Repo(ctx, repo, themeFromRequest(req))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(svg), nil
	}
}

// themeFromRequest reads the optional color overrides; unset ones stay empty
// and fall back to the default theme.
func themeFromRequest(req mcp.CallToolRequest) card.Theme {
	return card.Theme{
		CardBackground: req.GetString("card_background", ""),
		CardBorder:     req.GetString("card_border", ""),
		TitleColor:     req.GetString("title_color", ""),
		TextColor:      req.GetString("text_color", ""),
		CodeBackground: req.GetString("code_background", ""),
		CodeColor:      req.GetString("code_color", ""),
	}
}

// ThemeOptions declares the optional theme arguments shared by both card tools.
func ThemeOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("card_background", mcp.Description("Card background color, e.g. #0d1117")),
		mcp.WithString("card_border", mcp.Description("Card border color")),
		mcp.WithString("title_color", mcp.Description("Title color")),
		mcp.WithString("text_color", mcp.Description("Body text color")),
		mcp.WithString("code_background", mcp.Description("Gist code block background color")),
		mcp.WithString("code_color", mcp.Description("Gist code text color")),
	}
}
