package mcpserver

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog/log"

	"github.com/mgomes/npq/internal/datefilter"
	"github.com/mgomes/npq/internal/render"
	"github.com/mgomes/npq/internal/search"
)

type SearchNotesRequest struct {
	Query          string `json:"query"`
	MarkdownOnly   bool   `json:"markdown_only"`
	SpacesOnly     bool   `json:"spaces_only"`
	IncludeSpecial bool   `json:"include_special"`
	After          string `json:"after"`
	Before         string `json:"before"`
}

type GetNoteRequest struct {
	Identifier string `json:"identifier"`
}

type ListNotesRequest struct {
	MarkdownOnly   bool   `json:"markdown_only"`
	SpacesOnly     bool   `json:"spaces_only"`
	IncludeSpecial bool   `json:"include_special"`
	After          string `json:"after"`
	Before         string `json:"before"`
}

func sourceOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithBoolean("markdown_only",
			mcp.DefaultBool(false),
			mcp.Description("Only search markdown and text files on disk"),
		),
		mcp.WithBoolean("spaces_only",
			mcp.DefaultBool(false),
			mcp.Description("Only search the Spaces database"),
		),
		mcp.WithBoolean("include_special",
			mcp.DefaultBool(false),
			mcp.Description("Include @Templates, @Trash and @Archive folders"),
		),
		mcp.WithString("after",
			mcp.Description("Only notes modified on or after this date (YYYY-MM-DD or ISO timestamp)"),
		),
		mcp.WithString("before",
			mcp.Description("Only notes modified on or before this date (YYYY-MM-DD or ISO timestamp)"),
		),
	}
}

func (ns *NotesServer) NewSearchNotesTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Search NotePlan notes and Spaces by text, most recently modified first"),
		mcp.WithString("query",
			mcp.Description("Text to search for, case-insensitive"),
			mcp.Required(),
		),
	}
	return mcp.NewTool("search_notes", append(opts, sourceOptions()...)...)
}

func (ns *NotesServer) NewGetNoteTool() mcp.Tool {
	return mcp.NewTool("get_note",
		mcp.WithDescription("Fetch the full content of a note by Spaces id, title, path or file name"),
		mcp.WithString("identifier",
			mcp.Description("Spaces note id, note title, path such as Notes/Projects/plan.md, or file name"),
			mcp.Required(),
		),
	)
}

func (ns *NotesServer) NewListNotesTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List Spaces notes and markdown files, most recently modified first"),
	}
	return mcp.NewTool("list_notes", append(opts, sourceOptions()...)...)
}

// SearchNotes returns the same document as `npq --json <query>`.
func (ns *NotesServer) SearchNotes(ctx context.Context, request mcp.CallToolRequest, params SearchNotesRequest) (*mcp.CallToolResult, error) {
	query := strings.TrimSpace(params.Query)
	if query == "" {
		return errorResult("query is required"), nil
	}

	filter, err := datefilter.Parse(params.After, params.Before)
	if err != nil {
		return errorResult("%v", err), nil
	}

	results := ns.searcher.Search(ctx, params.Query, search.Options{
		MarkdownOnly:   params.MarkdownOnly,
		SpacesOnly:     params.SpacesOnly,
		IncludeSpecial: params.IncludeSpecial,
		Filter:         filter,
	})
	return jsonResult(render.NewSearchDocument(params.Query, results))
}

// GetNote returns the same document as `npq --json --get <identifier>`.
func (ns *NotesServer) GetNote(ctx context.Context, request mcp.CallToolRequest, params GetNoteRequest) (*mcp.CallToolResult, error) {
	if params.Identifier == "" {
		return errorResult("identifier is required"), nil
	}

	return jsonResult(ns.searcher.Get(ctx, params.Identifier))
}

// ListNotes returns the same document as `npq --json --list`.
func (ns *NotesServer) ListNotes(ctx context.Context, request mcp.CallToolRequest, params ListNotesRequest) (*mcp.CallToolResult, error) {
	filter, err := datefilter.Parse(params.After, params.Before)
	if err != nil {
		return errorResult("%v", err), nil
	}

	listing, err := ns.searcher.List(ctx, search.Options{
		MarkdownOnly:   params.MarkdownOnly,
		SpacesOnly:     params.SpacesOnly,
		IncludeSpecial: params.IncludeSpecial,
		Filter:         filter,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Database error")
	}
	return jsonResult(listing)
}
