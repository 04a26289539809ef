package tui

import "github.com/mgomes/npq/internal/note"

type SearchResultsMsg struct {
	Query   string
	Results []note.Result
}

type OpenedMsg struct {
	Title string
}

type OpenErrorMsg struct {
	Error string
}
