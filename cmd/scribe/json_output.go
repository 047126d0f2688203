package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"scribe/internal/versionstore"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type versionView struct {
	ID       string            `json:"id"`
	Stage    string            `json:"stage"`
	Metadata map[string]string `json:"metadata"`
	Content  string            `json:"content,omitempty"`
}

func toVersionView(v versionstore.Version, withContent bool) versionView {
	view := versionView{ID: v.ID, Stage: v.StageLabel(), Metadata: v.CloneMetadata()}
	if withContent {
		view.Content = v.Content
	}
	return view
}

func toVersionViews(versions []versionstore.Version, withContent bool) []versionView {
	views := make([]versionView, 0, len(versions))
	for _, v := range versions {
		views = append(views, toVersionView(v, withContent))
	}
	return views
}
