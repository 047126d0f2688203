package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"scribe/internal/textutil"
	"scribe/internal/versionstore"
)

const (
	ansiBold  = "\033[1m"
	ansiReset = "\033[0m"
)

func versionRows(versions []versionstore.Version) [][]string {
	rows := make([][]string, 0, len(versions))
	for i, v := range versions {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			v.ID,
			v.StageLabel(),
			valueOr(v.ProcessedBy(), "-"),
			valueOr(v.Timestamp(), "-"),
			valueOr(v.ChapterTitle(), "Unknown"),
		})
	}
	return rows
}

func renderVersionTable(out io.Writer, versions []versionstore.Version) {
	if len(versions) == 0 {
		fmt.Fprintln(out, "No versions found.")
		return
	}
	cols := []column{
		rightCol("#"),
		leftCol("ID"),
		leftCol("Stage"),
		leftCol("Processed By"),
		leftCol("Timestamp"),
		leftCol("Chapter").wrapAt(40),
	}
	fmt.Fprintln(out, renderTable(cols, versionRows(versions)))
}

// printVersion shows a version's metadata followed by its content, cut to
// previewChars unless full is set.
func printVersion(out io.Writer, v versionstore.Version, previewChars int, full bool) {
	header := "Version " + v.ID
	if shouldColorize(out) {
		header = ansiBold + header + ansiReset
	}
	fmt.Fprintln(out, header)
	keys := []string{
		versionstore.KeyOriginalURL,
		versionstore.KeyChapterTitle,
		versionstore.KeyStage,
		versionstore.KeyProcessedBy,
		versionstore.KeySourceVersion,
		versionstore.KeyTimestamp,
	}
	known := make(map[string]bool, len(keys))
	for _, key := range keys {
		known[key] = true
		if value, ok := v.Metadata[key]; ok {
			fmt.Fprintf(out, "  %-16s %s\n", key+":", value)
		}
	}
	for _, key := range slices.Sorted(maps.Keys(v.Metadata)) {
		if !known[key] {
			fmt.Fprintf(out, "  %-16s %s\n", key+":", v.Metadata[key])
		}
	}
	fmt.Fprintln(out, strings.Repeat("-", 40))
	content := v.Content
	if !full {
		content = textutil.Preview(content, previewChars)
	}
	fmt.Fprintln(out, content)
}
