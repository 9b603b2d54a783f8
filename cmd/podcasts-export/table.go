package main

import (
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/handiism/podcasts-export/internal/export"
	"github.com/handiism/podcasts-export/internal/model"
)

func renderTable(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:           i + 1,
			Align:            text.AlignLeft,
			AlignHeader:      text.AlignLeft,
			WidthMax:         60,
			WidthMaxEnforcer: text.WrapSoft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// planRows lists every planned episode with its path relative to outputDir.
func planRows(outputDir string, groups []*model.ExportGroup) [][]string {
	var rows [][]string
	for _, group := range groups {
		for _, episode := range group.Members {
			dest := episode.DestinationPath
			if rel, err := filepath.Rel(outputDir, dest); err == nil {
				dest = rel
			}
			rows = append(rows, []string{episode.EpisodeID, episode.TitleSource.String(), dest})
		}
	}
	return rows
}

func renderPlan(outputDir string, groups []*model.ExportGroup) string {
	rows := planRows(outputDir, groups)
	if len(rows) == 0 {
		return "No cached episodes found."
	}
	return "Output: " + outputDir + "\n" +
		renderTable([]string{"Episode", "Title From", "Destination"}, rows)
}

func renderFailures(failures []export.Failure) string {
	rows := make([][]string, 0, len(failures))
	for _, f := range failures {
		rows = append(rows, []string{f.EpisodeID, f.Source, f.Err.Error()})
	}
	return renderTable([]string{"Episode", "Source", "Error"}, rows)
}
