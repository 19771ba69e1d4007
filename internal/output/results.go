package output

import (
	"strconv"

	"ordinance-go/internal/model"
	"ordinance-go/internal/render"
)

// Results 在终端中展示检索结果：先输出汇总表，再逐条输出条文。
func (p *Printer) Results(results []model.SearchResult, full bool) error {
	if len(results) == 0 {
		p.Print(render.EmptyStateText)
		return nil
	}

	table := NewTable(p.out, []string{"#", "조례명", "소속", "조문 수"})
	for i, r := range results {
		metro := r.Metro
		if metro == "" {
			metro = "-"
		}
		table.AddRow([]string{strconv.Itoa(i + 1), r.Name, metro, strconv.Itoa(len(r.Content.Blocks()))})
	}
	if err := table.Render(); err != nil {
		return err
	}

	if !full {
		return nil
	}
	for _, r := range results {
		p.Print("")
		p.Heading(r.Name)
		blocks := r.Content.Blocks()
		if len(blocks) == 0 {
			p.Print(p.Dim(render.NoArticleText))
			continue
		}
		for _, article := range blocks {
			p.Print("%s", article)
			p.Print("")
		}
	}
	return nil
}
