package api

import "github.com/schemview/schemview/internal/schematic"

type SummaryResponse struct {
	ID          string       `json:"id"`
	Object      string       `json:"object"`
	Version     string       `json:"version"`
	TotalBlocks int          `json:"total_blocks"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	Length      int          `json:"length"`
	Mods        []string     `json:"mods"`
	Blocks      []BlockCount `json:"blocks"`
}

type BlockCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func summaryResponse(id string, s *schematic.Summary) SummaryResponse {
	blocks := make([]BlockCount, 0, len(s.Blocks))
	for _, b := range s.Blocks {
		blocks = append(blocks, BlockCount{Name: b.Name, Count: b.Count})
	}
	mods := s.Mods
	if mods == nil {
		mods = []string{}
	}
	return SummaryResponse{
		ID:          id,
		Object:      "schematic.summary",
		Version:     s.Version,
		TotalBlocks: s.TotalBlocks,
		Width:       s.Width,
		Height:      s.Height,
		Length:      s.Length,
		Mods:        mods,
		Blocks:      blocks,
	}
}
