package server

import (
	"time"

	"github.com/hupe1980/modelcompat"
	"github.com/hupe1980/modelcompat/model"
)

type modelResponse struct {
	model.ModelRecord
	Architecture string `json:"architecture"`
	Age          *int   `json:"age,omitempty"`
}

type groupResponse struct {
	ProductLine string          `json:"product_line"`
	Models      []modelResponse `json:"models"`
}

type viewResponse struct {
	Seq           uint64                    `json:"seq"`
	Mode          string                    `json:"mode"`
	Versions      []model.VersionDescriptor `json:"versions"`
	Count         int                       `json:"count"`
	Groups        []groupResponse           `json:"groups"`
	FailedSources []string                  `json:"failed_sources,omitempty"`
	Warning       string                    `json:"warning,omitempty"`
	Superseded    bool                      `json:"superseded,omitempty"`
	Filename      string                    `json:"filename"`
}

func newViewResponse(v modelcompat.View, now time.Time) viewResponse {
	groups := model.GroupByProductLine(v.Models)
	out := viewResponse{
		Seq:           v.Seq,
		Mode:          v.Mode.String(),
		Versions:      v.Versions,
		Count:         len(v.Models),
		Groups:        make([]groupResponse, len(groups)),
		FailedSources: v.FailedSources,
		Warning:       v.Warning(),
		Superseded:    v.Superseded,
		Filename:      v.Filename(),
	}
	for i, g := range groups {
		gr := groupResponse{ProductLine: g.ProductLine, Models: make([]modelResponse, len(g.Models))}
		for j, m := range g.Models {
			mr := modelResponse{ModelRecord: m, Architecture: m.CPUArchitecture.Label()}
			if age, err := model.Age(m.ReleaseDate, now); err == nil {
				mr.Age = &age
			}
			gr.Models[j] = mr
		}
		out.Groups[i] = gr
	}
	return out
}
