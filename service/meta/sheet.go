package meta

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/deskly/internal/yml"
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/router"
	"github.com/viant/deskly/router/binding"
)

// Sheet is the on-disk route sheet document: stage names mapped to ability
// binding declarations in the ability[stateArg,...](provider) form.
type Sheet struct {
	Routes map[string][]string `yaml:"routes"`
}

// LoadRoutes loads a route sheet and compiles it into a routing table.
func (s *Service) LoadRoutes(ctx context.Context, URL string) (*router.Table, error) {
	if filepath.Ext(URL) == "" {
		URL += ".yaml"
	}
	sheet := &Sheet{}
	if err := s.Load(ctx, URL, sheet); err != nil {
		return nil, err
	}
	table, err := CompileRoutes(sheet)
	if err != nil {
		return nil, fmt.Errorf("invalid route sheet %v: %w", URL, err)
	}
	return table, nil
}

// CompileRoutes turns a sheet into a routing table, keeping the pipeline
// stage order regardless of the document's key order.
func CompileRoutes(sheet *Sheet) (*router.Table, error) {
	if sheet == nil || len(sheet.Routes) == 0 {
		return nil, fmt.Errorf("route sheet is empty")
	}
	byStage := make(map[model.Stage][]string, len(sheet.Routes))
	for key, lines := range sheet.Routes {
		stage := model.Stage(strings.ToUpper(strings.TrimSpace(key)))
		if !stage.IsValid() {
			return nil, fmt.Errorf("unknown stage %q", key)
		}
		byStage[stage] = append(byStage[stage], lines...)
	}
	var routes []*router.Route
	for _, stage := range model.Stages() {
		for _, line := range byStage[stage] {
			parsed, err := binding.Parse([]byte(line))
			if err != nil {
				return nil, fmt.Errorf("invalid binding %q for stage %v: %w", line, stage, err)
			}
			routes = append(routes, &router.Route{
				Stage:    stage,
				Ability:  parsed.Ability,
				Provider: parsed.Provider,
				Args:     parsed.Args,
			})
		}
	}
	return router.NewTable(routes...), nil
}

// RenderRoutes renders a routing table back into its sheet document with
// stages emitted in pipeline order; the document is assembled from explicit
// yaml nodes since marshalling a Go map would shuffle the stage keys.
func RenderRoutes(table *router.Table) ([]byte, error) {
	if table == nil || table.Size() == 0 {
		return nil, fmt.Errorf("routing table is empty")
	}
	byStage := yml.NewMap()
	for _, stage := range model.Stages() {
		bound := table.Routes(stage)
		if len(bound) == 0 {
			continue
		}
		lines := make([]string, 0, len(bound))
		for _, route := range bound {
			lines = append(lines, route.Binding())
		}
		byStage.Put(string(stage), lines)
	}
	document := yml.NewDocument().Append(yml.NewMap().Put("routes", byStage))
	return document.Marshal()
}
