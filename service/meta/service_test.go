package meta

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/deskly/model"
	"github.com/viant/deskly/router"
	"gopkg.in/yaml.v3"
)

func TestService_Load(t *testing.T) {
	t.Setenv("DESKLY_TIER", "gold")
	ctx := context.Background()
	fs := afs.New()
	document := `
tier: ${env.DESKLY_TIER}
threshold: 90
`
	err := fs.Upload(ctx, "mem://localhost/deskly/config.yaml", file.DefaultFileOsMode, strings.NewReader(document))
	assert.NoError(t, err)

	service := New(fs, "mem://localhost/deskly")
	target := struct {
		Tier      string `yaml:"tier"`
		Threshold int    `yaml:"threshold"`
	}{}
	err = service.Load(ctx, "config.yaml", &target)
	assert.NoError(t, err)
	assert.EqualValues(t, "gold", target.Tier)
	assert.EqualValues(t, 90, target.Threshold)

	err = service.Load(ctx, "missing.yaml", &target)
	assert.Error(t, err)
}

func TestService_LoadRoutes(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	sheet := `
routes:
  UNDERSTAND:
    - parse_request_text(internal)
    - extract_entities(external)
  decide:
    - solution_evaluation(internal)
    - escalation_decision[solution_score](external)
`
	err := fs.Upload(ctx, "mem://localhost/deskly/routes.yaml", file.DefaultFileOsMode, strings.NewReader(sheet))
	assert.NoError(t, err)

	service := New(fs, "mem://localhost/deskly")
	table, err := service.LoadRoutes(ctx, "routes")
	assert.NoError(t, err)
	assert.EqualValues(t, 4, table.Size())

	route, err := table.Route(model.StageDecide, model.AbilityEscalationDecision)
	assert.NoError(t, err)
	assert.EqualValues(t, model.ProviderExternal, route.Provider)
	assert.EqualValues(t, 1, len(route.Args))

	provider, err := table.Provider(model.StageUnderstand, model.AbilityParseRequest)
	assert.NoError(t, err)
	assert.EqualValues(t, model.ProviderInternal, provider)
}

func TestRenderRoutes(t *testing.T) {
	data, err := RenderRoutes(router.DefaultTable())
	assert.NoError(t, err)

	// stage keys come out in pipeline order
	text := string(data)
	assert.True(t, strings.Index(text, "UNDERSTAND") < strings.Index(text, "PREPARE"))
	assert.True(t, strings.Index(text, "PREPARE") < strings.Index(text, "DECIDE"))
	assert.True(t, strings.Index(text, "DECIDE") < strings.Index(text, "DO"))
	assert.Contains(t, text, "escalation_decision[solution_score](external)")

	// the rendered document compiles back into an equivalent table
	sheet := &Sheet{}
	assert.NoError(t, yaml.Unmarshal(data, sheet))
	table, err := CompileRoutes(sheet)
	assert.NoError(t, err)
	assert.EqualValues(t, 15, table.Size())
	route, err := table.Route(model.StageDecide, model.AbilityEscalationDecision)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, len(route.Args))

	_, err = RenderRoutes(router.NewTable())
	assert.Error(t, err)
}

func TestCompileRoutes_Invalid(t *testing.T) {
	testCases := []struct {
		description string
		sheet       *Sheet
	}{
		{
			description: "empty sheet",
			sheet:       &Sheet{},
		},
		{
			description: "unknown stage",
			sheet:       &Sheet{Routes: map[string][]string{"TRIAGE": {"parse_request_text(internal)"}}},
		},
		{
			description: "malformed binding",
			sheet:       &Sheet{Routes: map[string][]string{"DECIDE": {"solution_evaluation("}}},
		},
	}
	for _, testCase := range testCases {
		_, err := CompileRoutes(testCase.sheet)
		assert.Error(t, err, testCase.description)
	}
}
