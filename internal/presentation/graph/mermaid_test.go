package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/internal/presentation/graph"
	"github.com/aretw0/wayfinder/internal/scenario"
	"github.com/aretw0/wayfinder/pkg/adapters/sim"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		views    []graph.ContainerView
		contains []string
	}{
		{
			name:     "Empty Container",
			views:    []graph.ContainerView{{ID: "main"}},
			contains: []string{`subgraph main["main"]`, `main_empty["(empty)"]`},
		},
		{
			name: "Shapes And Order",
			views: []graph.ContainerView{{ID: "main", Stack: []graph.DestinationView{
				{ID: 1, Name: "Home", Mode: "STANDARD", Built: true},
				{ID: 2, Name: "Restored", Mode: "STANDARD"},
				{ID: 3, Name: "Confirm", Mode: "DIALOG", Built: true},
			}}},
			contains: []string{
				`main_1["Home"]`,
				`main_2[/"Restored"/]`,
				`main_3{{"Confirm"}}`,
				"main_1 --> main_2",
				"main_2 --> main_3",
			},
		},
		{
			name: "Overlay And Nesting",
			views: []graph.ContainerView{
				{ID: "main", Split: true, Stack: []graph.DestinationView{
					{ID: 1, Name: "Tabs", Mode: "STANDARD", Built: true, Shown: true, Active: true, Primary: true},
				}},
				{ID: "tab-inbox", Parent: "main", Host: 1},
			},
			contains: []string{
				`subgraph main["main (split)"]`,
				"main_1 -.-> tab_inbox",
				"class main_1 shown;",
				"class main_1 active;",
				"class main_1 primary;",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.views)
			if !strings.HasPrefix(got, "graph LR\n") {
				t.Errorf("missing header: %q", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q\n%s", want, got)
				}
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	ctx := context.Background()
	w, err := scenario.NewWorld(ctx, "main", map[string]sim.Route{
		"Home":   {},
		"Dialog": {Mode: domain.ModeDialog},
	}, scenario.Window{})
	require.NoError(t, err)

	c, err := w.Nav.Container("main")
	require.NoError(t, err)
	c.Path().Push("Home", "p")
	c.Path().Push("Dialog", "")
	w.Loop.Drain()

	views := graph.DescribeAll(w.Nav)
	require.Len(t, views, 1)
	v := views[0]
	assert.Equal(t, "main", v.ID)
	assert.Equal(t, 0, v.LastStandardIndex)
	require.Len(t, v.Stack, 2)
	assert.Equal(t, "p", v.Stack[0].Param)
	assert.True(t, v.Stack[0].Shown, "pages below a dialog stay visible")
	assert.True(t, v.Stack[0].InStack)
	assert.Empty(t, v.Content, "no content partition without split")
	assert.Equal(t, "DIALOG", v.Stack[1].Mode)
	assert.True(t, v.Stack[1].Active)
}

func TestDescribe_SplitContent(t *testing.T) {
	ctx := context.Background()
	w, err := scenario.NewWorld(ctx, "main", map[string]sim.Route{
		"Home":   {},
		"Detail": {},
	}, scenario.Window{Width: 900, Height: 400, Orientation: domain.OrientationLandscape},
		wayfinder.WithSplit(600, "Home"))
	require.NoError(t, err)

	c, err := w.Nav.Container("main")
	require.NoError(t, err)
	c.Path().Push("Home", "")
	c.Path().Push("Detail", "")
	w.Loop.Drain()

	v := graph.Describe(c)
	require.True(t, v.Split)
	require.Len(t, v.Content, 2)
	assert.True(t, v.Content[0].Placeholder)
	assert.Equal(t, v.Stack[0].ID, v.Content[0].ID)
	assert.False(t, v.Content[1].Placeholder)
	assert.Equal(t, 1, v.Content[1].Index)
	assert.True(t, v.Stack[0].Primary)
}
