package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/tokworld"
	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/world"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	eng, err := tokworld.New(nil)
	require.NoError(t, err)

	atlas := world.NewAtlas()
	atlas.Add(world.MapInfo{ID: 1, Name: "Village", DistanceToHub: 1})
	atlas.Add(world.MapInfo{ID: 2, Name: "Forest", DistanceToHub: 1.5})

	mgr := world.NewManager(eng.NewMachine, world.WithAtlas(atlas))
	_, err = mgr.Create(context.Background(), "Tok", world.Position{MapID: 1})
	require.NoError(t, err)

	s := NewServer(mgr, eng)
	require.NotNil(t, s.mcpServer)
	return s
}

func TestListCharacters(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	frame, err := s.handleListCharacters(ctx, newCallToolRequest("list_characters", nil), nil)
	require.NoError(t, err)
	require.Len(t, frame.Characters, 1)
	assert.Equal(t, "Tok", frame.Characters[0].Name)
}

func TestInspectCharacter(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	args := map[string]any{"id": float64(1)}
	st, err := s.handleInspectCharacter(ctx, newCallToolRequest("inspect_character", args), args)
	require.NoError(t, err)
	assert.Contains(t, st.Machine.Leaves, "Root.Body.Stomach.Normal")

	args = map[string]any{"id": float64(5)}
	_, err = s.handleInspectCharacter(ctx, newCallToolRequest("inspect_character", args), args)
	assert.ErrorIs(t, err, domain.ErrCharacterNotFound)

	args = map[string]any{}
	_, err = s.handleInspectCharacter(ctx, newCallToolRequest("inspect_character", args), args)
	assert.ErrorContains(t, err, `"id"`)
}

func TestSetFlagAndTick(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	args := map[string]any{"id": float64(1), "flag": domain.FlagStomachPain}
	st, err := s.handleSetFlag(ctx, newCallToolRequest("set_flag", args), args)
	require.NoError(t, err)
	assert.True(t, st.Machine.Context.StomachPain)

	args = map[string]any{"count": float64(2)}
	frame, err := s.handleTick(ctx, newCallToolRequest("tick", args), args)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), frame.Tick)
	assert.Contains(t, frame.Characters[0].Machine.Leaves, "Root.Body.Stomach.Pain")

	args = map[string]any{"id": float64(1), "flag": domain.FlagStomachPain, "value": false}
	st, err = s.handleSetFlag(ctx, newCallToolRequest("set_flag", args), args)
	require.NoError(t, err)
	assert.False(t, st.Machine.Context.StomachPain)

	args = map[string]any{"id": float64(1)}
	_, err = s.handleSetFlag(ctx, newCallToolRequest("set_flag", args), args)
	assert.Error(t, err)
}

func TestTravel(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	args := map[string]any{"id": float64(1), "map_id": float64(2)}
	res, err := s.handleTravel(ctx, newCallToolRequest("travel", args), args)
	require.NoError(t, err)
	assert.Equal(t, 2.5, res.Hours)
	assert.Equal(t, "Year 1, Month 1, Day 1, 10:30", res.Time)
	assert.Equal(t, world.Position{MapID: 2, X: 5, Y: 5}, res.Character.Position)

	args = map[string]any{"id": float64(1), "map_id": float64(3)}
	_, err = s.handleTravel(ctx, newCallToolRequest("travel", args), args)
	assert.ErrorIs(t, err, domain.ErrMapNotFound)
}

func TestGetGraph(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleGetGraph(ctx, newCallToolRequest("get_graph", map[string]any{"id": float64(1)}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "class Root_Decision_Rest active;")

	result, err = s.handleGetGraph(ctx, newCallToolRequest("get_graph", map[string]any{"id": float64(9)}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestIntArg(t *testing.T) {
	args := map[string]any{"f": float64(3), "i": 4, "s": "5", "bad": true}
	for key, want := range map[string]int{"f": 3, "i": 4, "s": 5} {
		got, ok := intArg(args, key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
	_, ok := intArg(args, "bad")
	assert.False(t, ok)
	_, ok = intArg(args, "missing")
	assert.False(t, ok)
}
