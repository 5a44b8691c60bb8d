package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/tokworld"
	"github.com/aretw0/tokworld/pkg/domain"
	"github.com/aretw0/tokworld/pkg/world"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Engine describes the chart behind the characters.
type Engine interface {
	Inspect() ([]domain.NodeInfo, error)
	Graph(active []string) (string, error)
}

// TravelResult is the output of the travel tool.
type TravelResult struct {
	Hours     float64      `json:"hours" jsonschema_description:"Game hours spent travelling"`
	Time      string       `json:"time" jsonschema_description:"Game time after arrival"`
	Character world.Status `json:"character" jsonschema_description:"The character after arrival"`
}

// Server exposes a world as an MCP server so agents can watch and steer
// characters.
type Server struct {
	world     *world.Manager
	engine    Engine
	tickDelta time.Duration
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(w *world.Manager, engine Engine) *Server {
	s := &Server{
		world:     w,
		engine:    engine,
		tickDelta: 100 * time.Millisecond,
		mcpServer: server.NewMCPServer("tokworld-mcp", strings.TrimSpace(tokworld.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sseServer := server.NewSSEServer(s.mcpServer)

	errs := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		errs <- sseServer.Start(addr)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sseServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_characters",
		mcp.WithDescription("List every character with its active states, context and position."),
		mcp.WithOutputSchema[world.Frame](),
	), mcp.NewStructuredToolHandler(s.handleListCharacters))

	s.mcpServer.AddTool(mcp.NewTool("inspect_character",
		mcp.WithDescription("Show one character's active states, context and position."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Character ID")),
		mcp.WithOutputSchema[world.Status](),
	), mcp.NewStructuredToolHandler(s.handleInspectCharacter))

	s.mcpServer.AddTool(mcp.NewTool("set_flag",
		mcp.WithDescription("Set a context flag of a character (e.g. stomachPain, wantsWork). The machine reacts on the next tick."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Character ID")),
		mcp.WithString("flag", mcp.Required(), mcp.Description("Flag name")),
		mcp.WithBoolean("value", mcp.Description("Flag value (default true)")),
		mcp.WithOutputSchema[world.Status](),
	), mcp.NewStructuredToolHandler(s.handleSetFlag))

	s.mcpServer.AddTool(mcp.NewTool("tick",
		mcp.WithDescription("Advance the world: update every character once per tick."),
		mcp.WithNumber("count", mcp.Description("Number of ticks (default 1)")),
		mcp.WithNumber("delta_ms", mcp.Description("Real milliseconds per tick")),
		mcp.WithOutputSchema[world.Frame](),
	), mcp.NewStructuredToolHandler(s.handleTick))

	s.mcpServer.AddTool(mcp.NewTool("travel",
		mcp.WithDescription("Move a character to another map through the hub. Game time advances by the travel time."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Character ID")),
		mcp.WithNumber("map_id", mcp.Required(), mcp.Description("Destination map ID")),
		mcp.WithOutputSchema[TravelResult](),
	), mcp.NewStructuredToolHandler(s.handleTravel))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Render the state chart as a Mermaid diagram, optionally highlighting a character's active states."),
		mcp.WithNumber("id", mcp.Description("Character ID to highlight (optional)")),
	), s.handleGetGraph)
}

func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case string:
		var n int
		_, err := fmt.Sscanf(v, "%d", &n)
		return n, err == nil
	}
	return 0, false
}

func requireInt(args map[string]any, key string) (int, error) {
	v, ok := intArg(args, key)
	if !ok {
		return 0, fmt.Errorf("argument %q must be a number", key)
	}
	return v, nil
}

func (s *Server) handleListCharacters(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (world.Frame, error) {
	return s.world.Frame(), nil
}

func (s *Server) handleInspectCharacter(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (world.Status, error) {
	id, err := requireInt(args, "id")
	if err != nil {
		return world.Status{}, err
	}
	return s.world.Status(id)
}

func (s *Server) handleSetFlag(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (world.Status, error) {
	id, err := requireInt(args, "id")
	if err != nil {
		return world.Status{}, err
	}
	flag, _ := args["flag"].(string)
	if flag == "" {
		return world.Status{}, fmt.Errorf("argument %q is required", "flag")
	}
	value := true
	if v, ok := args["value"].(bool); ok {
		value = v
	}
	if err := s.world.SetFlag(id, flag, value); err != nil {
		return world.Status{}, err
	}
	slog.Debug("MCP: flag set", "id", id, "flag", flag, "value", value)
	return s.world.Status(id)
}

func (s *Server) handleTick(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (world.Frame, error) {
	count := 1
	if n, ok := intArg(args, "count"); ok && n > 0 {
		count = n
	}
	delta := s.tickDelta
	if ms, ok := intArg(args, "delta_ms"); ok && ms > 0 {
		delta = time.Duration(ms) * time.Millisecond
	}
	for range count {
		if err := s.world.Tick(ctx, delta); err != nil {
			slog.Warn("MCP: tick reported errors", "err", err)
		}
	}
	return s.world.Frame(), nil
}

func (s *Server) handleTravel(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (TravelResult, error) {
	id, err := requireInt(args, "id")
	if err != nil {
		return TravelResult{}, err
	}
	mapID, err := requireInt(args, "map_id")
	if err != nil {
		return TravelResult{}, err
	}
	hours, err := s.world.TravelTo(id, mapID)
	if err != nil {
		return TravelResult{}, err
	}
	st, err := s.world.Status(id)
	if err != nil {
		return TravelResult{}, err
	}
	return TravelResult{Hours: hours, Time: s.world.Clock().String(), Character: st}, nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var active []string
	if id, ok := intArg(request.GetArguments(), "id"); ok {
		st, err := s.world.Status(id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		active = st.Machine.Active
	}
	out, err := s.engine.Graph(active)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("graph failed: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("tokworld://chart", "State chart structure",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		nodes, err := s.engine.Inspect()
		if err != nil {
			return nil, fmt.Errorf("failed to inspect chart: %w", err)
		}
		jsonBytes, _ := json.Marshal(nodes)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "tokworld://chart",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource("tokworld://clock", "Game clock",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "tokworld://clock",
				MIMEType: "text/plain",
				Text:     s.world.Clock().String(),
			},
		}, nil
	})
}
