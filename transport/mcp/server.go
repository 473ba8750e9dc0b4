package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/denarigame/denari-go/game/model"
	"github.com/denarigame/denari-go/game/table"
)

// Server wraps a table client with an MCP tool surface.
type Server struct {
	table     *table.Client
	mcpServer *server.MCPServer
}

// NewServer builds the MCP server around an already connected table client.
func NewServer(t *table.Client) *Server {
	s := &Server{table: t}
	s.initMCPServer()
	return s
}

// initMCPServer initializes the MCP server with all tools.
func (s *Server) initMCPServer() {
	s.mcpServer = server.NewMCPServer(
		"Denari Card Table",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Denari Card Table - MCP Interface

You are connected to one table of an Italian card game server (briscola,
scopa, tressette). The server is authoritative: this client only reflects
state and forwards your intents, so an illegal move is simply rejected or
answered with a corrective event.

TYPICAL FLOW:
1. room_state to see the table
2. join_table to take a seat
3. start_match once opponents are seated
4. Watch room_state for your seat to become "Acting", then play_card or
   take_cards with the card reference ids shown in your hand

Cards are identified by their numeric "ref". Hidden cards (other players'
hands) show only a ref.`),
	)

	s.registerTools()
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "room_state",
		Description: "Get the current room snapshot: seats, hands, board, deck, scores",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleRoomState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "join_table",
		Description: "Ask for a seat at the table",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleJoinTable)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "leave_table",
		Description: "Give up the seat",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleLeaveTable)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "start_match",
		Description: "Start a match at the given game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_type": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"Briscola", "Scopa", "Tressette"},
					"description": "Game to play",
				},
			},
			Required: []string{"game_type"},
		},
	}, s.handleStartMatch)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "shuffle_deck",
		Description: "Resolve a pending ShuffleDeck action",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleShuffleDeck)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "confirm",
		Description: "Resolve a pending Confirm action",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleConfirm)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "play_card",
		Description: "Play a card from your hand by its reference id",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"ref": map[string]interface{}{
					"type":        "integer",
					"description": "Reference id of the card to play",
				},
			},
			Required: []string{"ref"},
		},
	}, s.handlePlayCard)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "take_cards",
		Description: "Play a card and capture cards from the board (scopa)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"ref": map[string]interface{}{
					"type":        "integer",
					"description": "Reference id of the card to play",
				},
				"take": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "integer",
					},
					"description": "Reference ids of the board cards to capture",
				},
			},
			Required: []string{"ref", "take"},
		},
	}, s.handleTakeCards)
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Tool handlers

func (s *Server) handleRoomState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := s.table.RoomJSON()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleJoinTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.table.JoinTable(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("JoinTable sent"), nil
}

func (s *Server) handleLeaveTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.table.LeaveTable(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("LeaveTable sent"), nil
}

func (s *Server) handleStartMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameType, _ := args["game_type"].(string)

	switch model.GameType(gameType) {
	case model.Briscola, model.Scopa, model.Tressette:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown game type: %q", gameType)), nil
	}

	if err := s.table.StartMatch(model.GameType(gameType)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("StartMatch(%s) sent", gameType)), nil
}

func (s *Server) handleShuffleDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.table.ShuffleDeck(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("ShuffleDeck sent"), nil
}

func (s *Server) handleConfirm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.table.Ok(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Ok sent"), nil
}

func (s *Server) handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	ref, ok := args["ref"].(float64)
	if !ok {
		return mcp.NewToolResultError("ref must be an integer"), nil
	}

	card, found := s.table.FindHandCard(model.CardID(ref))
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("card #%d is not in your hand", int(ref))), nil
	}
	if err := s.table.PlayCard(card); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Played %s", card)), nil
}

func (s *Server) handleTakeCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	ref, ok := args["ref"].(float64)
	if !ok {
		return mcp.NewToolResultError("ref must be an integer"), nil
	}
	takeRaw, _ := args["take"].([]interface{})

	card, found := s.table.FindHandCard(model.CardID(ref))
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("card #%d is not in your hand", int(ref))), nil
	}

	take := make([]model.Card, 0, len(takeRaw))
	for _, raw := range takeRaw {
		takeRef, ok := raw.(float64)
		if !ok {
			return mcp.NewToolResultError("take must be an array of integers"), nil
		}
		boardCard, found := s.table.FindBoardCard(model.CardID(takeRef))
		if !found {
			return mcp.NewToolResultError(fmt.Sprintf("card #%d is not on the board", int(takeRef))), nil
		}
		take = append(take, boardCard)
	}

	if err := s.table.TakeCards(card, take); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Played %s taking %d cards", card, len(take))), nil
}
