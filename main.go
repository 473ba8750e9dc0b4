// Command denari connects to a denari card-game server.
//
// It supports two modes:
//  1. "play" – joins a room, logs every room update, and keeps the seat
//     until interrupted
//  2. "mcp"  – exposes the table as MCP tools over stdio so an agent can
//     sit down and play
//
// Flags control host, room, display name, TLS, and (for play) the game to
// start. The auth handshake runs automatically before the room connection
// is opened.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"

	"github.com/denarigame/denari-go/auth"
	"github.com/denarigame/denari-go/game/model"
	"github.com/denarigame/denari-go/game/table"
	mcptransport "github.com/denarigame/denari-go/transport/mcp"
)

const (
	Version = "1.0.0"
	AppName = "Denari Card Table Client"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	cmd := &cli.Command{
		Name:    "denari",
		Usage:   AppName,
		Version: Version,
		Commands: []*cli.Command{
			playCommand(),
			mcpCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// connectionFlags are shared by every mode that opens a room connection.
func connectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost:9090",
			Usage:   "Game server host:port",
			Sources: cli.EnvVars("DENARI_HOST"),
		},
		&cli.StringFlag{
			Name:     "room",
			Usage:    "Room id to connect to",
			Required: true,
			Sources:  cli.EnvVars("DENARI_ROOM"),
		},
		&cli.StringFlag{
			Name:    "name",
			Value:   "denari-cli",
			Usage:   "Display name to authenticate with",
			Sources: cli.EnvVars("DENARI_NAME"),
		},
		&cli.BoolFlag{
			Name:  "secure",
			Usage: "Use wss/https",
		},
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Join a room and log every room update",
		Flags: connectionFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := connect(ctx, cmd, true)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			log.Println("Leaving the table...")
			return nil
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Expose the table as MCP tools over stdio",
		Flags: connectionFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			client, err := connect(ctx, cmd, false)
			if err != nil {
				return err
			}
			defer client.Close()

			mcpServer := mcptransport.NewServer(client)
			log.Println("MCP stdio server ready")
			return server.ServeStdio(mcpServer.MCPServer())
		},
	}
}

// connect performs the auth handshake and opens the table connection.
func connect(ctx context.Context, cmd *cli.Command, autoJoin bool) (*table.Client, error) {
	host := cmd.String("host")
	secure := cmd.Bool("secure")

	token, err := auth.NewClient(host, secure).FetchToken(ctx, cmd.String("name"))
	if err != nil {
		return nil, fmt.Errorf("auth handshake: %w", err)
	}

	return table.Connect(table.Config{
		RoomID:    model.RoomID(cmd.String("room")),
		Host:      host,
		Secure:    secure,
		AuthToken: token,
		AutoJoin:  autoJoin,
		OnRoomUpdate: func(room *model.Room, _ *table.Client) {
			log.Print(describeRoom(room))
		},
		OnDisconnected: func(reason string) {
			log.Printf("Disconnected: %s", reason)
		},
	})
}

// describeRoom renders a one-glance summary of the room for the play log.
func describeRoom(room *model.Room) string {
	var b strings.Builder
	fmt.Fprintf(&b, "room update:\n")
	if room.MatchInfo != nil {
		fmt.Fprintf(&b, "  match: %s\n", room.MatchInfo.GameType)
	}
	for _, seat := range room.Seats {
		if seat.Occupant == nil {
			fmt.Fprintf(&b, "  seat %d: empty\n", seat.Index)
			continue
		}
		occ := seat.Occupant
		fmt.Fprintf(&b, "  seat %d: %s [%s] hand=%d pile=%d\n",
			seat.Index, occ.Player.Name, occ.State, len(seat.Hand), len(seat.Pile))
	}
	fmt.Fprintf(&b, "  board=%d deck=%d", len(room.Board), len(room.Deck))
	return b.String()
}
