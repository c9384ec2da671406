package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gamma-omg/medbot-mcp/matcher"
	"github.com/gamma-omg/medbot-mcp/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type matcherProvider interface {
	Matcher() *matcher.Matcher
}

type askResponse struct {
	Session string  `json:"session"`
	Kind    string  `json:"kind"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
}

type botHandlers struct {
	bot      matcherProvider
	sessions session.Store
	metrics  *Metrics
	log      *slog.Logger
}

func NewBotServer(bot matcherProvider, sessions session.Store, metrics *Metrics, log *slog.Logger) *server.MCPServer {
	h := &botHandlers{
		bot:      bot,
		sessions: sessions,
		metrics:  metrics,
		log:      log,
	}

	ask := mcp.NewTool("ask",
		mcp.WithDescription("Ask the health assistant a question and get the best known answer"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The user's question"),
		),
		mcp.WithString("session",
			mcp.Description("Session id returned by a previous ask; omit to start a new session"),
		))

	tip := mcp.NewTool("daily_tip",
		mcp.WithDescription("Get the health tip of the day"))

	transcript := mcp.NewTool("transcript",
		mcp.WithDescription("Get the questions and replies of a session"),
		mcp.WithString("session",
			mcp.Required(),
			mcp.Description("Session id"),
		))

	srv := server.NewMCPServer("MedBot", "0.1.0", server.WithToolCapabilities(false))
	srv.AddTool(ask, h.ask)
	srv.AddTool(tip, h.dailyTip)
	srv.AddTool(transcript, h.transcript)

	return srv
}

func (h *botHandlers) ask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id := strings.TrimSpace(request.GetString("session", ""))
	if id == "" {
		id = session.NewID()
	} else if !session.ValidID(id) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid session id: %q", id)), nil
	}

	start := time.Now()
	res := h.bot.Matcher().Match(q)
	h.metrics.observeMatch(res.Kind, time.Since(start))

	err = h.sessions.Append(ctx, id, session.Turn{
		Query: q,
		Reply: res.Text,
		Kind:  string(res.Kind),
		At:    time.Now().UTC(),
	})
	if err != nil {
		h.log.Error("failed to record turn", "session", id, "error", err)
	}

	raw, err := json.Marshal(askResponse{
		Session: id,
		Kind:    string(res.Kind),
		Text:    res.Text,
		Score:   res.Score,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(string(raw)), nil
}

func (h *botHandlers) dailyTip(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(h.bot.Matcher().DailyTip()), nil
}

func (h *botHandlers) transcript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	turns, err := h.sessions.History(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response string
	for _, t := range turns {
		raw, err := json.Marshal(t)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		response += fmt.Sprintf("%s\n", string(raw))
	}

	return mcp.NewToolResultText(response), nil
}
