package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("CalisthenIQ", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("CalisthenIQ calisthenics coaching server. Query weekly workout progress, per-category level analysis and the exercise catalog, or log new workout sessions."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetWeeklyProgress, Handler: h.getWeeklyProgress},
		server.ServerTool{Tool: toolGetLevelProgress, Handler: h.getLevelProgress},
		server.ServerTool{Tool: toolGetCurrentLevels, Handler: h.getCurrentLevels},
		server.ServerTool{Tool: toolGetExercises, Handler: h.getExercises},
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolLogWorkout, Handler: h.logWorkout},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resWeeklySummary, Handler: h.weeklySummary},
		server.ServerResource{Resource: resLevelProgress, Handler: h.levelProgress},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resWeeklySummary = mcp.NewResource(
	"calistheniq://weekly_summary",
	"Weekly Summary",
	mcp.WithResourceDescription("The current week's day-by-day completion state, stats, motivational message and unlocked achievements"),
	mcp.WithMIMEType("application/json"),
)

var resLevelProgress = mcp.NewResource(
	"calistheniq://level_progress",
	"Level Progress",
	mcp.WithResourceDescription("Overall level, strongest and focus movement areas, mastery percentage and training recommendations"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"calistheniq://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All exercises across difficulty levels 0-5 and movement categories"),
	mcp.WithMIMEType("application/json"),
)
