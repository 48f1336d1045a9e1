package main

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vovanec/report"
	"github.com/vovanec/report/loghelper"
	"github.com/vovanec/report/spantrace"
)

type AppVersion struct {
	Major int
	Minor int
	Patch int
}

func (v AppVersion) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("major", v.Major),
		slog.Int("minor", v.Minor),
		slog.Int("patch", v.Patch),
	)
}

type Application struct {
	Name    string
	Version AppVersion
	Build   string

	tracer trace.Tracer
}

func (a Application) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", a.Name),
		slog.Any("version", a.Version),
		slog.Group("build",
			slog.String("hash", a.Build),
		),
	)
}

func (a Application) dbGetUser(ctx context.Context, userID string) error {
	ctx, span := spantrace.Start(ctx, a.tracer, "db_get_user")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	slog.Info("getting user from the database", loghelper.Attr(ctx))

	// code to get user data from the database

	return report.FromContext(ctx, sql.ErrNoRows).
		Wrap("error getting user from database",
			// Log attributes can be attached to the error, they will be logged by the caller.
			slog.Group("db",
				slog.String("query", "SELECT first_name, last_name FROM users WHERE id=$1"),
			),
		).
		Suggestion("check that the user id exists")
}

// GetUser looks the user up inside a request span.
func (a Application) GetUser(ctx context.Context, userID string) error {
	ctx, span := spantrace.Start(ctx, a.tracer, "get_user")
	defer span.End()

	if err := a.dbGetUser(ctx, userID); err != nil {
		// Wrapping keeps the handler and the context it captured.
		return report.Wrap(err, "error in GetUser",
			slog.Any("execution_time", time.Now()),
		)
	}
	return nil
}

// cacheUser writes to a cache that was never created and panics. It shows
// how a recovered panic is reported.
func (a Application) cacheUser(userID string) {
	var cache map[string]Application
	cache[userID] = a
}
