// Package actions runs the user-initiated writes. Each action authenticates
// the caller, validates the form, optionally uploads an image, performs one
// write and marks the affected views stale before reporting an Outcome.
package actions

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/pageza/homeaway/backend/internal/identity"
	"github.com/pageza/homeaway/backend/internal/metrics"
	"github.com/pageza/homeaway/backend/internal/service"
	"github.com/pageza/homeaway/backend/internal/storage"
	"github.com/pageza/homeaway/backend/internal/validator"
	"github.com/pageza/homeaway/backend/internal/viewcache"
)

const (
	SignInPath        = "/sign-in"
	CreateProfilePath = "/profile/create"
	HomePath          = "/"
	ProfilePath       = "/profile"
	FavoritesPath     = "/favorites"
	PropertyPath      = "/properties/"
)

var tracer = otel.Tracer("github.com/pageza/homeaway/backend/internal/actions")

// Outcome is the terminal state of an action: either a message for the
// caller or a navigation. Exactly one field is set.
type Outcome struct {
	Message  string `json:"message,omitempty"`
	Redirect string `json:"-"`
}

// IsRedirect reports whether the caller should navigate instead of showing a message
func (o Outcome) IsRedirect() bool {
	return o.Redirect != ""
}

func message(msg string) Outcome {
	return Outcome{Message: msg}
}

func redirect(path string) Outcome {
	return Outcome{Redirect: path}
}

// Uploader stores a validated image and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, asset storage.Asset) (string, error)
}

// Actions holds the collaborators every action needs
type Actions struct {
	profiles   service.IProfileService
	properties service.IPropertyService
	favorites  service.IFavoriteService
	identities identity.Provider
	uploader   Uploader
	views      viewcache.Invalidator
	logger     *slog.Logger
}

// Deps groups the constructor arguments of Actions
type Deps struct {
	Profiles   service.IProfileService
	Properties service.IPropertyService
	Favorites  service.IFavoriteService
	Identities identity.Provider
	Uploader   Uploader
	Views      viewcache.Invalidator
	Logger     *slog.Logger
}

func New(d Deps) *Actions {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Actions{
		profiles:   d.Profiles,
		properties: d.Properties,
		favorites:  d.Favorites,
		identities: d.Identities,
		uploader:   d.Uploader,
		views:      d.Views,
		logger:     logger,
	}
}

// requireProfile gates actions that need a signed-in caller with a profile
func requireProfile(caller *identity.Identity) (Outcome, bool) {
	if caller == nil {
		return redirect(SignInPath), false
	}
	if !caller.HasProfile {
		return redirect(CreateProfilePath), false
	}
	return Outcome{}, true
}

// renderError turns a caught failure into the message shown to the caller
func renderError(err error) Outcome {
	if err == nil || err.Error() == "" {
		return message("An error occurred")
	}
	return message(err.Error())
}

// markStale signals that path must be re-rendered. A failed signal is logged
// but never undoes the write that preceded it.
func (a *Actions) markStale(ctx context.Context, path string) {
	if a.views == nil {
		return
	}
	if err := a.views.MarkStale(ctx, path); err != nil {
		a.logger.Warn("failed to mark view stale", slog.String("path", path), slog.Any("error", err))
	}
}

// finish logs, counts and traces the outcome of one action run
func (a *Actions) finish(ctx context.Context, name string, caller *identity.Identity, out Outcome, err error) Outcome {
	result := "success"
	switch {
	case err != nil:
		result = "error"
	case out.IsRedirect():
		result = "redirect"
	}
	metrics.ObserveAction(name, result)

	attrs := []any{slog.String("action", name), slog.String("result", result)}
	if caller != nil {
		attrs = append(attrs, slog.String("identity", caller.ID))
	}
	if out.IsRedirect() {
		attrs = append(attrs, slog.String("redirect", out.Redirect))
	}

	switch {
	case err == nil:
		a.logger.InfoContext(ctx, "action completed", attrs...)
	case isUserError(err):
		a.logger.InfoContext(ctx, "action rejected", append(attrs, slog.String("reason", err.Error()))...)
	default:
		a.logger.ErrorContext(ctx, "action failed", append(attrs, slog.Any("error", err))...)
	}
	return out
}

// isUserError separates rejected input from failures of the system
func isUserError(err error) bool {
	var verr *validator.ValidationError
	return errors.As(err, &verr) || errors.Is(err, identity.ErrUnauthenticated)
}

func (a *Actions) start(ctx context.Context, name string, caller *identity.Identity) (context.Context, func(error)) {
	ctx, span := tracer.Start(ctx, "action."+name)
	if caller != nil {
		span.SetAttributes(attribute.String("identity.id", caller.ID))
	}
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
