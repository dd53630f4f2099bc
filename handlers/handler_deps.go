package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"craftmotion/studio-api/internal/comments"
	"craftmotion/studio-api/internal/invoicing"
	"craftmotion/studio-api/internal/review"
	"craftmotion/studio-api/internal/session"
	"craftmotion/studio-api/internal/store"
)

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Logger   *logrus.Logger
	Store    *store.Store
	Comments *comments.Engine
	Review   *review.Service
	Composer *invoicing.Composer
	Sessions *session.Manager
	Validate *validator.Validate
}

// NewApplicationHandler creates an ApplicationHandler with the given
// dependencies.
func NewApplicationHandler(logger *logrus.Logger, st *store.Store, engine *comments.Engine, reviewSvc *review.Service, composer *invoicing.Composer, sessions *session.Manager) *ApplicationHandler {
	return &ApplicationHandler{
		Logger:   logger,
		Store:    st,
		Comments: engine,
		Review:   reviewSvc,
		Composer: composer,
		Sessions: sessions,
		Validate: validator.New(),
	}
}
