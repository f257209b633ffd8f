package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(voteHandler *VoteHandler, resultHandler *ResultHandler, eventsHandler *EventsHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/polls/{code}", func(r chi.Router) {
			r.With(VoterToken).Post("/votes", voteHandler.SubmitVote)
			r.With(VoterToken).Get("/my-vote", voteHandler.MyVote)
			r.Get("/results", resultHandler.GetResults)
			r.Get("/live", eventsHandler.Stream)
		})
	})

	return r
}
