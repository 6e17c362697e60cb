package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAPIRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/players/{playerID}/fixtures", handler.GetPlayerFixtures)
	mux.HandleFunc("GET /api/matches/preview", handler.GetMatchPreview)
	mux.HandleFunc("GET /images/{kind}/{id}", handler.GetImage)
}
