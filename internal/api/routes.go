package api

import (
	"github.com/go-chi/chi"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/btcpeg/custody-api-service/docs"
)

func (a *Server) SetupRoutes(r *chi.Mux) {
	handlers := a.handlers
	r.Get("/healthcheck", registerHandler(handlers.HealthCheck))

	r.Post("/v1/custodians", registerHandler(handlers.RegisterCustodian))
	r.Get("/v1/custodians", registerHandler(handlers.ListCustodians))
	r.Get("/v1/custodians/{custodianID}", registerHandler(handlers.GetCustodian))
	r.Put("/v1/custodians/{custodianID}/status", registerHandler(handlers.ChangeStatus))
	r.Put("/v1/custodians/{custodianID}/capacity", registerHandler(handlers.IncreaseMintCapacity))
	r.Put("/v1/custodians/{custodianID}/backing", registerHandler(handlers.UpdateBacking))
	r.Get("/v1/custodians/{custodianID}/events", registerHandler(handlers.GetCustodianEvents))
	r.Get("/v1/custodians/{custodianID}/obligations", registerHandler(handlers.GetCustodianObligations))

	r.Post("/v1/custodians/{custodianID}/mint", registerHandler(handlers.Mint))
	r.Post("/v1/custodians/{custodianID}/redemption-notice", registerHandler(handlers.NotifyRedemption))

	r.Post("/v1/custodians/{custodianID}/sync", registerHandler(handlers.SyncBacking))
	r.Post("/v1/custodians/{custodianID}/solvency", registerHandler(handlers.VerifySolvency))
	r.Post("/v1/batch/sync", registerHandler(handlers.BatchSyncBacking))
	r.Post("/v1/batch/solvency", registerHandler(handlers.BatchVerifySolvency))

	r.Get("/v1/custodians/{custodianID}/pause-credit", registerHandler(handlers.GetPauseCredit))
	r.Post("/v1/custodians/{custodianID}/pause-credit", registerHandler(handlers.InitializePauseCredit))
	r.Post("/v1/custodians/{custodianID}/pause-credit/renew", registerHandler(handlers.RenewPauseCredit))
	r.Post("/v1/custodians/{custodianID}/pause", registerHandler(handlers.UseEmergencyPause))
	r.Post("/v1/custodians/{custodianID}/self-pause", registerHandler(handlers.SelfPause))
	r.Post("/v1/custodians/{custodianID}/resume", registerHandler(handlers.ResumeIfExpired))
	r.Post("/v1/custodians/{custodianID}/resume-early", registerHandler(handlers.ResumeEarly))

	r.Post("/v1/redemptions", registerHandler(handlers.CreateRedemption))
	r.Get("/v1/redemptions/{redemptionID}", registerHandler(handlers.GetRedemption))
	r.Post("/v1/redemptions/{redemptionID}/fulfill", registerHandler(handlers.FulfillRedemption))
	r.Post("/v1/redemptions/{redemptionID}/default", registerHandler(handlers.DefaultRedemption))

	r.Get("/swagger/*", httpSwagger.WrapHandler)
}
