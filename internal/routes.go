package internal

import (
	"net/http"
	"processingd/internal/controllers"
	"processingd/internal/providers"
)

func InitRoutes(
	processing *controllers.ProcessingController,
	groups *controllers.GroupsController,
	settings *controllers.SettingsController,
	bids *controllers.BidsController,
) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/status", http.HandlerFunc(processing.Status))
	routers.Post("/refresh", http.HandlerFunc(processing.Refresh))
	routers.Get("/donations", http.HandlerFunc(processing.Donations))
	routers.Get("/donation", http.HandlerFunc(processing.Donation))
	routers.Post("/donations/action", http.HandlerFunc(processing.Action))
	routers.Post("/donations/groups", http.HandlerFunc(processing.DonationGroups))
	routers.Post("/donations/comment", http.HandlerFunc(processing.ModComment))
	routers.Get("/history", http.HandlerFunc(processing.History))
	routers.Post("/history/undo", http.HandlerFunc(processing.Undo))

	routers.Get("/groups", http.HandlerFunc(groups.List))
	routers.Post("/groups", http.HandlerFunc(groups.Save))
	routers.Post("/groups/delete", http.HandlerFunc(groups.Delete))
	routers.Post("/groups/move", http.HandlerFunc(groups.Move))
	routers.Get("/groups/donations", http.HandlerFunc(groups.Donations))
	routers.Post("/groups/donations/move", http.HandlerFunc(groups.MoveDonation))

	routers.Get("/settings", http.HandlerFunc(settings.Settings))
	routers.Post("/settings", http.HandlerFunc(settings.UpdateSettings))
	routers.Get("/keywords", http.HandlerFunc(settings.Keywords))
	routers.Post("/keywords", http.HandlerFunc(settings.UpdateKeywords))
	routers.Get("/preferences", http.HandlerFunc(settings.Preferences))
	routers.Post("/preferences", http.HandlerFunc(settings.UpdatePreferences))

	routers.Get("/bids", http.HandlerFunc(bids.List))
	routers.Post("/bids/approve", http.HandlerFunc(bids.Approve))
	routers.Post("/bids/deny", http.HandlerFunc(bids.Deny))
	routers.Post("/runs/move", http.HandlerFunc(bids.MoveRun))
	routers.Post("/runs/patch", http.HandlerFunc(bids.PatchRun))
	return routers
}
