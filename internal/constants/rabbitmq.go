package constants

// Имена обменника и маршрутные ключи для доменных событий участка.
const (
	PlotEventsExchange = "plot_events_exchange"

	RoutingKeyStatusChanged = "plot.status.changed"
)
