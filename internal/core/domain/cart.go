package domain

import "time"

// CartItem - денормализованная копия участка на момент добавления в корзину.
// Живет только в рамках сессии пользователя, на сервер не синхронизируется
// до самого checkout.
//
// Уникальность в корзине обеспечивается только по PlotID, без учета SiteID:
// если два разных сайта когда-нибудь переиспользуют id участков, элементы
// столкнутся. Поведение источника сохранено намеренно.
type CartItem struct {
	PlotID          string     `json:"plot_id"`
	SiteID          string     `json:"site_id"`
	PlotNumber      string     `json:"plot_number"`
	Location        string     `json:"location"`
	AreaAcres       float64    `json:"area_acres"`
	PlotTotalAmount float64    `json:"plot_total_amount"`
	Status          PlotStatus `json:"status"`
	AddedAt         time.Time  `json:"added_at"`
}
