package domain

// PlotStatus - перечисление для статусов участка
type PlotStatus string

const (
	StatusAvailable PlotStatus = "Available"
	StatusOnHold    PlotStatus = "On Hold"
	StatusReserved  PlotStatus = "Reserved"
	StatusSold      PlotStatus = "Sold"
)

// NormalizeStatus приводит "сырой" статус из хранилища к известному значению.
// Пустой или неизвестный статус считается Available (поведение источника данных).
func NormalizeStatus(raw string) PlotStatus {
	switch PlotStatus(raw) {
	case StatusOnHold, StatusReserved, StatusSold:
		return PlotStatus(raw)
	default:
		return StatusAvailable
	}
}

// IsClaimable сообщает, может ли стандартный workflow (reserve/buy)
// взять участок в обработку из текущего статуса.
// Sold и Reserved доступны только через админский override.
func (s PlotStatus) IsClaimable() bool {
	return s == StatusAvailable || s == StatusOnHold
}

// PlotProperties - неизменяемые справочные данные участка (данные геодезии).
type PlotProperties struct {
	PlotNumber string  `json:"plot_number"`
	StreetName string  `json:"street_name"`
	AreaAcres  float64 `json:"area_acres"`
}

// Parcel - основная доменная сущность: один продаваемый участок земли.
// Geometry и Properties неизменяемы после создания; мутируют только
// статус, ценовые поля и поля покупателя.
type Parcel struct {
	ID         string         `json:"id"`
	SiteID     string         `json:"site_id"`
	Geometry   Ring           `json:"geometry"`
	Properties PlotProperties `json:"properties"`
	Status     PlotStatus     `json:"status"`

	PlotTotalAmount float64 `json:"plot_total_amount"`
	PaidAmount      float64 `json:"paid_amount"`
	RemainingAmount float64 `json:"remaining_amount"`

	// Поля покупателя перезаписываются целиком при каждой новой заявке,
	// пока участок в статусе On Hold. Это не append-only история.
	Buyer BuyerInfo `json:"buyer"`
}

// ForSale сообщает, готов ли участок к продаже.
// Нулевая цена означает "ещё не выставлен на продажу".
func (p *Parcel) ForSale() bool {
	return p.PlotTotalAmount > 0
}
