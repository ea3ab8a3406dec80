package rest

import "plot-service/internal/core/domain"

// BuyerRequest - данные покупателя из формы reserve/buy/checkout.
type BuyerRequest struct {
	Firstname          string `json:"firstname"`
	Lastname           string `json:"lastname"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Country            string `json:"country"`
	ResidentialAddress string `json:"residential_address"`
	Agent              string `json:"agent"`
	Remarks            string `json:"remarks"`
}

func (b BuyerRequest) toDomain() domain.BuyerInfo {
	return domain.BuyerInfo{
		Firstname:          b.Firstname,
		Lastname:           b.Lastname,
		Email:              b.Email,
		Phone:              b.Phone,
		Country:            b.Country,
		ResidentialAddress: b.ResidentialAddress,
		Agent:              b.Agent,
		Remarks:            b.Remarks,
	}
}

// ClaimRequest - тело запроса reserve/buy.
type ClaimRequest struct {
	SiteID string       `json:"site_id"`
	Buyer  BuyerRequest `json:"buyer"`
}

// ClaimResponse - итог reserve/buy/checkout.
type ClaimResponse struct {
	PlotIDs   []string `json:"plot_ids"`
	NewStatus string   `json:"new_status"`
	MailSent  bool     `json:"mail_sent"`
	MailError string   `json:"mail_error,omitempty"`
}

// AddToCartRequest - тело запроса на добавление участка в корзину.
type AddToCartRequest struct {
	SiteID string `json:"site_id"`
	PlotID string `json:"plot_id"`
}

// CheckoutRequest - тело запроса на оформление корзины.
type CheckoutRequest struct {
	Buyer BuyerRequest `json:"buyer"`
}

// InterestRequest - тело запроса публичной формы "интересуюсь участком".
type InterestRequest struct {
	SiteID   string `json:"site_id"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
}

// SetStatusRequest - тело админского запроса на смену статуса.
type SetStatusRequest struct {
	SiteID string `json:"site_id"`
	Status string `json:"status"`
}

// SetPriceRequest - тело админского запроса на смену цены.
type SetPriceRequest struct {
	SiteID string  `json:"site_id"`
	Total  float64 `json:"total"`
}

// ImportParcelRequest - один участок в пакете импорта данных геодезии.
type ImportParcelRequest struct {
	ID         string       `json:"id"`
	Geometry   [][2]float64 `json:"geometry"`
	PlotNumber string       `json:"plot_number"`
	StreetName string       `json:"street_name"`
	AreaAcres  float64      `json:"area_acres"`
	Status     string       `json:"status"`
	Total      float64      `json:"total"`
	Paid       float64      `json:"paid"`
}

// ImportRequest - тело админского запроса пакетного импорта.
type ImportRequest struct {
	SiteID  string                `json:"site_id"`
	Parcels []ImportParcelRequest `json:"parcels"`
}

// ImportResponse - итог пакетного импорта.
type ImportResponse struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// ErrorResponse - стандартная структура для ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}
