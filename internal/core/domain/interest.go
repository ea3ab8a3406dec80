package domain

import (
	"time"

	"github.com/google/uuid"
)

// Interest - запись "интересуюсь участком". Создается из публичной формы,
// по ней уходит письмо менеджерам сайта.
type Interest struct {
	ID        uuid.UUID `json:"id"`
	SiteID    string    `json:"site_id"`
	PlotID    string    `json:"plot_id"`
	Fullname  string    `json:"fullname"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewInterest - конструктор записи интереса.
func NewInterest(siteID, plotID, fullname, email, phone, message string) *Interest {
	return &Interest{
		ID:        uuid.New(),
		SiteID:    siteID,
		PlotID:    plotID,
		Fullname:  fullname,
		Email:     email,
		Phone:     phone,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
