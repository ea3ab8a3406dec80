package domain

// ClaimMode - каким действием покупатель забирает участок.
type ClaimMode string

const (
	ModeReserve ClaimMode = "reserve"
	ModeBuy     ClaimMode = "buy"
)

// ClaimResult - итог стандартного workflow (reserve/buy/checkout).
// MailSent=false при живом статусе означает, что статус обновлен,
// но письмо с документом не ушло (восстановимая ошибка уведомления).
type ClaimResult struct {
	PlotIDs   []string   `json:"plot_ids"`
	NewStatus PlotStatus `json:"new_status"`
	MailSent  bool       `json:"mail_sent"`
	MailError string     `json:"mail_error,omitempty"`
}
