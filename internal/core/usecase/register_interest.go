package usecase

import (
	"context"
	"fmt"
	"strings"

	"plot-service/internal/constants"
	"plot-service/internal/contextkeys"
	"plot-service/internal/core/domain"
	"plot-service/internal/core/port"
)

// RegisterInterestUseCase - запись "интересуюсь участком" из публичной формы.
// Запись сохраняется в таблицу интересов сайта, после чего менеджерам
// уходит уведомительное письмо (best-effort, без вложения).
type RegisterInterestUseCase struct {
	storage port.InterestStoragePort
	mailer  port.MailerPort
	// managerEmail - адрес, на который уходят уведомления об интересе.
	managerEmail string
}

// NewRegisterInterestUseCase создает новый экземпляр use case.
func NewRegisterInterestUseCase(storage port.InterestStoragePort, mailer port.MailerPort, managerEmail string) *RegisterInterestUseCase {
	return &RegisterInterestUseCase{storage: storage, mailer: mailer, managerEmail: managerEmail}
}

func (uc *RegisterInterestUseCase) Execute(ctx context.Context, siteID, plotID, fullname, email, phone, message string) (*domain.Interest, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "RegisterInterest",
		"site_id":  siteID,
		"plot_id":  plotID,
	})

	ucLogger.Info("Use case started", nil)

	site, err := constants.SiteByID(siteID)
	if err != nil {
		ucLogger.Warn("Unknown site id.", nil)
		return nil, err
	}

	if strings.TrimSpace(fullname) == "" || strings.TrimSpace(email) == "" {
		ucLogger.Warn("Rejected: fullname and email are required.", nil)
		return nil, fmt.Errorf("fullname and email are required")
	}

	interest := domain.NewInterest(siteID, plotID, fullname, email, phone, message)

	if err := uc.storage.Insert(ctx, interest); err != nil {
		ucLogger.Error("Failed to store interest record", err, nil)
		return nil, err
	}

	if uc.managerEmail != "" {
		mailErr := uc.mailer.Send(ctx, port.MailRequest{
			Recipient: uc.managerEmail,
			Subject:   fmt.Sprintf("New plot interest - %s", site.Location),
			Buyer:     domain.BuyerInfo{Firstname: fullname, Email: email, Phone: phone},
			SiteID:    siteID,
			PlotIDs:   []string{plotID},
		})
		if mailErr != nil {
			ucLogger.Error("Failed to send interest notification mail", mailErr, nil)
		}
	}

	ucLogger.Info("Use case finished: interest registered", port.Fields{"interest_id": interest.ID})
	return interest, nil
}
