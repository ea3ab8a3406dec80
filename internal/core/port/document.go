package port

import "plot-service/internal/core/domain"

// DocumentData - исходные данные для формирования платежного документа.
type DocumentData struct {
	SiteLocation string
	Buyer        domain.BuyerInfo
	Plots        []domain.Parcel
	// Mode - "reserve" или "buy"; влияет на заголовок и инструкции.
	Mode string
}

// DocumentGeneratorPort - контракт генератора PDF-документа
// (детали участков, банковские реквизиты, юридические инструкции).
type DocumentGeneratorPort interface {
	Generate(data DocumentData) ([]byte, error)
}
