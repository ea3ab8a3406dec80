package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"plot-service/internal/core/port"

	"github.com/go-pdf/fpdf"
)

// bankAccount - реквизиты одного счета для оплаты.
type bankAccount struct {
	BankName      string
	Branch        string
	AccountName   string
	AccountNumber string
}

// Реквизиты фиксированы: оплата идет вне системы, документ только
// сообщает покупателю, куда переводить деньги.
var paymentAccounts = []bankAccount{
	{
		BankName:      "Ghana Commercial Bank",
		Branch:        "Kumasi Main",
		AccountName:   "GetPlot Estates Ltd",
		AccountNumber: "1011 8500 4432 001",
	},
	{
		BankName:      "Ecobank Ghana",
		Branch:        "Adum Branch",
		AccountName:   "GetPlot Estates Ltd",
		AccountNumber: "0244 1100 9087 221",
	},
}

const instructionsText = "Payment must be completed within 14 days of this notice, " +
	"otherwise the hold on the listed plot(s) will be released without further notice. " +
	"Use the plot number(s) above as the payment reference. After payment, send the " +
	"deposit slip or transfer confirmation to the office for verification; the plot status " +
	"will be changed to Reserved or Sold by the administrator once the payment has cleared. " +
	"All payments are made directly to the company accounts listed in this document. " +
	"The company does not authorise any agent to receive cash payments on its behalf."

// Generator реализует DocumentGeneratorPort поверх fpdf.
type Generator struct{}

// NewGenerator - конструктор.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate собирает многостраничный платежный документ:
// шапка, таблица участков с разбивкой цены, два блока банковских
// реквизитов и юридические инструкции.
func (g *Generator) Generate(data port.DocumentData) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	// Шапка
	doc.SetFont("Helvetica", "B", 16)
	title := "Plot Purchase Notice"
	if data.Mode == "reserve" {
		title = "Plot Reservation Notice"
	}
	doc.CellFormat(0, 10, title, "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, "Site: "+data.SiteLocation, "", 1, "C", false, 0, "")
	doc.CellFormat(0, 6, "Date: "+time.Now().UTC().Format("02 January 2006"), "", 1, "C", false, 0, "")
	doc.Ln(4)

	// Данные покупателя
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 7, "Buyer", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	buyerName := strings.TrimSpace(data.Buyer.Firstname + " " + data.Buyer.Lastname)
	doc.CellFormat(0, 6, buyerName, "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, data.Buyer.ResidentialAddress+", "+data.Buyer.Country, "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, data.Buyer.Email+"  /  "+data.Buyer.Phone, "", 1, "L", false, 0, "")
	doc.Ln(4)

	// Таблица участков с разбивкой цены
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(230, 230, 230)
	doc.CellFormat(25, 8, "Plot No", "1", 0, "C", true, 0, "")
	doc.CellFormat(55, 8, "Street", "1", 0, "C", true, 0, "")
	doc.CellFormat(25, 8, "Acres", "1", 0, "C", true, 0, "")
	doc.CellFormat(28, 8, "Total", "1", 0, "C", true, 0, "")
	doc.CellFormat(28, 8, "Paid", "1", 0, "C", true, 0, "")
	doc.CellFormat(28, 8, "Remaining", "1", 1, "C", true, 0, "")

	doc.SetFont("Helvetica", "", 10)
	var grandTotal, grandRemaining float64
	for _, plot := range data.Plots {
		doc.CellFormat(25, 8, plot.Properties.PlotNumber, "1", 0, "C", false, 0, "")
		doc.CellFormat(55, 8, plot.Properties.StreetName, "1", 0, "L", false, 0, "")
		doc.CellFormat(25, 8, fmt.Sprintf("%.3f", plot.Properties.AreaAcres), "1", 0, "R", false, 0, "")
		doc.CellFormat(28, 8, fmt.Sprintf("%.2f", plot.PlotTotalAmount), "1", 0, "R", false, 0, "")
		doc.CellFormat(28, 8, fmt.Sprintf("%.2f", plot.PaidAmount), "1", 0, "R", false, 0, "")
		doc.CellFormat(28, 8, fmt.Sprintf("%.2f", plot.RemainingAmount), "1", 1, "R", false, 0, "")

		grandTotal += plot.PlotTotalAmount
		grandRemaining += plot.RemainingAmount
	}

	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(105, 8, "Total due", "1", 0, "R", false, 0, "")
	doc.CellFormat(28, 8, fmt.Sprintf("%.2f", grandTotal), "1", 0, "R", false, 0, "")
	doc.CellFormat(28, 8, "", "1", 0, "R", false, 0, "")
	doc.CellFormat(28, 8, fmt.Sprintf("%.2f", grandRemaining), "1", 1, "R", false, 0, "")
	doc.Ln(6)

	// Банковские реквизиты - по таблице на счет
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 7, "Payment Accounts", "", 1, "L", false, 0, "")
	for _, account := range paymentAccounts {
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(60, 8, "Bank", "1", 0, "L", true, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(132, 8, account.BankName, "1", 1, "L", false, 0, "")

		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(60, 8, "Branch", "1", 0, "L", true, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(132, 8, account.Branch, "1", 1, "L", false, 0, "")

		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(60, 8, "Account Name", "1", 0, "L", true, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(132, 8, account.AccountName, "1", 1, "L", false, 0, "")

		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(60, 8, "Account Number", "1", 0, "L", true, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(132, 8, account.AccountNumber, "1", 1, "L", false, 0, "")
		doc.Ln(4)
	}

	// Инструкции
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 7, "Instructions", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, 5, instructionsText, "", "L", false)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render plot document: %w", err)
	}
	return buf.Bytes(), nil
}
