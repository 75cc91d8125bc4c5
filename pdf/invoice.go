// pdf/invoice.go
package pdf

import (
	"fmt"
	"time"

	"payhub-backend/models"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// RenderInvoiceSummary builds an A4 summary of the user's invoices, newest
// first as passed in, and returns the PDF bytes.
func RenderInvoiceSummary(user models.User, invoices []models.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14, text.NewCol(12, "Invoice Summary", props.Text{
		Size:  16,
		Style: fontstyle.Bold,
	}))
	m.AddRow(8, text.NewCol(12, fmt.Sprintf("%s <%s>", user.Name, user.Email), props.Text{
		Size: 10,
	}))
	m.AddRow(6, text.NewCol(12, "Generated "+time.Now().UTC().Format("2006-01-02 15:04 UTC"), props.Text{
		Size:  8,
		Color: &props.Color{Red: 120, Green: 120, Blue: 120},
	}))

	m.AddRow(10,
		text.NewCol(4, "Number", props.Text{Style: fontstyle.Bold}),
		text.NewCol(3, "Amount", props.Text{Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Status", props.Text{Style: fontstyle.Bold}),
		text.NewCol(3, "Created", props.Text{Style: fontstyle.Bold}),
	)

	for _, inv := range invoices {
		m.AddRow(7,
			text.NewCol(4, inv.ExternalID),
			text.NewCol(3, inv.PaymentAmount.StringFixed(2), props.Text{Align: align.Right}),
			text.NewCol(2, string(inv.PaymentStatus)),
			text.NewCol(3, inv.CreatedAt.UTC().Format("2006-01-02")),
		)
	}

	if len(invoices) == 0 {
		m.AddRow(7, text.NewCol(12, "No invoices yet.", props.Text{Size: 10}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render invoice summary: %w", err)
	}
	return doc.GetBytes(), nil
}
