package orders

import (
	"bytes"
	"html/template"

	"github.com/poultrygear/poultrygear-backend/pkg/db/models"
)

var invoiceTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Invoice {{.OrderNumber}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
h1 { font-size: 1.4rem; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
th, td { border: 1px solid #ccc; padding: 0.5rem; text-align: left; }
tfoot td { font-weight: bold; }
.meta { color: #555; font-size: 0.9rem; }
</style>
</head>
<body>
<h1>Invoice {{.OrderNumber}}</h1>
<p class="meta">
Date: {{.CreatedAt.Format "2006-01-02"}}<br>
Status: {{.Status}} / payment {{.PaymentStatus}}
</p>
<p>
<strong>{{.CustomerName}}</strong><br>
{{.CustomerEmail}}{{if .CustomerPhone}}<br>{{.CustomerPhone}}{{end}}
</p>
<p>
Ship to: {{.ShipToName}}, {{.ShipToLine1}}{{if .ShipToLine2}}, {{.ShipToLine2}}{{end}},
{{.ShipToCity}}{{if .ShipToRegion}}, {{.ShipToRegion}}{{end}}, {{.ShipToCountry}}
</p>
<table>
<thead>
<tr><th>Item</th><th>Qty</th><th>Unit price</th><th>Subtotal</th></tr>
</thead>
<tbody>
{{range .Items}}
<tr>
<td>{{.ProductNameEn}} &mdash; {{.ProductNameAr}}</td>
<td>{{.Quantity}}</td>
<td>{{.UnitPrice}} {{$.Currency}}</td>
<td>{{.Subtotal}} {{$.Currency}}</td>
</tr>
{{end}}
</tbody>
<tfoot>
<tr><td colspan="3">Total</td><td>{{.TotalAmount}} {{.Currency}}</td></tr>
</tfoot>
</table>
{{if .Notes}}<p class="meta">Notes: {{.Notes}}</p>{{end}}
</body>
</html>
`))

func renderInvoiceHTML(order *models.Order) ([]byte, error) {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, order); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
