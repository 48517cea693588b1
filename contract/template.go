package contract

// contractTemplate is the printable rental contract. It is rendered
// standalone (inline styles, no external assets) so the headless browser can
// print it from a temp file without a server round trip.
const contractTemplate = `<!DOCTYPE html>
<html lang="{{.Locale}}">
<head>
<meta charset="utf-8">
<title>Rental Contract {{.OrderNumber}}</title>
<style>
	body { font-family: Georgia, serif; margin: 40px; color: #222; }
	h1 { font-size: 20px; text-align: center; }
	h2 { font-size: 14px; margin-top: 24px; border-bottom: 1px solid #999; }
	table { width: 100%; border-collapse: collapse; margin-top: 8px; }
	th, td { border: 1px solid #bbb; padding: 6px 8px; font-size: 12px; text-align: left; }
	th { background: #f0f0f0; }
	.num { text-align: right; }
	.totals { margin-top: 12px; font-size: 13px; text-align: right; }
	.clauses { font-size: 11px; white-space: pre-wrap; margin-top: 8px; }
	.signature { margin-top: 36px; }
	.signature img { max-height: 90px; }
	.sig-line { border-top: 1px solid #222; width: 280px; padding-top: 4px; font-size: 11px; }
	.meta { font-size: 10px; color: #666; margin-top: 4px; }
</style>
</head>
<body>
	{{if .LogoURL}}<p style="text-align:center"><img src="{{.LogoURL}}" style="max-height:60px" alt=""></p>{{end}}
	<h1>EQUIPMENT RENTAL CONTRACT — {{.OrderNumber}}</h1>

	<h2>Lessor</h2>
	<p>{{.CompanyName}} — {{.CompanyDocument}}<br>{{.CompanyAddress}}<br>{{.CompanyPhone}}</p>

	<h2>Lessee</h2>
	<p>{{.CustomerName}} — {{.CustomerDocument}}<br>{{.CustomerAddress}}<br>{{.CustomerPhone}} {{.CustomerEmail}}</p>

	<h2>Rental Period</h2>
	<p>From <strong>{{.StartDate}}</strong> through <strong>{{.EndDate}}</strong> inclusive ({{.DurationDays}} day{{if gt .DurationDays 1}}s{{end}}).</p>

	<h2>Equipment</h2>
	<table>
		<tr><th>Item</th><th class="num">Qty</th><th class="num">Daily rate</th><th class="num">Replacement value</th></tr>
		{{range .Items}}
		<tr>
			<td>{{.ProductName}}</td>
			<td class="num">{{.Quantity}}</td>
			<td class="num">{{.UnitPrice}}</td>
			<td class="num">{{.ReplacementValue}}</td>
		</tr>
		{{end}}
	</table>
	<p class="totals">
		Per day: <strong>{{.SubtotalPerDay}}</strong><br>
		Total ({{.DurationDays}} days): <strong>{{.TotalAmount}}</strong>
	</p>

	{{if .Clauses}}
	<h2>Terms and Conditions</h2>
	<div class="clauses">{{.Clauses}}</div>
	{{end}}

	<div class="signature">
		{{if .SignatureImage}}<img src="{{.SignatureImage}}" alt="signature">{{end}}
		<div class="sig-line">{{.CustomerName}}</div>
		{{if .SignedAt}}<div class="meta">Signed at {{.SignedAt}}</div>{{end}}
	</div>
</body>
</html>`
