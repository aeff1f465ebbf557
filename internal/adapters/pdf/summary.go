package pdf

const (
	summaryHeight = 160.0
	barHeight     = 48.0
	contactHeight = 60.0
	summaryLeft   = 400.0
)

func (l *layout) summary() {
	s := l.doc.Settings
	p := l.pdf
	totals := l.doc.Totals().Format(l.money)

	y := l.y + 20
	if y+summaryHeight > l.pageH {
		l.newPage()
		y = l.y
	}

	p.SetTextColor(20, 20, 20)
	p.SetFont("Helvetica", "B", 12)
	l.text(marginX, y, "Payment Method")

	p.SetFont("Helvetica", "", 10)
	l.text(marginX, y+18, "Bank Name : "+s.BankName())
	l.text(marginX, y+34, "Account Number : "+s.AccountNumber())

	p.SetFont("Helvetica", "B", 10)
	l.text(marginX, y+62, "Term and Conditions :")
	p.SetFont("Helvetica", "", 9)
	l.lines(marginX, y+78, 11, l.wrap(s.Notes, 320))

	p.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Sub Total", totals.Subtotal},
		{"Tax " + s.TaxRate.String() + "%", totals.Tax},
		{"Discount", totals.Discount},
	}

	for i, r := range rows {
		ry := y + float64(i)*18
		l.text(summaryLeft, ry, r[0])
		l.textRight(contentRight, ry, r[1])
	}

	barY := y + 72
	barW := contentRight - summaryLeft
	p.SetFillColor(13, 110, 253)
	p.Rect(summaryLeft, barY, barW, barHeight, "F")

	p.SetTextColor(255, 255, 255)
	p.SetFont("Helvetica", "B", 11)
	l.textCenter(summaryLeft+barW/2, barY+20, "GRAND TOTAL")
	p.SetFont("Helvetica", "B", 16)
	l.textCenter(summaryLeft+barW/2, barY+36, totals.GrandTotal)

	l.y = barY + barHeight
}

func (l *layout) contact() {
	s := l.doc.Settings
	p := l.pdf

	y := l.y + 36
	if y+contactHeight > l.pageH {
		l.newPage()
		y = l.y
	}

	p.SetDrawColor(200, 200, 200)
	p.Line(marginX, y, contentRight, y)

	p.SetTextColor(13, 110, 253)
	p.SetFont("Helvetica", "B", 11)
	l.textCenter(l.pageW/2, y+16, "Administrator")

	colW := (contentRight - marginX) / 3
	cols := [][2]string{
		{"Phone", s.Company.Phone},
		{"Mail", s.Company.Email},
		{"Address", s.Company.Address},
	}

	for i, c := range cols {
		x := marginX + float64(i)*colW

		p.SetTextColor(120, 120, 120)
		p.SetFont("Helvetica", "B", 9)
		l.text(x, y+36, c[0])

		p.SetTextColor(20, 20, 20)
		p.SetFont("Helvetica", "", 9)
		l.lines(x, y+52, 11, l.wrap(c[1], colW-10))
	}
}
