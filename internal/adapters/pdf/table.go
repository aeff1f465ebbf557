package pdf

import (
	"strconv"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
)

const (
	cellPad    = 5.0
	rowMinH    = 20.0
	rowLineH   = 12.0
	tableFontS = 10.0
)

type column struct {
	title string
	width float64
	right bool
}

var columns = []column{
	{title: "#", width: 30},
	{title: "Deskripsi", width: 245},
	{title: "Qty", width: 50, right: true},
	{title: "Harga", width: 95, right: true},
	{title: "Total", width: 95, right: true},
}

func (l *layout) table() {
	l.tableHead()

	for i, it := range l.doc.Items {
		l.tableRow(i, it)
	}
}

func (l *layout) tableHead() {
	p := l.pdf

	p.SetFillColor(243, 246, 251)
	p.Rect(marginX, l.y, contentRight-marginX, rowMinH, "F")
	p.SetFont("Helvetica", "B", tableFontS)
	p.SetTextColor(20, 20, 20)

	x := marginX
	for _, c := range columns {
		l.cellText(x, l.y+14, c, c.title)
		x += c.width
	}

	l.y += rowMinH
}

func (l *layout) tableRow(i int, it domain.LineItem) {
	p := l.pdf
	p.SetFont("Helvetica", "", tableFontS)

	desc := l.wrap(it.Description, columns[1].width-2*cellPad)
	h := max(float64(len(desc))*rowLineH+8, rowMinH)

	if l.y+h > l.pageH-bottomMargin {
		l.pdf.AddPage()
		l.y = marginX
		l.tableHead()
		p.SetFont("Helvetica", "", tableFontS)
	}

	cells := []string{
		strconv.Itoa(i + 1),
		"",
		it.Quantity.String(),
		l.money.Format(it.UnitPrice),
		l.money.Format(it.Amount()),
	}

	p.SetTextColor(20, 20, 20)

	x := marginX
	for ci, c := range columns {
		if ci == 1 {
			l.lines(x+cellPad, l.y+14, rowLineH, desc)
		} else {
			l.cellText(x, l.y+14, c, cells[ci])
		}

		x += c.width
	}

	l.y += h

	p.SetDrawColor(230, 230, 230)
	p.Line(marginX, l.y, contentRight, l.y)
}

func (l *layout) cellText(x, baseline float64, c column, s string) {
	if c.right {
		l.textRight(x+c.width-cellPad, baseline, s)
		return
	}

	l.text(x+cellPad, baseline, s)
}
