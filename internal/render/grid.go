package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/username/fished/internal/calendar"
	"github.com/username/fished/internal/countdown"
)

const (
	barWidth     = 8
	yearBarWidth = 20
)

var weekHead = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// card is one labelled progress row
type card struct {
	label string
	info  string
	ratio float64
}

// Grid writes the year progress bar, the month calendar and the countdown cards.
// month must be the calendar of r.Today's month.
func Grid(w io.Writer, r *countdown.Report, month *calendar.MonthInfo, opts Options) error {
	bw := bufio.NewWriter(w)

	wages := wageCards(r.Wages)
	holidays := holidayCards(r.Holidays)
	labelWidth := 4
	for _, c := range append(append([]card{}, wages...), holidays...) {
		labelWidth = max(labelWidth, visualWidth(c.label))
	}

	sections := []func(){
		func() { writeYearProgress(bw, r.Year, opts) },
		func() { writeCalendar(bw, month, r.Today, opts) },
		func() { writeCards(bw, "Wage Countdown", wages, labelWidth, opts) },
		func() { writeCards(bw, "Holiday Countdown", holidays, labelWidth, opts) },
	}
	for i, section := range sections {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		section()
	}

	return bw.Flush()
}

func writeSection(w io.Writer, title string, opts Options) {
	fmt.Fprintln(w, opts.paint(title, style{fg: sectionColor, bold: true}))
}

func writeYearProgress(w io.Writer, p countdown.Progress, opts Options) {
	writeSection(w, "Year Progress", opts)
	bar := opts.progressBar(float64(p.Percent)/100, yearBarWidth, "█", weekdayColor, weekendColor)
	fmt.Fprintf(w, "%s %d%%\n", bar, p.Percent)
	fmt.Fprintln(w, opts.paint(fmt.Sprintf("已过 %d 天 · 剩余 %d 天", p.Elapsed, p.Remaining), style{fg: weekendColor}))
}

func writeCalendar(w io.Writer, month *calendar.MonthInfo, today calendar.CalendarDate, opts Options) {
	writeSection(w, fmt.Sprintf("Calendar %04d-%02d", month.Year, month.Month), opts)

	head := make([]string, len(weekHead))
	for i, label := range weekHead {
		color := weekdayColor
		if i == 0 || i == 6 {
			color = weekendColor
		}
		head[i] = opts.paint(label, style{fg: color, bold: true})
	}
	fmt.Fprintln(w, strings.Join(head, " "))

	if len(month.Days) == 0 {
		return
	}

	var cells []string
	for i := 0; i < int(month.Days[0].Date.Weekday()); i++ {
		cells = append(cells, "  ")
	}
	for _, day := range month.Days {
		cells = append(cells, dayCell(day, day.Date == today, opts))
	}
	for len(cells)%7 != 0 {
		cells = append(cells, "  ")
	}
	for i := 0; i < len(cells); i += 7 {
		fmt.Fprintln(w, strings.Join(cells[i:i+7], " "))
	}

	if !opts.Color {
		writeLegend(w, month, today)
	}
}

func dayCell(day calendar.DayInfo, isToday bool, opts Options) string {
	text := fmt.Sprintf("%2d", day.Date.Day)

	st := style{fg: weekdayColor, bold: isToday}
	switch day.Type {
	case calendar.DayTypeCompensation:
		st.fg, st.bold = compFgColor, true
	case calendar.DayTypeHoliday:
		st.fg, st.bold = holidayFgColor, true
	case calendar.DayTypeWeekend:
		st.fg = weekendColor
	}
	if isToday {
		st.bg = todayBgColor
	}
	return opts.paint(text, st)
}

// writeLegend lists the marks the grid shows only in color
func writeLegend(w io.Writer, month *calendar.MonthInfo, today calendar.CalendarDate) {
	var holidays, comp []string
	for _, day := range month.Days {
		switch day.Type {
		case calendar.DayTypeHoliday:
			holidays = append(holidays, fmt.Sprint(day.Date.Day))
		case calendar.DayTypeCompensation:
			comp = append(comp, fmt.Sprint(day.Date.Day))
		}
	}
	parts := []string{fmt.Sprintf("今天: %d", today.Day)}
	if len(holidays) > 0 {
		parts = append(parts, "休: "+strings.Join(holidays, ","))
	}
	if len(comp) > 0 {
		parts = append(parts, "班: "+strings.Join(comp, ","))
	}
	fmt.Fprintln(w, strings.Join(parts, "  "))
}

func wageCards(rows []countdown.Result) []card {
	maxDays := 1
	for _, row := range rows {
		maxDays = max(maxDays, row.DaysUntil)
	}

	cards := make([]card, 0, len(rows))
	for _, row := range rows {
		info := fmt.Sprintf("还有%d天", row.DaysUntil)
		switch row.Status {
		case countdown.StatusToday:
			info = "今天发"
		case countdown.StatusPostponed:
			info = fmt.Sprintf("还有%d天（%s）", row.DaysUntil, row.Note)
		}
		if row.LastWorkday {
			info += "（最后工作日）"
		}
		cards = append(cards, card{
			label: row.Label,
			info:  info,
			ratio: 1 - float64(row.DaysUntil)/float64(maxDays),
		})
	}
	return cards
}

func holidayCards(rows []countdown.Result) []card {
	if len(rows) == 0 {
		return []card{{label: "无", info: "-"}}
	}

	maxDays := 1
	for _, row := range rows {
		maxDays = max(maxDays, row.DaysUntil)
	}

	cards := make([]card, 0, len(rows))
	for _, row := range rows {
		c := card{label: row.Label}
		if row.Status == countdown.StatusOngoing {
			c.info = fmt.Sprintf("假期中 还剩%d天", row.DaysUntil)
			c.ratio = float64(row.DaysUntil) / float64(max(1, row.TotalDays))
		} else {
			c.info = fmt.Sprintf("还有%d天（%s）", row.DaysUntil, row.Note)
			c.ratio = 1 - float64(row.DaysUntil)/float64(maxDays)
		}
		cards = append(cards, c)
	}
	return cards
}

func writeCards(w io.Writer, title string, cards []card, labelWidth int, opts Options) {
	writeSection(w, title, opts)

	infoWidth := opts.Width - labelWidth - barWidth - 1
	for i, c := range cards {
		bar := opts.progressBar(c.ratio, barWidth, "━", gradientColor(i, len(cards)), weekendColor)
		info := truncateVisual(c.info, infoWidth)
		fmt.Fprintf(w, "%s%s %s\n",
			opts.paint(padRightVisual(c.label, labelWidth), style{bold: true}),
			bar,
			opts.paint(info, style{fg: weekendColor}))
	}
}
