package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/username/fished/internal/countdown"
	"github.com/username/fished/internal/lunar"
)

const weekBanner = "Mon Tue Wed What The Fuck Sat Sun"

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Mon",
	time.Tuesday:   "Tue",
	time.Wednesday: "What",
	time.Thursday:  "The",
	time.Friday:    "Fuck",
	time.Saturday:  "Sat",
	time.Sunday:    "Sun",
}

// Text writes the plain line-per-countdown report
func Text(w io.Writer, r *countdown.Report, almanac lunar.Almanac) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, weekBanner)
	fmt.Fprintln(bw, "-----")
	fmt.Fprintf(bw, "今天是%s %s\n", weekdayNames[r.Today.Weekday()], r.Today)
	fmt.Fprintf(bw, "农历 %s\n", almanac.Lunar)
	fmt.Fprintln(bw, "-----")
	for _, f := range almanac.Festivals {
		fmt.Fprintf(bw, "节日： %s\n", f)
	}

	for _, row := range r.Wages {
		fmt.Fprintln(bw, wageLine(row))
	}
	for _, row := range r.Holidays {
		fmt.Fprintln(bw, holidayLine(row))
	}
	fmt.Fprintln(bw, lastWorkdayLine(r.LastWorkday))
	fmt.Fprintf(bw, "今年已经过了%d%%,还有%d天\n", r.Year.Percent, r.Year.Remaining)

	if line := almanacLine("宜：", almanac.Yi); line != "" {
		fmt.Fprintln(bw, line)
	}
	if line := almanacLine("忌：", almanac.Ji); line != "" {
		fmt.Fprintln(bw, line)
	}

	return bw.Flush()
}

func wageLine(row countdown.Result) string {
	var line string
	switch row.Status {
	case countdown.StatusToday:
		line = fmt.Sprintf("%s发工资，今天发", row.Label)
	case countdown.StatusPostponed:
		line = fmt.Sprintf("距离%s发工资还有%d天（%s）", row.Label, row.DaysUntil, row.Note)
	default:
		line = fmt.Sprintf("距离%s发工资还有%d天", row.Label, row.DaysUntil)
	}
	if row.LastWorkday {
		line += "（最后工作日）"
	}
	return line
}

func holidayLine(row countdown.Result) string {
	if row.Status == countdown.StatusOngoing {
		return fmt.Sprintf("[%s]假期中 还剩%d天", row.Label, row.DaysUntil)
	}
	return fmt.Sprintf("距离[%s]还有%d天（%s）", row.Label, row.DaysUntil, row.Note)
}

func lastWorkdayLine(row countdown.Result) string {
	switch row.Status {
	case countdown.StatusToday:
		return "今天是" + row.Label
	case countdown.StatusPassed:
		return row.Label + "已过"
	}
	if row.DaysUntil == 1 {
		return "明天是" + row.Label
	}
	return fmt.Sprintf("距离%s还有%d天", row.Label, row.DaysUntil)
}

// almanacLine joins items as 宜：a、b、c。
func almanacLine(prefix string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return prefix + strings.Join(items, "、") + "。"
}
