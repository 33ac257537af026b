// Package lunar converts Gregorian dates into the traditional Chinese
// lunar calendar and looks up the almanac entries of a day.
package lunar

import (
	"container/list"
	"time"

	lunarcal "github.com/6tail/lunar-go/calendar"
)

// Almanac is what the lunar calendar says about one day
type Almanac struct {
	Lunar     string   `json:"lunar" yaml:"lunar"`
	Festivals []string `json:"festivals,omitempty" yaml:"festivals,omitempty"`
	Yi        []string `json:"yi,omitempty" yaml:"yi,omitempty"` // 宜
	Ji        []string `json:"ji,omitempty" yaml:"ji,omitempty"` // 忌
}

// Convert returns the lunar date, e.g. 二〇二四年正月初一
func Convert(year int, month time.Month, day int) string {
	return format(lunarcal.NewSolarFromYmd(year, int(month), day).GetLunar())
}

// AlmanacFor returns the lunar date, festivals and 宜/忌 of the given day
func AlmanacFor(year int, month time.Month, day int) Almanac {
	l := lunarcal.NewSolarFromYmd(year, int(month), day).GetLunar()

	festivals := listStrings(l.GetFestivals())
	festivals = append(festivals, listStrings(l.GetOtherFestivals())...)

	return Almanac{
		Lunar:     Convert(year, month, day),
		Festivals: festivals,
		Yi:        listStrings(l.GetDayYi()),
		Ji:        listStrings(l.GetDayJi()),
	}
}

func format(l *lunarcal.Lunar) string {
	return l.GetYearInChinese() + "年" + l.GetMonthInChinese() + "月" + l.GetDayInChinese()
}

func listStrings(l *list.List) []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, l.Len())
	for e := l.Front(); e != nil; e = e.Next() {
		if s, ok := e.Value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
