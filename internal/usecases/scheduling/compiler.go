package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vfg2006/traffic-report-api/internal/domain"
)

// DefaultCron é usado quando a frequência não é informada
const DefaultCron = "0 9 * * MON"

var weekdayTokens = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
	"sun":       time.Sunday,
}

var cronDayTokens = map[time.Weekday]string{
	time.Sunday:    "SUN",
	time.Monday:    "MON",
	time.Tuesday:   "TUE",
	time.Wednesday: "WED",
	time.Thursday:  "THU",
	time.Friday:    "FRI",
	time.Saturday:  "SAT",
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ToCron converte a recorrência estruturada em uma expressão cron de cinco campos.
// Para frequência custom só hora e minuto entram na expressão; o intervalo é tratado em NextRun.
func ToCron(req domain.ScheduleRequest) (string, error) {
	switch req.Frequency {
	case "":
		return DefaultCron, nil
	case domain.FrequencyWeekly, domain.FrequencyBiweekly:
		hour, minute, err := parseClock(req.Time)
		if err != nil {
			return "", err
		}
		day, err := parseWeekday(req.DayOfWeek)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d %d * * %s", minute, hour, cronDayTokens[day]), nil
	case domain.FrequencyMonthly:
		hour, minute, err := parseClock(req.Time)
		if err != nil {
			return "", err
		}
		if req.DayOfMonth < 1 || req.DayOfMonth > 31 {
			return "", newValidationError("dia do mês deve estar entre 1 e 31")
		}
		return fmt.Sprintf("%d %d %d * *", minute, hour, req.DayOfMonth), nil
	case domain.FrequencyCustom:
		hour, minute, err := parseClock(req.Time)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d %d * * *", minute, hour), nil
	case domain.FrequencyCron:
		expr := strings.TrimSpace(req.CronExpression)
		if _, err := cronParser.Parse(expr); err != nil {
			return "", newValidationError(fmt.Sprintf("expressão cron inválida %q: %v", expr, err))
		}
		return expr, nil
	default:
		return "", newValidationError(fmt.Sprintf("frequência desconhecida %q", req.Frequency))
	}
}

// NextRun calcula a próxima execução no fuso do agendamento. O resultado é sempre posterior a now.
func NextRun(req domain.ScheduleRequest, now time.Time) (time.Time, error) {
	loc, err := loadLocation(req.TimeZone)
	if err != nil {
		return time.Time{}, err
	}
	local := now.In(loc)

	if req.Frequency == domain.FrequencyCron || req.Frequency == "" {
		expr := req.CronExpression
		if req.Frequency == "" {
			expr = DefaultCron
		}
		schedule, err := cronParser.Parse(strings.TrimSpace(expr))
		if err != nil {
			return time.Time{}, newValidationError(fmt.Sprintf("expressão cron inválida %q: %v", expr, err))
		}
		return schedule.Next(local), nil
	}

	hour, minute, err := parseClock(req.Time)
	if err != nil {
		return time.Time{}, err
	}

	switch req.Frequency {
	case domain.FrequencyWeekly, domain.FrequencyBiweekly:
		day, err := parseWeekday(req.DayOfWeek)
		if err != nil {
			return time.Time{}, err
		}
		period := 7
		if req.Frequency == domain.FrequencyBiweekly {
			period = 14
		}
		next := sameWeek(local, day, hour, minute)
		for !next.After(now) {
			next = next.AddDate(0, 0, period)
		}
		return next, nil
	case domain.FrequencyMonthly:
		if req.DayOfMonth < 1 || req.DayOfMonth > 31 {
			return time.Time{}, newValidationError("dia do mês deve estar entre 1 e 31")
		}
		year, month := local.Year(), local.Month()
		next := monthDay(year, month, req.DayOfMonth, hour, minute, loc)
		for !next.After(now) {
			month++
			if month > time.December {
				month = time.January
				year++
			}
			next = monthDay(year, month, req.DayOfMonth, hour, minute, loc)
		}
		return next, nil
	case domain.FrequencyCustom:
		if req.IntervalDays < 1 {
			return time.Time{}, newValidationError("intervalo em dias deve ser maior que zero")
		}
		next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
		for !next.After(now) {
			next = next.AddDate(0, 0, req.IntervalDays)
		}
		return next, nil
	default:
		return time.Time{}, newValidationError(fmt.Sprintf("frequência desconhecida %q", req.Frequency))
	}
}

// sameWeek posiciona o horário no dia da semana informado dentro da semana ISO (segunda a domingo) de ref
func sameWeek(ref time.Time, day time.Weekday, hour, minute int) time.Time {
	offset := isoWeekday(day) - isoWeekday(ref.Weekday())
	d := ref.AddDate(0, 0, offset)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, ref.Location())
}

func isoWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

// monthDay limita o dia ao último dia do mês
func monthDay(year int, month time.Month, day, hour, minute int, loc *time.Location) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	if day > last {
		day = last
	}
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

func parseClock(value string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, newValidationError(fmt.Sprintf("horário inválido %q, use HH:mm", value))
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, newValidationError(fmt.Sprintf("hora inválida em %q", value))
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, newValidationError(fmt.Sprintf("minuto inválido em %q", value))
	}
	return hour, minute, nil
}

func parseWeekday(value string) (time.Weekday, error) {
	day, ok := weekdayTokens[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return 0, newValidationError(fmt.Sprintf("dia da semana inválido %q", value))
	}
	return day, nil
}

func loadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, newValidationError(fmt.Sprintf("fuso horário inválido %q", name))
	}
	return loc, nil
}
