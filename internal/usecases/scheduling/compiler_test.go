package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/traffic-report-api/internal/domain"
)

func TestToCron(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.ScheduleRequest
		want    string
		wantErr bool
	}{
		{
			name: "Semanal na segunda às 09:30",
			req:  domain.ScheduleRequest{Frequency: domain.FrequencyWeekly, Time: "09:30", DayOfWeek: "Monday"},
			want: "30 9 * * MON",
		},
		{
			name: "Quinzenal usa o mesmo formato do semanal",
			req:  domain.ScheduleRequest{Frequency: domain.FrequencyBiweekly, Time: "18:05", DayOfWeek: "friday"},
			want: "5 18 * * FRI",
		},
		{
			name: "Mensal no dia 15 às 14:00",
			req:  domain.ScheduleRequest{Frequency: domain.FrequencyMonthly, Time: "14:00", DayOfMonth: 15},
			want: "0 14 15 * *",
		},
		{
			name: "Intervalo em dias só usa hora e minuto",
			req:  domain.ScheduleRequest{Frequency: domain.FrequencyCustom, Time: "07:45", IntervalDays: 3},
			want: "45 7 * * *",
		},
		{
			name: "Cron informado é repassado",
			req:  domain.ScheduleRequest{Frequency: domain.FrequencyCron, CronExpression: "0 */6 * * *"},
			want: "0 */6 * * *",
		},
		{
			name: "Sem frequência usa o padrão",
			req:  domain.ScheduleRequest{},
			want: DefaultCron,
		},
		{
			name:    "Dia da semana inválido",
			req:     domain.ScheduleRequest{Frequency: domain.FrequencyWeekly, Time: "09:30", DayOfWeek: "Funday"},
			wantErr: true,
		},
		{
			name:    "Horário inválido",
			req:     domain.ScheduleRequest{Frequency: domain.FrequencyMonthly, Time: "25:00", DayOfMonth: 1},
			wantErr: true,
		},
		{
			name:    "Dia do mês fora do intervalo",
			req:     domain.ScheduleRequest{Frequency: domain.FrequencyMonthly, Time: "10:00", DayOfMonth: 32},
			wantErr: true,
		},
		{
			name:    "Cron inválido",
			req:     domain.ScheduleRequest{Frequency: domain.FrequencyCron, CronExpression: "todo dia"},
			wantErr: true,
		},
		{
			name:    "Frequência desconhecida",
			req:     domain.ScheduleRequest{Frequency: "daily", Time: "10:00"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToCron(tt.req)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextRun(t *testing.T) {
	// quarta-feira, 12 de março de 2025, 10:00 UTC
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  domain.ScheduleRequest
		want time.Time
	}{
		{
			name: "Semanal com dia já passado na semana soma exatamente 7 dias",
			req:  domain.ScheduleRequest{Frequency: domain.FrequencyWeekly, Time: "09:30", DayOfWeek: "Monday"},
			want: time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC).AddDate(0, 0, 7),
		},
		{
			name: "Semanal com dia ainda por vir na semana",
			req:  domain.ScheduleRequest{Frequency: domain.FrequencyWeekly, Time: "08:00", DayOfWeek: "Friday"},
			want: time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "Semanal no mesmo dia com horário já passado",
			req:  domain.ScheduleRequest{Frequency: domain.FrequencyWeekly, Time: "09:59", DayOfWeek: "Wednesday"},
			want: time.Date(2025, 3, 19, 9, 59, 0, 0, time.UTC),
		},
		{
			name: "Semanal exatamente em now avança uma semana",
			req:  domain.ScheduleRequest{Frequency: domain.FrequencyWeekly, Time: "10:00", DayOfWeek: "Wednesday"},
			want: time.Date(2025, 3, 19, 10, 0, 0, 0, time.UTC),
		},
		{
			name: "Domingo pertence à mesma semana ISO",
			req:  domain.ScheduleRequest{Frequency: domain.FrequencyWeekly, Time: "09:00", DayOfWeek: "Sunday"},
			want: time.Date(2025, 3, 16, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "Quinzenal soma 14 dias",
			req:  domain.ScheduleRequest{Frequency: domain.FrequencyBiweekly, Time: "09:30", DayOfWeek: "Monday"},
			want: time.Date(2025, 3, 24, 9, 30, 0, 0, time.UTC),
		},
		{
			name: "Mensal com dia já passado vai para o mês seguinte",
			req:  domain.ScheduleRequest{Frequency: domain.FrequencyMonthly, Time: "14:00", DayOfMonth: 5},
			want: time.Date(2025, 4, 5, 14, 0, 0, 0, time.UTC),
		},
		{
			name: "Mensal no dia 31 é limitado ao fim do mês",
			req:  domain.ScheduleRequest{Frequency: domain.FrequencyMonthly, Time: "14:00", DayOfMonth: 31},
			want: time.Date(2025, 3, 31, 14, 0, 0, 0, time.UTC),
		},
		{
			name: "Intervalo em dias",
			req:  domain.ScheduleRequest{Frequency: domain.FrequencyCustom, Time: "09:00", IntervalDays: 3},
			want: time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "Cron informado",
			req:  domain.ScheduleRequest{Frequency: domain.FrequencyCron, CronExpression: "0 12 * * *"},
			want: time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRun(tt.req, now)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "esperado %s, obtido %s", tt.want, got)
			assert.True(t, got.After(now))
		})
	}
}

func TestNextRun_Fuso(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// segunda 11:00 UTC = 08:00 em São Paulo; 09:30 local ainda não passou
	now := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)
	got, err := NextRun(domain.ScheduleRequest{
		Frequency: domain.FrequencyWeekly,
		Time:      "09:30",
		DayOfWeek: "Monday",
		TimeZone:  "America/Sao_Paulo",
	}, now)
	require.NoError(t, err)

	assert.True(t, got.Equal(time.Date(2025, 3, 10, 9, 30, 0, 0, loc)))
	assert.Equal(t, loc.String(), got.Location().String())
}

func TestNextRun_SempreDepoisDeNow(t *testing.T) {
	requests := []domain.ScheduleRequest{
		{Frequency: domain.FrequencyWeekly, Time: "00:00", DayOfWeek: "Monday"},
		{Frequency: domain.FrequencyBiweekly, Time: "23:59", DayOfWeek: "Sunday"},
		{Frequency: domain.FrequencyMonthly, Time: "12:00", DayOfMonth: 29},
		{Frequency: domain.FrequencyCustom, Time: "06:15", IntervalDays: 10},
		{Frequency: domain.FrequencyCron, CronExpression: "*/15 * * * *"},
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, req := range requests {
		for h := 0; h < 24*60; h += 7 {
			now := start.Add(time.Duration(h) * time.Hour)
			got, err := NextRun(req, now)
			require.NoError(t, err)
			require.True(t, got.After(now), "frequência %s em %s gerou %s", req.Frequency, now, got)
		}
	}
}

func TestNextRun_Invalido(t *testing.T) {
	_, err := NextRun(domain.ScheduleRequest{Frequency: domain.FrequencyCustom, Time: "09:00"}, time.Now())
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = NextRun(domain.ScheduleRequest{Frequency: domain.FrequencyWeekly, Time: "09:00", DayOfWeek: "Monday", TimeZone: "Lua/Tranquilidade"}, time.Now())
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
