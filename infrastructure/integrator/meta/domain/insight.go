package metadomain

import (
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/vfg2006/traffic-report-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// InsightFields são os campos numéricos de insights que a plataforma fornece ao catálogo de métricas
var InsightFields = []string{
	"spend",
	"impressions",
	"clicks",
	"reach",
	"frequency",
	"ctr",
	"cpm",
	"cpc",
	"purchase_roas",
	"actions",
	"action_values",
}

// Campos de identidade pedidos em cada nível
var IdentityFields = map[domain.InsightLevel][]string{
	domain.InsightLevelAccount:  {"account_id", "account_name"},
	domain.InsightLevelCampaign: {"campaign_id", "campaign_name"},
	domain.InsightLevelAdSet:    {"adset_id", "adset_name"},
	domain.InsightLevelAd:       {"ad_id", "ad_name"},
}

// FlexFloat aceita números enviados como texto ("12.34") ou como número
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

type Action struct {
	ActionType string    `json:"action_type"`
	Value      FlexFloat `json:"value"`
}

// Cursors e Paging seguem o formato de paginação da Graph API
type Cursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

type Paging struct {
	Cursors Cursors `json:"cursors"`
	Next    string  `json:"next,omitempty"`
}

// Page é uma página de resultados; Next vazio encerra a paginação
type Page struct {
	Data   []domain.RawInsightRecord `json:"data"`
	Paging *Paging                   `json:"paging,omitempty"`
}

func (p *Page) Next() string {
	if p == nil || p.Paging == nil {
		return ""
	}
	return p.Paging.Next
}

// Status de AsyncReportRun
const (
	AsyncStatusCompleted = "Job Completed"
	AsyncStatusFailed    = "Job Failed"
	AsyncStatusSkipped   = "Job Skipped"
)

type AsyncReportRun struct {
	ID                     string  `json:"id"`
	ReportRunID            string  `json:"report_run_id"`
	AsyncStatus            string  `json:"async_status"`
	AsyncPercentCompletion float64 `json:"async_percent_completion"`
}

func (r *AsyncReportRun) IsCompleted() bool {
	status := strings.ToLower(strings.TrimSpace(r.AsyncStatus))
	return status == "job completed" || status == "completed"
}

func (r *AsyncReportRun) IsFailed() bool {
	status := strings.ToLower(r.AsyncStatus)
	return strings.Contains(status, "fail") || strings.Contains(status, "skipped")
}

// BatchItem é a resposta individual de uma requisição em lote; Body vem serializado como texto
type BatchItem struct {
	Code int    `json:"code"`
	Body string `json:"body"`
}

// Decode converte o corpo do item; códigos fora de 2xx viram *APIError
func (b *BatchItem) Decode() (domain.RawInsightRecord, error) {
	if b == nil {
		return nil, &APIError{Type: "batch", Message: "item de lote vazio"}
	}
	if b.Code < 200 || b.Code >= 300 {
		var resp ErrorResponse
		_ = json.Unmarshal([]byte(b.Body), &resp)
		return nil, NewAPIError(b.Code, &resp)
	}
	var record domain.RawInsightRecord
	if err := json.Unmarshal([]byte(b.Body), &record); err != nil {
		return nil, err
	}
	return record, nil
}
