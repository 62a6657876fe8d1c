package domain

import (
	"encoding/json"
	"time"
)

const ReportTypeFacebook = "facebook"

// AccountEntry agrupa as seções de uma conta de anúncios.
// Seções nil não foram selecionadas e não aparecem na serialização.
type AccountEntry struct {
	AccountID string
	KPIs      NormalizedRow
	Ads       []NormalizedRow
	Campaigns []NormalizedRow
	Graphs    []NormalizedRow
}

func (e AccountEntry) MarshalJSON() ([]byte, error) {
	out := map[string]any{"adAccountId": e.AccountID}
	if e.KPIs != nil {
		out["kpis"] = e.KPIs
	}
	if e.Ads != nil {
		out["ads"] = e.Ads
	}
	if e.Campaigns != nil {
		out["campaigns"] = e.Campaigns
	}
	if e.Graphs != nil {
		out["graphs"] = e.Graphs
	}
	return json.Marshal(out)
}

func (e *AccountEntry) UnmarshalJSON(data []byte) error {
	var in struct {
		AccountID string          `json:"adAccountId"`
		KPIs      NormalizedRow   `json:"kpis"`
		Ads       []NormalizedRow `json:"ads"`
		Campaigns []NormalizedRow `json:"campaigns"`
		Graphs    []NormalizedRow `json:"graphs"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*e = AccountEntry(in)
	return nil
}

type ReportMetadata struct {
	DatePreset        string            `json:"datePreset"`
	ReviewNeeded      bool              `json:"reviewNeeded"`
	MetricsSelections MetricSelection   `json:"metricsSelections"`
	Messages          map[string]string `json:"messages,omitempty"`
}

type Report struct {
	UUID             string         `json:"uuid"`
	RunID            string         `json:"runId"`
	OrganizationUUID string         `json:"organizationUuid"`
	ClientUUID       string         `json:"clientUuid"`
	ReportType       string         `json:"reportType"`
	Accounts         []AccountEntry `json:"data"`
	Metadata         ReportMetadata `json:"metadata"`
	ArtifactURL      string         `json:"artifactUrl"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// CreativeAsset é a mídia que sustenta o criativo de um anúncio
type CreativeAsset struct {
	CreativeID   string `json:"adCreativeId"`
	ThumbnailURL string `json:"thumbnailUrl"`
	SourceURL    string `json:"sourceUrl"`
}

// AccountRawData carrega os registros brutos de cada categoria buscada.
// Categorias não selecionadas ficam nil.
type AccountRawData struct {
	AccountID string
	KPIs      []RawInsightRecord
	Ads       []RawInsightRecord
	Campaigns []RawInsightRecord
	Graphs    []RawInsightRecord
}

// Section retorna os registros da categoria e se ela foi buscada
func (d *AccountRawData) Section(category MetricCategory) ([]RawInsightRecord, bool) {
	var records []RawInsightRecord
	switch category {
	case MetricCategoryKPIs:
		records = d.KPIs
	case MetricCategoryAds:
		records = d.Ads
	case MetricCategoryCampaigns:
		records = d.Campaigns
	case MetricCategoryGraphs:
		records = d.Graphs
	}
	return records, records != nil
}

func (d *AccountRawData) SetSection(category MetricCategory, records []RawInsightRecord) {
	if records == nil {
		records = []RawInsightRecord{}
	}
	switch category {
	case MetricCategoryKPIs:
		d.KPIs = records
	case MetricCategoryAds:
		d.Ads = records
	case MetricCategoryCampaigns:
		d.Campaigns = records
	case MetricCategoryGraphs:
		d.Graphs = records
	}
}

const (
	// ChannelReportReady avisa que o relatório aguarda revisão antes do envio
	ChannelReportReady = "notification-report-ready"
	// ChannelSendReport pede o envio do relatório ao cliente
	ChannelSendReport = "notification-send-report"
)

// ReportNotification é publicada depois que o relatório foi gravado
type ReportNotification struct {
	ReportURL        string            `json:"reportUrl"`
	ClientUUID       string            `json:"clientUuid"`
	OrganizationUUID string            `json:"organizationUuid"`
	ReportUUID       string            `json:"reportUuid"`
	Messages         map[string]string `json:"messages,omitempty"`
}
