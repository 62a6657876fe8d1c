package meta

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

const adsPageLimit = 100

// AdsPath é o edge de anúncios da conta
func AdsPath(accountID string) string {
	return metaclient.AccountPath(accountID) + "/ads"
}

// AdsParams pede os anúncios com os insights da janela aninhados em cada registro
func AdsParams(insightFields []string, opts domain.InsightOptions) (url.Values, error) {
	window := ""
	switch {
	case opts.TimeRange != nil:
		window = fmt.Sprintf(`.time_range({"since":"%s","until":"%s"})`, opts.TimeRange.Since, opts.TimeRange.Until)
	case opts.DatePreset != "":
		window = fmt.Sprintf(".date_preset(%s)", opts.DatePreset)
	}
	if len(insightFields) == 0 {
		return nil, fmt.Errorf("%w: nenhum campo de insights para anúncios", domain.ErrValidation)
	}

	fields := fmt.Sprintf("id,name,creative{id},insights%s{%s}", window, strings.Join(insightFields, ","))

	params := url.Values{}
	params.Set("fields", fields)
	params.Set("limit", fmt.Sprint(adsPageLimit))
	return params, nil
}

// FlattenAdRecord leva os insights aninhados para o nível do anúncio e anexa o ativo do criativo.
// O registro resultante atende às chaves obrigatórias da seção de anúncios.
func FlattenAdRecord(record domain.RawInsightRecord, asset domain.CreativeAsset) domain.RawInsightRecord {
	flat := domain.RawInsightRecord{}
	if insight, ok := record.Lookup("insights.data.0"); ok {
		if m, ok := insight.(map[string]any); ok {
			for k, v := range m {
				flat[k] = v
			}
		}
	}

	flat["ad_id"] = record.String("id")
	flat["ad_name"] = record.String("name")
	flat["adCreativeId"] = asset.CreativeID
	flat["thumbnailUrl"] = asset.ThumbnailURL
	flat["sourceUrl"] = asset.SourceURL
	return flat
}
