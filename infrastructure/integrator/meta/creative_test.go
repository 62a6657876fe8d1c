package meta

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	metadomain "github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/metaclient/mocks"
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

func adRecord(id, creativeID string) domain.RawInsightRecord {
	return domain.RawInsightRecord{
		"id":       id,
		"name":     "Anúncio " + id,
		"creative": map[string]any{"id": creativeID},
	}
}

func TestCreativeResolver_Resolve(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	ads := []domain.RawInsightRecord{
		adRecord("ad-ig", "cr-ig"),
		adRecord("ad-post", "cr-post"),
		adRecord("ad-plain", "cr-plain"),
		adRecord("ad-ig-2", "cr-ig"),
		{"id": "ad-sem-criativo"},
	}

	client.EXPECT().GetEntitiesBatch(gomock.Any(), []string{"cr-ig", "cr-post", "cr-plain"}, metadomain.AdCreativeFields).
		Return([]metadomain.BatchItem{
			okItem(`{"id":"cr-ig","effective_instagram_media_id":"ig-1","thumbnail_url":"https://fallback"}`),
			okItem(`{"id":"cr-post","effective_object_story_id":"page_post-1"}`),
			okItem(`{"id":"cr-plain","thumbnail_url":"https://thumb-plain","instagram_permalink_url":"https://ig/plain"}`),
		}, nil)
	client.EXPECT().GetEntitiesBatch(gomock.Any(), []string{"ig-1"}, metadomain.InstagramMediaFields).
		Return([]metadomain.BatchItem{
			okItem(`{"id":"ig-1","media_type":"IMAGE","media_url":"https://ig/media","permalink":"https://ig/p/1"}`),
		}, nil)
	client.EXPECT().GetEntitiesBatch(gomock.Any(), []string{"post-1"}, metadomain.StoryPostFields).
		Return([]metadomain.BatchItem{
			okItem(`{"id":"post-1","picture":"https://fb/pic","permalink_url":"https://fb/post"}`),
		}, nil)

	assets, err := NewCreativeResolver(NewEntityGraphResolver(client)).Resolve(context.Background(), ads)
	require.NoError(t, err)
	require.Len(t, assets, 4)

	assert.Equal(t, domain.CreativeAsset{CreativeID: "cr-ig", ThumbnailURL: "https://ig/media", SourceURL: "https://ig/p/1"}, assets["ad-ig"])
	assert.Equal(t, assets["ad-ig"], assets["ad-ig-2"])
	assert.Equal(t, domain.CreativeAsset{CreativeID: "cr-post", ThumbnailURL: "https://fb/pic", SourceURL: "https://fb/post"}, assets["ad-post"])
	assert.Equal(t, domain.CreativeAsset{CreativeID: "cr-plain", ThumbnailURL: "https://thumb-plain", SourceURL: "https://ig/plain"}, assets["ad-plain"])
}

func TestCreativeResolver_SemAnuncios(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)

	assets, err := NewCreativeResolver(NewEntityGraphResolver(client)).Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestFlattenAdRecord(t *testing.T) {
	record := domain.RawInsightRecord{
		"id":   "ad-1",
		"name": "Promoção",
		"insights": map[string]any{
			"data": []any{
				map[string]any{
					"spend":         "120.50",
					"purchase_roas": []any{map[string]any{"action_type": "omni_purchase", "value": "3.2"}},
				},
			},
		},
	}

	flat := FlattenAdRecord(record, domain.CreativeAsset{CreativeID: "cr-1", ThumbnailURL: "https://t", SourceURL: "https://s"})

	assert.Equal(t, "ad-1", flat["ad_id"])
	assert.Equal(t, "Promoção", flat["ad_name"])
	assert.Equal(t, "cr-1", flat["adCreativeId"])
	spend, ok := flat.Float("spend")
	assert.True(t, ok)
	assert.Equal(t, 120.5, spend)
	roas, ok := flat.FirstValue("purchase_roas")
	assert.True(t, ok)
	assert.Equal(t, 3.2, roas)
	_, nested := flat["insights"]
	assert.False(t, nested)
}

func TestAdsParams(t *testing.T) {
	params, err := AdsParams([]string{"spend", "purchase_roas"}, domain.InsightOptions{DatePreset: "last_30d"})
	require.NoError(t, err)
	assert.Equal(t, "id,name,creative{id},insights.date_preset(last_30d){spend,purchase_roas}", params.Get("fields"))

	params, err = AdsParams([]string{"spend"}, domain.InsightOptions{TimeRange: &domain.DateRange{Since: "2025-01-01", Until: "2025-01-31"}})
	require.NoError(t, err)
	assert.Equal(t, `id,name,creative{id},insights.time_range({"since":"2025-01-01","until":"2025-01-31"}){spend}`, params.Get("fields"))
}
