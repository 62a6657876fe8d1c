package meta

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	metadomain "github.com/vfg2006/traffic-report-api/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

// CreativeResolver resolve a mídia de cada anúncio: criativo, depois mídia do Instagram ou post da página
type CreativeResolver struct {
	resolver *EntityGraphResolver
}

func NewCreativeResolver(resolver *EntityGraphResolver) *CreativeResolver {
	return &CreativeResolver{resolver: resolver}
}

// Resolve retorna os ativos indexados pelo id do anúncio. Anúncios sem criativo ficam de fora.
func (c *CreativeResolver) Resolve(ctx context.Context, ads []domain.RawInsightRecord) (map[string]domain.CreativeAsset, error) {
	creativeByAd := make(map[string]string, len(ads))
	creativeIDs := make([]string, 0, len(ads))
	seen := make(map[string]struct{}, len(ads))

	for _, record := range ads {
		var ad metadomain.AdInsight
		if err := metadomain.DecodeRecord(record, &ad); err != nil || ad.Creative.ID == "" {
			continue
		}
		creativeByAd[ad.ID] = ad.Creative.ID
		if _, ok := seen[ad.Creative.ID]; !ok {
			seen[ad.Creative.ID] = struct{}{}
			creativeIDs = append(creativeIDs, ad.Creative.ID)
		}
	}
	if len(creativeIDs) == 0 {
		return map[string]domain.CreativeAsset{}, nil
	}

	creativeRecords, err := c.resolver.ResolveBatch(ctx, creativeIDs, metadomain.AdCreativeFields)
	if err != nil {
		return nil, err
	}

	creatives := make(map[string]metadomain.AdCreative, len(creativeIDs))
	var mediaIDs, postIDs []string
	for i, record := range creativeRecords {
		if record == nil {
			continue
		}
		var creative metadomain.AdCreative
		if err := metadomain.DecodeRecord(record, &creative); err != nil {
			logrus.WithField("creative_id", creativeIDs[i]).WithError(err).Warn("Criativo com formato inesperado")
			continue
		}
		if creative.ID == "" {
			creative.ID = creativeIDs[i]
		}
		creatives[creative.ID] = creative

		switch {
		case creative.EffectiveInstagramMediaID != "":
			mediaIDs = append(mediaIDs, creative.EffectiveInstagramMediaID)
		case creative.EffectiveObjectStoryID != "":
			postIDs = append(postIDs, postID(creative.EffectiveObjectStoryID))
		}
	}

	var (
		media map[string]metadomain.InstagramMedia
		posts map[string]metadomain.StoryPost
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		media, err = resolveTyped[metadomain.InstagramMedia](gctx, c.resolver, mediaIDs, metadomain.InstagramMediaFields)
		return err
	})
	g.Go(func() error {
		var err error
		posts, err = resolveTyped[metadomain.StoryPost](gctx, c.resolver, postIDs, metadomain.StoryPostFields)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	assets := make(map[string]domain.CreativeAsset, len(creativeByAd))
	for adID, creativeID := range creativeByAd {
		asset := domain.CreativeAsset{CreativeID: creativeID}

		if creative, ok := creatives[creativeID]; ok {
			asset.ThumbnailURL = creative.ThumbnailURL
			asset.SourceURL = creative.InstagramPermalinkURL

			if m, ok := media[creative.EffectiveInstagramMediaID]; ok && creative.EffectiveInstagramMediaID != "" {
				asset.ThumbnailURL = m.Thumbnail()
				asset.SourceURL = m.Permalink
			} else if p, ok := posts[postID(creative.EffectiveObjectStoryID)]; ok && creative.EffectiveObjectStoryID != "" {
				asset.ThumbnailURL = p.Thumbnail()
				asset.SourceURL = p.PermalinkURL
			}
		}

		assets[adID] = asset
	}

	return assets, nil
}

// postID extrai o id do post de <page_id>_<post_id>
func postID(storyID string) string {
	if idx := strings.Index(storyID, "_"); idx >= 0 && idx < len(storyID)-1 {
		return storyID[idx+1:]
	}
	return storyID
}

func resolveTyped[T any](ctx context.Context, resolver *EntityGraphResolver, ids []string, fields []string) (map[string]T, error) {
	out := make(map[string]T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	records, err := resolver.ResolveBatch(ctx, ids, fields)
	if err != nil {
		return nil, err
	}
	for i, record := range records {
		if record == nil {
			continue
		}
		var item T
		if err := metadomain.DecodeRecord(record, &item); err != nil {
			logrus.WithField("entity_id", ids[i]).WithError(err).Warn("Entidade com formato inesperado")
			continue
		}
		out[ids[i]] = item
	}
	return out, nil
}
