package metadomain

import (
	"github.com/vfg2006/traffic-report-api/internal/domain"
)

// AdInsight é o registro do edge /ads com insights aninhados
type AdInsight struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Creative struct {
		ID string `json:"id"`
	} `json:"creative"`
	Insights struct {
		Data []domain.RawInsightRecord `json:"data"`
	} `json:"insights"`
}

// AdCreative traz as referências para a mídia do criativo
type AdCreative struct {
	ID                        string `json:"id"`
	EffectiveInstagramMediaID string `json:"effective_instagram_media_id"`
	EffectiveObjectStoryID    string `json:"effective_object_story_id"`
	ThumbnailURL              string `json:"thumbnail_url"`
	InstagramPermalinkURL     string `json:"instagram_permalink_url"`
}

type InstagramMedia struct {
	ID           string `json:"id"`
	MediaURL     string `json:"media_url"`
	Permalink    string `json:"permalink"`
	ThumbnailURL string `json:"thumbnail_url"`
	MediaType    string `json:"media_type"`
}

// Thumbnail usa media_url quando a imagem não tem miniatura própria
func (m *InstagramMedia) Thumbnail() string {
	if m.ThumbnailURL == "" && m.MediaType == "IMAGE" {
		return m.MediaURL
	}
	return m.ThumbnailURL
}

type StoryPost struct {
	ID           string `json:"id"`
	FullPicture  string `json:"full_picture"`
	Picture      string `json:"picture"`
	PermalinkURL string `json:"permalink_url"`
}

func (p *StoryPost) Thumbnail() string {
	if p.FullPicture != "" {
		return p.FullPicture
	}
	return p.Picture
}

// Campos pedidos em cada etapa da resolução de criativos
var (
	AdCreativeFields     = []string{"id", "effective_instagram_media_id", "effective_object_story_id", "thumbnail_url", "instagram_permalink_url"}
	InstagramMediaFields = []string{"media_url", "permalink", "thumbnail_url", "media_type"}
	StoryPostFields      = []string{"full_picture", "picture", "permalink_url"}
)

// DecodeRecord converte um registro sem esquema em um tipo do nível correspondente
func DecodeRecord(record domain.RawInsightRecord, out any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
