package metadomain

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vfg2006/traffic-report-api/internal/domain"
)

func TestAPIError_Classificacao(t *testing.T) {
	tests := []struct {
		name         string
		err          *APIError
		rateLimited  bool
		tooLarge     bool
		fallback     bool
		tokenExpired bool
		transient    bool
	}{
		{
			name:        "Limite de chamadas da aplicação",
			err:         &APIError{Code: 4, StatusCode: 400},
			rateLimited: true,
			fallback:    true,
		},
		{
			name:        "Limite da Marketing API",
			err:         &APIError{Code: 80004, StatusCode: 400},
			rateLimited: true,
			fallback:    true,
		},
		{
			name:        "Status 429 sem corpo",
			err:         &APIError{StatusCode: http.StatusTooManyRequests},
			rateLimited: true,
			fallback:    true,
		},
		{
			name:     "Volume de dados excessivo por subcódigo",
			err:      &APIError{Code: 100, ErrorSubcode: 1487534, StatusCode: 400},
			tooLarge: true,
			fallback: true,
		},
		{
			name:      "Volume de dados excessivo por mensagem",
			err:       &APIError{Code: 1, Message: "Please reduce the amount of data you're asking for, then retry your request", StatusCode: 500},
			tooLarge:  true,
			fallback:  true,
			transient: true,
		},
		{
			name:         "Token expirado",
			err:          &APIError{Code: 190, Type: "OAuthException", StatusCode: 400},
			tokenExpired: true,
		},
		{
			name:         "Sessão invalidada",
			err:          &APIError{Code: 102, ErrorSubcode: 463, Type: "OAuthException", StatusCode: 400},
			tokenExpired: true,
		},
		{
			name:      "Erro interno da plataforma",
			err:       &APIError{StatusCode: http.StatusBadGateway},
			transient: true,
		},
		{
			name: "Parâmetro inválido",
			err:  &APIError{Code: 100, StatusCode: 400},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.rateLimited, tt.err.IsRateLimited())
			assert.Equal(t, tt.tooLarge, tt.err.IsDataTooLarge())
			assert.Equal(t, tt.fallback, tt.err.ShouldFallbackToAsync())
			assert.Equal(t, tt.tokenExpired, tt.err.IsTokenExpired())
			assert.Equal(t, tt.transient, tt.err.IsTransient())
			assert.True(t, errors.Is(tt.err, domain.ErrExternalAPI))
		})
	}
}

func TestNewAPIError_SemCorpo(t *testing.T) {
	err := NewAPIError(http.StatusServiceUnavailable, nil)
	assert.Equal(t, http.StatusServiceUnavailable, err.StatusCode)
	assert.Equal(t, "Service Unavailable", err.Message)
	assert.True(t, err.IsTransient())
}

func TestBatchItem_Decode(t *testing.T) {
	item := &BatchItem{Code: 200, Body: `{"id":"c1","thumbnail_url":"https://img"}`}
	record, err := item.Decode()
	assert.NoError(t, err)
	assert.Equal(t, "c1", record.String("id"))

	failed := &BatchItem{Code: 400, Body: `{"error":{"message":"Unsupported get request","code":100}}`}
	_, err = failed.Decode()
	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 100, apiErr.Code)

	malformed := &BatchItem{Code: 200, Body: `{"id":`}
	_, err = malformed.Decode()
	assert.Error(t, err)
}

func TestInstagramMedia_Thumbnail(t *testing.T) {
	image := InstagramMedia{MediaType: "IMAGE", MediaURL: "https://media"}
	assert.Equal(t, "https://media", image.Thumbnail())

	video := InstagramMedia{MediaType: "VIDEO", MediaURL: "https://video", ThumbnailURL: "https://thumb"}
	assert.Equal(t, "https://thumb", video.Thumbnail())

	post := StoryPost{Picture: "https://small"}
	assert.Equal(t, "https://small", post.Thumbnail())
}
