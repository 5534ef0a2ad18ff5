package api

import (
	"context"
	"net/url"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
)

// SourcesAPI wraps /sources.
type SourcesAPI struct {
	client *Client
}

func (s *SourcesAPI) List(ctx context.Context) ([]models.Source, error) {
	var sources []models.Source
	if err := s.client.list(ctx, "/sources", nil, "sources", &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

func (s *SourcesAPI) Get(ctx context.Context, id string) (*models.Source, error) {
	var src models.Source
	if err := s.client.get(ctx, resourcePath("sources", id), nil, &src); err != nil {
		return nil, err
	}
	return &src, nil
}

func (s *SourcesAPI) Create(ctx context.Context, req models.CreateSourceRequest) (*models.Source, error) {
	var src models.Source
	if err := s.client.post(ctx, "/sources", req, &src); err != nil {
		return nil, err
	}
	return &src, nil
}

func (s *SourcesAPI) Update(ctx context.Context, id string, req models.UpdateSourceRequest) (*models.Source, error) {
	var src models.Source
	if err := s.client.put(ctx, resourcePath("sources", id), req, &src); err != nil {
		return nil, err
	}
	return &src, nil
}

func (s *SourcesAPI) Delete(ctx context.Context, id string) error {
	return s.client.delete(ctx, resourcePath("sources", id))
}

// Test checks the source's connection.
func (s *SourcesAPI) Test(ctx context.Context, id string) (*models.SourceTestResult, error) {
	var res models.SourceTestResult
	if err := s.client.action(ctx, resourcePath("sources", id, "test"), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Sync starts an immediate sync and returns the resulting run.
func (s *SourcesAPI) Sync(ctx context.Context, id string) (*models.JobRun, error) {
	var run models.JobRun
	if err := s.client.action(ctx, resourcePath("sources", id, "sync"), &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// OAuthURL returns the authorization URL for connecting a platform; the provider redirects to redirectURI.
func (s *SourcesAPI) OAuthURL(ctx context.Context, platform, redirectURI string) (*models.OAuthURL, error) {
	q := url.Values{}
	q.Set("redirectUri", redirectURI)

	var res models.OAuthURL
	if err := s.client.get(ctx, resourcePath("sources", "oauth", platform, "url"), q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// OAuthCallback completes a platform connection and returns the created source.
func (s *SourcesAPI) OAuthCallback(ctx context.Context, platform string, req models.OAuthCallbackRequest) (*models.Source, error) {
	var src models.Source
	if err := s.client.post(ctx, resourcePath("sources", "oauth", platform, "callback"), req, &src); err != nil {
		return nil, err
	}
	return &src, nil
}
