package wiki_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/lenna/internal/clients/wiki"
	"github.com/KirkDiggler/lenna/internal/errors"
)

type ClientTestSuite struct {
	suite.Suite
	server  *httptest.Server
	handler http.HandlerFunc
	lastReq *http.Request
	client  wiki.Client
	ctx     context.Context
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.lastReq = nil
	s.handler = nil
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lastReq = r
		s.handler(w, r)
	}))

	client, err := wiki.New(&wiki.Config{
		BaseURL:    s.server.URL + "/api.php",
		From:       "ops@example.com",
		HTTPClient: s.server.Client(),
	})
	s.Require().NoError(err)
	s.client = client
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientTestSuite) respond(status int, body string) {
	s.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (s *ClientTestSuite) TestFetchPage() {
	body := `{"parse":{"title":"Suomi (GFL2)","pageid":7,"wikitext":{"*":"{{GFL2Doll|fullname=Suomi}}"}}}`
	s.respond(http.StatusOK, body)

	page, err := s.client.FetchPage(s.ctx, "Suomi_(GFL2)")
	s.Require().NoError(err)
	s.Equal("Suomi (GFL2)", page.Title)
	s.Equal("{{GFL2Doll|fullname=Suomi}}", page.Wikitext)
	s.Equal(body, string(page.Payload))

	s.Require().NotNil(s.lastReq)
	s.Equal("/api.php", s.lastReq.URL.Path)
	query := s.lastReq.URL.Query()
	s.Equal("parse", query.Get("action"))
	s.Equal("wikitext", query.Get("prop"))
	s.Equal("json", query.Get("format"))
	s.Equal("1", query.Get("redirects"))
	s.Equal("Suomi_(GFL2)", query.Get("page"))
	s.Equal(wiki.DefaultUserAgent, s.lastReq.Header.Get("User-Agent"))
	s.Equal("ops@example.com", s.lastReq.Header.Get("From"))
}

func (s *ClientTestSuite) TestFetchPageFailures() {
	testCases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusBadGateway, body: `{}`},
		{name: "api error", status: http.StatusOK, body: `{"error":{"code":"missingtitle","info":"The page you specified doesn't exist."}}`},
		{name: "bad json", status: http.StatusOK, body: `<html>`},
		{name: "no wikitext", status: http.StatusOK, body: `{"parse":{"title":"x"}}`},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.respond(tc.status, tc.body)

			_, err := s.client.FetchPage(s.ctx, "Nobody")
			s.Require().Error(err)
			s.True(errors.IsRemoteQueryFailed(err))
			s.Equal("Nobody", errors.GetMeta(err)["page"])
		})
	}
}

func (s *ClientTestSuite) TestFetchLastModified() {
	s.respond(http.StatusOK, `{"batchcomplete":"","query":{"pages":{"42":{"pageid":42,"title":"Suomi","touched":"2024-12-01T08:30:00Z","lastrevid":99}}}}`)

	touched, err := s.client.FetchLastModified(s.ctx, "Suomi")
	s.Require().NoError(err)
	s.True(touched.Equal(time.Date(2024, 12, 1, 8, 30, 0, 0, time.UTC)))

	query := s.lastReq.URL.Query()
	s.Equal("query", query.Get("action"))
	s.Equal("info", query.Get("prop"))
	s.Equal("Suomi", query.Get("titles"))
}

func (s *ClientTestSuite) TestFetchLastModifiedFailures() {
	testCases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: ``},
		{name: "missing page", status: http.StatusOK, body: `{"query":{"pages":{"-1":{"title":"Nobody","missing":""}}}}`},
		{name: "api error", status: http.StatusOK, body: `{"error":{"code":"ratelimited","info":"slow down"}}`},
		{name: "no pages", status: http.StatusOK, body: `{"query":{"pages":{}}}`},
		{name: "bad timestamp", status: http.StatusOK, body: `{"query":{"pages":{"1":{"touched":"yesterday"}}}}`},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.respond(tc.status, tc.body)

			_, err := s.client.FetchLastModified(s.ctx, "Nobody")
			s.Require().Error(err)
			s.True(errors.IsRemoteQueryFailed(err))
		})
	}
}

func (s *ClientTestSuite) TestTransportFailure() {
	s.server.Close()

	_, err := s.client.FetchPage(s.ctx, "Suomi")
	s.Require().Error(err)
	s.True(errors.IsRemoteQueryFailed(err))
}

func (s *ClientTestSuite) TestCanceledRequestIsNotARemoteFailure() {
	s.respond(http.StatusOK, `{"parse":{"wikitext":{"*":"body"}}}`)
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.client.FetchPage(ctx, "Suomi")
	s.Require().Error(err)
	s.False(errors.IsRemoteQueryFailed(err))
	s.Equal(errors.CodeCanceled, errors.GetCode(err))
}

func TestWikitext(t *testing.T) {
	text, err := wiki.Wikitext([]byte(`{"parse":{"wikitext":{"*":"body"}}}`))
	require.NoError(t, err)
	assert.Equal(t, "body", text)

	_, err = wiki.Wikitext([]byte(`{"parse":{}}`))
	require.Error(t, err)
	assert.True(t, errors.IsExtractionFailed(err))
}
