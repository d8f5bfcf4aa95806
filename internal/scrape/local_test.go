package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const consultationsHTML = `<!DOCTYPE html>
<html><head><title>Ongoing consultations</title>
<script>var tracking = "should not appear";</script>
<style>.x { color: red }</style></head>
<body>
<nav><a href="/home">Home</a></nav>
<h1>Ongoing consultations</h1>
<table>
<tr><th>Document</th><th>Deadline</th></tr>
<tr><td><a href="/docs/law-a.pdf">Law A</a></td><td>2024-01-01</td></tr>
</table>
<p>Responsible: <a href="https://www.llv.li/ministry-x">Ministry X</a></p>
<footer>Imprint</footer>
</body></html>`

func TestLocalScraper_Scrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "ConsultBot")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(consultationsHTML))
	}))
	defer srv.Close()

	s := NewLocalScraper(0)
	assert.Equal(t, "local", s.Name())

	res, err := s.Scrape(context.Background(), srv.URL+"/consultations")
	require.NoError(t, err)
	assert.Equal(t, "local", res.Source)
	assert.Equal(t, "Ongoing consultations", res.Title)
	assert.Equal(t, 200, res.StatusCode)

	assert.Contains(t, res.Content, "Law A ("+srv.URL+"/docs/law-a.pdf)")
	assert.Contains(t, res.Content, "Ministry X (https://www.llv.li/ministry-x)")
	assert.Contains(t, res.Content, "2024-01-01")
	assert.NotContains(t, res.Content, "should not appear")
	assert.NotContains(t, res.Content, "Imprint")
	assert.NotContains(t, res.Content, "Home")
}

func TestLocalScraper_DecodesLatin1(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
		// "Vernehmlassung über" with ü as 0xFC
		w.Write([]byte("<html><body><p>Vernehmlassung \xfcber das Gesetz</p></body></html>"))
	}))
	defer srv.Close()

	res, err := NewLocalScraper(0).Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, res.Content, "Vernehmlassung über das Gesetz")
}

func TestLocalScraper_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewLocalScraper(0).Scrape(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestLocalScraper_EmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><script>x()</script></body></html>"))
	}))
	defer srv.Close()

	_, err := NewLocalScraper(0).Scrape(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty page")
}

func TestLocalScraper_Blocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="g-recaptcha"></div><p>Prove you are human</p></body></html>`))
	}))
	defer srv.Close()

	_, err := NewLocalScraper(0).Scrape(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked (captcha)")
}

func TestDecodeCharset(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		body        string
		contentType string
		want        string
		wantErr     bool
	}{
		{"no header", "abc", "", "abc", false},
		{"utf-8", "abc", "text/html; charset=UTF-8", "abc", false},
		{"windows-1252", "caf\xe9", "text/html; charset=windows-1252", "café", false},
		{"unknown charset", "abc", "text/html; charset=x-klingon", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeCharset([]byte(tt.body), tt.contentType)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestResolveLink(t *testing.T) {
	t.Parallel()
	base, err := url.Parse("https://www.llv.li/en/consultations/")
	require.NoError(t, err)

	assert.Equal(t, "https://www.llv.li/docs/a.pdf", resolveLink(base, "/docs/a.pdf"))
	assert.Equal(t, "https://www.llv.li/en/consultations/b", resolveLink(base, "b"))
	assert.Equal(t, "https://other.li/x", resolveLink(base, "https://other.li/x"))
	assert.Empty(t, resolveLink(base, "#top"))
	assert.Empty(t, resolveLink(base, "javascript:void(0)"))
	assert.Empty(t, resolveLink(base, "  "))
	assert.True(t, strings.HasPrefix(resolveLink(nil, "/x"), "/x"))
}
