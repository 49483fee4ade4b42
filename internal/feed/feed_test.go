package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Example News</title>
  <link>https://news.example.com</link>
  <description>Test feed</description>
  <item>
    <title>President signs climate bill</title>
    <link>https://news.example.com/climate</link>
    <description>&lt;p&gt;The bill was &lt;b&gt;signed&lt;/b&gt; on Tuesday.&lt;/p&gt;</description>
    <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
  </item>
  <item>
    <title>  Miracle cure shocks doctors </title>
    <link>https://news.example.com/miracle</link>
  </item>
  <item>
    <title>Third story</title>
    <link>https://news.example.com/third</link>
  </item>
</channel>
</rss>`

const atomFixture = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom News</title>
  <updated>2024-05-01T10:00:00Z</updated>
  <entry>
    <title>Scientist confirms report</title>
    <link href="https://atom.example.com/a"/>
    <updated>2024-05-01T10:00:00Z</updated>
    <summary>Peer reviewed.</summary>
  </entry>
</feed>`

func TestSource_ParseRSS(t *testing.T) {
	src := NewSource(5*time.Second, "test-agent")

	articles, err := src.Parse(strings.NewReader(rssFixture), 0)
	require.NoError(t, err)
	require.Len(t, articles, 3)

	first := articles[0]
	assert.Equal(t, "President signs climate bill", first.Title)
	assert.Equal(t, "https://news.example.com/climate", first.URL)
	assert.Equal(t, "The bill was signed on Tuesday.", first.Summary)
	assert.Equal(t, 2006, first.PublishedAt.Year())
	assert.Equal(t, "President signs climate bill. The bill was signed on Tuesday.", first.Text())

	assert.Equal(t, "Miracle cure shocks doctors", articles[1].Title)
	assert.Equal(t, "Miracle cure shocks doctors", articles[1].Text())
}

func TestSource_ParseAtom(t *testing.T) {
	articles, err := NewSource(time.Second, "").Parse(strings.NewReader(atomFixture), 10)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Scientist confirms report. Peer reviewed.", articles[0].Text())
	assert.Equal(t, "https://atom.example.com/a", articles[0].URL)
}

func TestSource_MaxCount(t *testing.T) {
	articles, err := NewSource(time.Second, "").Parse(strings.NewReader(rssFixture), 2)
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}

func TestSource_ParseInvalid(t *testing.T) {
	_, err := NewSource(time.Second, "").Parse(strings.NewReader("not a feed"), 0)
	assert.Error(t, err)
}

func TestSource_Fetch(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer server.Close()

	articles, err := NewSource(5*time.Second, "Verity/test").Fetch(context.Background(), server.URL, 1)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "President signs climate bill", articles[0].Title)
	assert.Equal(t, "Verity/test", gotUA)
}

func TestSource_FetchError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := NewSource(5*time.Second, "").Fetch(context.Background(), server.URL, 0)
	assert.Error(t, err)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "", PlainText(""))
	assert.Equal(t, "plain text", PlainText("  plain \n text "))
	assert.Equal(t, "Hello world & friends", PlainText("<p>Hello <i>world</i> &amp; friends</p>"))
	assert.Equal(t, "line one line two", PlainText("line one<br/>line two"))
}

func TestResolveURL(t *testing.T) {
	presets := map[string]string{"hn": "https://hnrss.org/newest", "bbc": "https://feeds.bbci.co.uk/news/rss.xml"}

	got, err := ResolveURL("hn", presets)
	require.NoError(t, err)
	assert.Equal(t, "https://hnrss.org/newest", got)

	got, err = ResolveURL("BBC", presets)
	require.NoError(t, err)
	assert.Equal(t, "https://feeds.bbci.co.uk/news/rss.xml", got)

	got, err = ResolveURL("https://example.com/rss", presets)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/rss", got)

	_, err = ResolveURL("nope", presets)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bbc, hn")
}
