package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/raykavin/pricewatch/pkg/core"
	zlog "github.com/raykavin/pricewatch/pkg/logger/zerolog"
	"github.com/stretchr/testify/require"
)

const label = "Silver CORSHA 5 Kgs"

func ratePage(rows ...string) string {
	return "<html><body><div class=\"rates\">" + strings.Join(rows, "") + "</div></body></html>"
}

func row(name, bid, ask string) string {
	return fmt.Sprintf(`<div class="m_prodct">
	<div class="m_width1"> %s </div>
	<div class="m_width2"><span class="redgreen">%s</span></div>
	<div class="m_width2"><span class="redgreen">%s</span></div>
</div>`, name, bid, ask)
}

func newSource(t *testing.T, handler http.HandlerFunc) *HTMLSource {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	source, err := NewHTMLSource(Config{
		URL:          server.URL,
		Label:        label,
		FetchTimeout: time.Second,
	}, zlog.NewNop())
	require.NoError(t, err)

	return source
}

func serve(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, body)
	}
}

func TestHTMLSource_Fetch(t *testing.T) {
	source := newSource(t, serve(ratePage(
		row("Gold 999 1 Kg", "7,10,000", "7,12,500"),
		row(label+" (T+0)", "91,250.00", "₹ 91,480.50"),
	)))

	reading, err := source.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, label+" (T+0)", reading.Label)
	require.NotNil(t, reading.Bid)
	require.NotNil(t, reading.Ask)
	require.Equal(t, 91250.0, *reading.Bid)
	require.Equal(t, 91480.5, *reading.Ask)
}

func TestHTMLSource_FetchAbsentAsk(t *testing.T) {
	source := newSource(t, serve(ratePage(row(label, "91250", "--"))))

	reading, err := source.Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, 91250.0, *reading.Bid)
	require.Nil(t, reading.Ask)
	require.False(t, reading.HasAsk())
}

func TestHTMLSource_FetchLabelIsCaseSensitive(t *testing.T) {
	source := newSource(t, serve(ratePage(row(strings.ToUpper(label), "1", "2"))))

	_, err := source.Fetch(context.Background())
	require.ErrorIs(t, err, core.ErrDataNotFound)
	require.Equal(t, core.ErrDataNotFound, core.KindOf(err))
}

func TestHTMLSource_FetchStructureMissing(t *testing.T) {
	source := newSource(t, serve("<html><body><p>maintenance</p></body></html>"))

	_, err := source.Fetch(context.Background())
	require.ErrorIs(t, err, core.ErrStructureMissing)
}

func TestHTMLSource_FetchUnavailable(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		source := newSource(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := source.Fetch(context.Background())
		require.ErrorIs(t, err, core.ErrSourceUnavailable)
	})

	t.Run("timeout", func(t *testing.T) {
		source := newSource(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(3 * time.Second):
			}
		})
		source.config.FetchTimeout = 50 * time.Millisecond

		_, err := source.Fetch(context.Background())
		require.ErrorIs(t, err, core.ErrSourceUnavailable)
	})
}

func TestHTMLSource_PrepareInterstitial(t *testing.T) {
	var proceeded atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><a id="proceed-button" href="/proceed">Proceed</a></body></html>`)
	})
	mux.HandleFunc("/proceed", func(w http.ResponseWriter, _ *http.Request) {
		proceeded.Store(true)
		fmt.Fprint(w, ratePage(row(label, "1", "2")))
	})

	source := newSource(t, mux.ServeHTTP)
	require.NoError(t, source.Prepare(context.Background()))
	require.True(t, proceeded.Load())
}

func TestHTMLSource_PrepareWithoutInterstitial(t *testing.T) {
	source := newSource(t, serve(ratePage(row(label, "1", "2"))))
	require.NoError(t, source.Prepare(context.Background()))
}

func TestHTMLSource_PrepareUnavailable(t *testing.T) {
	source := newSource(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := source.Prepare(context.Background())
	require.ErrorIs(t, err, core.ErrSourceUnavailable)
}

func TestExtract_FirstMatchingRow(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(ratePage(
		row(label, "10", "11"),
		row(label, "20", "21"),
	)))
	require.NoError(t, err)

	reading, err := Extract(doc, label, "http://example")
	require.NoError(t, err)
	require.Equal(t, 11.0, *reading.Ask)
}

func TestNewHTMLSource_Validation(t *testing.T) {
	_, err := NewHTMLSource(Config{URL: "not a url", Label: label}, zlog.NewNop())
	require.Error(t, err)

	_, err = NewHTMLSource(Config{URL: "http://example.com"}, zlog.NewNop())
	require.Error(t, err)
}
