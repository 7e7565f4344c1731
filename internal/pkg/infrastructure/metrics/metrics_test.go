package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/prometheus/client_golang/prometheus"
)

func TestHandlerExposesBuildInfo(t *testing.T) {
	is := is.New(t)

	p := Init("edr-server", "1.2.3")

	ts := httptest.NewServer(p.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	is.NoErr(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	is.NoErr(err)

	is.True(strings.Contains(string(body), `edr_build_info{service="edr-server",version="1.2.3"} 1`))
}

func TestVersionDefaultsToDev(t *testing.T) {
	is := is.New(t)

	p := Init("edr-server", "")

	ts := httptest.NewServer(p.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	is.NoErr(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	is.NoErr(err)

	is.True(strings.Contains(string(body), `version="dev"`))
}

func TestRegistererAcceptsApplicationCollectors(t *testing.T) {
	is := is.New(t)

	p := Init("edr-server", "1.2.3")

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "edr_test_counter_total",
		Help: "test counter",
	})

	is.NoErr(p.Registerer().Register(counter))
}
